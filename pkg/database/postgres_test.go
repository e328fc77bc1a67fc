package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-timetable-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "sched", Password: "pw", Name: "sma_timetable", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5433 user=sched password=pw dbname=sma_timetable sslmode=disable", dsn)
}
