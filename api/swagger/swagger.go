package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Weekly timetable generation for grade classes.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Timetable", "description": "Generate, read and clear grade class timetables"},
        {"name": "Time Config", "description": "School-day structure per academic year"},
        {"name": "Subject Hours", "description": "Weekly hours of subjects per grade class"},
        {"name": "Teacher Preferences", "description": "Teacher time windows and workload limits"},
        {"name": "Subjects", "description": "Teachers eligible for a subject"}
    ],
    "paths": {
        "/schedule/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate the weekly timetable of a grade class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Timetable generated; status is COMPLETE, PARTIAL or EMPTY", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Grade class not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Subjects without teachers or unknown for the grade level", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/timetable/{gradeClassId}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Get the stored timetable grouped per weekday",
                "parameters": [{"name": "gradeClassId", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Grade class not found"}}
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete the timetable of a grade class",
                "parameters": [{"name": "gradeClassId", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Deleted count", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Grade class not found"}}
            }
        },
        "/schedule/config": {
            "get": {
                "tags": ["Time Config"],
                "summary": "List school-day configurations",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Time Config"],
                "summary": "Create the configuration of an academic year",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimeConfigRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid payload"}, "409": {"description": "Already exists"}}
            }
        },
        "/schedule/config/{academicYear}": {
            "get": {
                "tags": ["Time Config"],
                "summary": "Get the configuration of an academic year, creating the default one if missing",
                "parameters": [{"name": "academicYear", "in": "path", "required": true, "type": "string", "description": "e.g. 2025-2026"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Time Config"],
                "summary": "Update the configuration of an academic year",
                "parameters": [
                    {"name": "academicYear", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/schedule/config/{academicYear}/slots": {
            "get": {
                "tags": ["Time Config"],
                "summary": "Preview the periods and breaks of a school day",
                "parameters": [{"name": "academicYear", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/subject-hours": {
            "post": {
                "tags": ["Subject Hours"],
                "summary": "Set the weekly hours of a subject for a grade class",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectHoursRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Already exists"}}
            }
        },
        "/schedule/subject-hours/{subjectId}/{gradeClassId}": {
            "get": {
                "tags": ["Subject Hours"],
                "summary": "Get the weekly hours of a subject for a grade class",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "gradeClassId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Subject Hours"],
                "summary": "Update the weekly hours of a subject for a grade class",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "gradeClassId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/schedule/subject-hours/class/{gradeClassId}": {
            "get": {
                "tags": ["Subject Hours"],
                "summary": "List the subject hours of a grade class",
                "parameters": [{"name": "gradeClassId", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/teacher-preference/{id}": {
            "get": {
                "tags": ["Teacher Preferences"],
                "summary": "Get teacher preferences or the defaults",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Teacher not found"}}
            },
            "put": {
                "tags": ["Teacher Preferences"],
                "summary": "Create or update teacher preferences",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTeacherPreferenceRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid payload"}}
            }
        },
        "/subjects/{id}/teachers": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List the teachers of a subject, primary first",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Subjects"],
                "summary": "Replace the teachers of a subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid payload"}}
            }
        }
    },
    "definitions": {
        "SubjectDemand": {
            "type": "object",
            "required": ["subjectId", "hoursPerWeek"],
            "properties": {
                "subjectId": {"type": "string"},
                "hoursPerWeek": {"type": "integer", "minimum": 1, "maximum": 40},
                "preferredDays": {"type": "array", "items": {"type": "integer", "minimum": 1, "maximum": 7}}
            }
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "required": ["gradeClassId"],
            "properties": {
                "gradeClassId": {"type": "string"},
                "academicYear": {"type": "string"},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/SubjectDemand"}},
                "activeDays": {"type": "array", "items": {"type": "integer", "minimum": 1, "maximum": 7}}
            }
        },
        "CreateTimeConfigRequest": {
            "type": "object",
            "required": ["academicYear", "schoolStartTime", "schoolEndTime", "periodDuration", "breakDuration", "maxPeriodsPerDay"],
            "properties": {
                "academicYear": {"type": "string"},
                "schoolStartTime": {"type": "string", "example": "07:30"},
                "schoolEndTime": {"type": "string", "example": "16:00"},
                "periodDuration": {"type": "integer", "minimum": 30, "maximum": 90},
                "breakDuration": {"type": "integer", "minimum": 5, "maximum": 30},
                "maxPeriodsPerDay": {"type": "integer", "minimum": 4, "maximum": 12},
                "breakTimes": {"type": "array", "items": {"type": "object", "properties": {"afterPeriod": {"type": "integer"}, "duration": {"type": "integer"}}}}
            }
        },
        "CreateSubjectHoursRequest": {
            "type": "object",
            "required": ["subjectId", "gradeClassId", "hoursPerWeek"],
            "properties": {
                "subjectId": {"type": "string"},
                "gradeClassId": {"type": "string"},
                "hoursPerWeek": {"type": "integer", "minimum": 1, "maximum": 20},
                "preferredDays": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "UpsertTeacherPreferenceRequest": {
            "type": "object",
            "properties": {
                "timePreference": {"type": "string", "enum": ["ANY", "MORNING", "MIDDAY", "AFTERNOON"]},
                "maxHoursPerDay": {"type": "integer", "minimum": 1, "maximum": 12},
                "maxHoursPerWeek": {"type": "integer", "minimum": 0, "maximum": 60},
                "unavailableDays": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
