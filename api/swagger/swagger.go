package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus GPA API",
        "description": "Semester GPA, CGPA and cohort batch averages for campus students",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Registration, login and token rotation"},
        {"name": "Users", "description": "Profiles and cohort (uni year)"},
        {"name": "SemesterGPA", "description": "Semester records, CGPA, batch averages and transcripts"},
        {"name": "Metrics", "description": "Runtime metrics"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a student account",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email or username taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "Tokens issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate refresh token",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke refresh token",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/users/me": {
            "get": {
                "tags": ["Users"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/users/me/details": {
            "put": {
                "tags": ["Users"],
                "summary": "Update profile details and cohort",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateDetailsRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/student/semester-gpa": {
            "post": {
                "tags": ["SemesterGPA"],
                "summary": "Create or replace a semester GPA record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpsertSemesterGPARequest"}}],
                "responses": {
                    "200": {"description": "Replaced", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid grade or payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["SemesterGPA"],
                "summary": "List own semester records",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/student/semester-gpa/semester/{semesterId}": {
            "parameters": [{"in": "path", "name": "semesterId", "required": true, "type": "string", "enum": ["FIRST", "SECOND", "THIRD", "FOURTH", "FIFTH", "SIXTH", "SEVENTH", "EIGHTH"]}],
            "get": {
                "tags": ["SemesterGPA"],
                "summary": "Get one semester record",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "tags": ["SemesterGPA"],
                "summary": "Rename and/or replace subjects",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateSemesterGPARequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["SemesterGPA"],
                "summary": "Delete one semester record",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/student/semester-gpa/cgpa": {
            "get": {
                "tags": ["SemesterGPA"],
                "summary": "Cumulative GPA",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/student/semester-gpa/batch-average": {
            "get": {
                "tags": ["SemesterGPA"],
                "summary": "Batch average of the caller's cohort",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/student/semester-gpa/transcript": {
            "get": {
                "tags": ["SemesterGPA"],
                "summary": "Download transcript",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/admin/semester-gpa/user/{userId}": {
            "parameters": [{"in": "path", "name": "userId", "required": true, "type": "string"}],
            "post": {
                "tags": ["SemesterGPA"],
                "summary": "Create or replace a semester record for a user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpsertSemesterGPARequest"}}],
                "responses": {"200": {"description": "Replaced"}, "201": {"description": "Created"}}
            },
            "get": {
                "tags": ["SemesterGPA"],
                "summary": "List a user's semester records",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/semester-gpa/user/{userId}/cgpa": {
            "get": {
                "tags": ["SemesterGPA"],
                "summary": "A user's cumulative GPA",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "userId", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/semester-gpa/batch/{uniYear}": {
            "get": {
                "tags": ["SemesterGPA"],
                "summary": "Credit-weighted batch average for a cohort",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "uniYear", "required": true, "type": "string", "enum": ["FIRST_YEAR", "SECOND_YEAR", "THIRD_YEAR", "FOURTH_YEAR"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/semester-gpa/{id}": {
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "get": {
                "tags": ["SemesterGPA"],
                "summary": "Get a semester record by id",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["SemesterGPA"],
                "summary": "Delete a semester record by id",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "uniYear", "type": "string"}, {"in": "query", "name": "role", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/metrics": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Runtime metrics snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "username", "password", "full_name"],
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "full_name": {"type": "string"},
                "uni_year": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "UpdateDetailsRequest": {
            "type": "object",
            "properties": {
                "fullName": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "regNumber": {"type": "string"},
                "department": {"type": "string", "enum": ["ICT", "ET", "BST"]},
                "uniYear": {"type": "string", "enum": ["FIRST_YEAR", "SECOND_YEAR", "THIRD_YEAR", "FOURTH_YEAR"]}
            }
        },
        "SubjectRequest": {
            "type": "object",
            "required": ["subjectName", "credits", "grade"],
            "properties": {
                "subjectName": {"type": "string"},
                "credits": {"type": "number"},
                "grade": {"type": "string", "enum": ["A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "E"]}
            }
        },
        "UpsertSemesterGPARequest": {
            "type": "object",
            "required": ["semesterId", "semesterName", "subjects"],
            "properties": {
                "semesterId": {"type": "string"},
                "semesterName": {"type": "string"},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/SubjectRequest"}}
            }
        },
        "UpdateSemesterGPARequest": {
            "type": "object",
            "properties": {
                "semesterName": {"type": "string"},
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/SubjectRequest"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
