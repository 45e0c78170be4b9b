// Package docs registers the swagger document served by jobstreamd under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/jobs": {
            "get": {
                "produces": ["application/json"],
                "summary": "List registered jobs",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.JobsResponse"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Register an externally managed job",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.CreateJobRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.Job"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/jobs/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get a job",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Job"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "delete": {
                "summary": "Remove a job or close a running topology",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/jobs/{id}/state": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Change the state of an externally managed job",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.UpdateJobRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Job"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/events": {
            "get": {
                "produces": ["application/x-ndjson"],
                "summary": "Stream job events as NDJSON",
                "parameters": [{"in": "query", "name": "type", "type": "string", "description": "comma-separated event types: add, remove, update"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.JobEvent"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.Job": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "job-1"},
                "name": {"type": "string", "example": "ingest"},
                "state": {"type": "string", "example": "running"},
                "next_state": {"type": "string", "example": "running"},
                "health": {"type": "string", "example": "healthy"},
                "last_error": {"type": "string"}
            }
        },
        "types.JobEvent": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "add"},
                "job": {"$ref": "#/definitions/types.Job"}
            }
        },
        "types.JobsResponse": {
            "type": "object",
            "properties": {"jobs": {"type": "array", "items": {"$ref": "#/definitions/types.Job"}}}
        },
        "types.CreateJobRequest": {
            "type": "object",
            "properties": {"name": {"type": "string", "example": "nightly-export"}}
        },
        "types.UpdateJobRequest": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "example": "running"},
                "health": {"type": "string", "example": "unhealthy"},
                "error": {"type": "string"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid JSON body"},
                "code": {"type": "integer", "example": 400}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "jobstreamd API",
	Description:      "Job registry and job event streaming.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
