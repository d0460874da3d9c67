// Package docs registers the Swagger spec. Code generated by swag. DO NOT EDIT.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {
                        "description": "API is healthy",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/api/v1/scheduling/tasks": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scheduling"],
                "summary": "Create a task",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/scheduling/tasks/{id}/schedule": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Scheduling"],
                "summary": "Run the engine for a task",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/scheduling/tasks/{id}/pin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scheduling"],
                "summary": "Pin a task (drag commit)",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Position overlaps occupied time"}
                }
            }
        },
        "/api/v1/scheduling/slots": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Scheduling"],
                "summary": "List available slots",
                "parameters": [
                    {"type": "string", "name": "assigneeId", "in": "query", "required": true},
                    {"type": "string", "name": "date", "in": "query", "required": true},
                    {"type": "integer", "name": "durationMinutes", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/scheduling/placements/validate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scheduling"],
                "summary": "Validate a manual placement",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/scheduling/events": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scheduling"],
                "summary": "Create a calendar event",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1",
	Host:             "localhost:8080",
	BasePath:         "",
	Schemes:          []string{"http"},
	Title:            "Matterplan Scheduling API",
	Description:      "Task auto-scheduling engine for legal practice management: business-hours slot calculation, conflict detection, and deadline-aware placement with backward cascade.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
