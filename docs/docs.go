// Package docs holds the OpenAPI document of the swapd HTTP API and registers
// it with swag so /swagger can serve it. It is maintained by hand.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "swapd maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/predict": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Score a feature vector with the served model",
                "parameters": [
                    {
                        "description": "Features",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.PredictRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PredictResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/reload": {
            "post": {
                "produces": ["application/json"],
                "summary": "Wake the reload loop for an immediate cycle",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/types.ReloadResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Slot and reload loop status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {"summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/readyz": {
            "get": {
                "summary": "Readiness probe",
                "responses": {"200": {"description": "ready"}, "503": {"description": "loading"}}
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.PredictRequest": {
            "type": "object",
            "properties": {
                "features": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "types.PredictResponse": {
            "type": "object",
            "properties": {
                "fallback": {"type": "boolean", "example": false},
                "score": {"type": "number", "example": 0.73},
                "version": {"type": "string", "example": "net_model_20261016120000"}
            }
        },
        "types.ReloadResponse": {
            "type": "object",
            "properties": {
                "queued": {"type": "boolean", "example": true}
            }
        },
        "types.ModelInfo": {
            "type": "object",
            "properties": {
                "dir": {"type": "string", "example": "/data/models/ctr/net_model_20261016120000"},
                "features": {"type": "array", "items": {"type": "string"}},
                "name": {"type": "string", "example": "ctr"}
            }
        },
        "types.SlotStatus": {
            "type": "object",
            "properties": {
                "age_seconds": {"type": "integer", "example": 120},
                "loaded_at_unix": {"type": "integer", "example": 1700000000},
                "readers": {"type": "integer", "example": 3},
                "slot": {"type": "string", "example": "A"},
                "state": {"type": "string", "example": "served"},
                "version": {"type": "string", "example": "net_model_20261016120000"},
                "writing": {"type": "boolean", "example": false}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "current": {"type": "string", "example": "A"},
                "current_version": {"type": "string", "example": "net_model_20261016120000"},
                "fleet_index": {"type": "integer", "example": 1},
                "fleet_size": {"type": "integer", "example": 4},
                "last_error": {"type": "string"},
                "loads_total": {"type": "integer", "example": 12},
                "model": {"$ref": "#/definitions/types.ModelInfo"},
                "next_reload_in_seconds": {"type": "integer", "example": 1680},
                "next_reload_unix": {"type": "integer", "example": 1700001800},
                "ready": {"type": "boolean", "example": true},
                "server_time_unix": {"type": "integer", "example": 1700000000},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/types.SlotStatus"}},
                "uptime_seconds": {"type": "integer", "example": 3600}
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
	Title:            "swapd API",
	Description:      "Scoring service backed by a hot-swappable, periodically reloaded model.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
