// Package swagger holds the OpenAPI document served under /swagger.
// Keep it in step with the route annotations in internal/handler.
package swagger

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
        "/api/forms": {
            "post": {
                "tags": ["forms"],
                "summary": "Create tax form",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.CreateTaxFormRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TaxForm"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/forms/user/{userId}": {
            "get": {
                "tags": ["forms"],
                "summary": "List tax forms by owner",
                "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.TaxForm"}}}
                }
            }
        },
        "/api/forms/{id}": {
            "get": {
                "tags": ["forms"],
                "summary": "Get tax form",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TaxForm"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "tags": ["forms"],
                "summary": "Delete tax form",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DeleteResult"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "patch": {
                "tags": ["forms"],
                "summary": "Update tax form",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.UpdateTaxFormRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TaxForm"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/countries": {
            "get": {
                "tags": ["countries"],
                "summary": "List country configurations",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["countries"],
                "summary": "Create country configuration",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/countries/{code}": {
            "get": {
                "tags": ["countries"],
                "summary": "Get country configuration",
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/catalog/countries": {
            "get": {
                "tags": ["catalog"],
                "summary": "List selectable countries",
                "parameters": [{"type": "string", "default": "en", "name": "language", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/catalog/countries/{code}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Get selectable country",
                "parameters": [
                    {"type": "string", "name": "code", "in": "path", "required": true},
                    {"type": "string", "default": "en", "name": "language", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/i18n/languages": {
            "get": {
                "tags": ["i18n"],
                "summary": "List languages",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/i18n/{language}": {
            "get": {
                "tags": ["i18n"],
                "summary": "Get translations",
                "parameters": [{"type": "string", "name": "language", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/ai/assist": {
            "post": {
                "tags": ["ai"],
                "summary": "Ask the AI assistant",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/ai/history/{formId}": {
            "get": {
                "tags": ["ai"],
                "summary": "AI assistance history",
                "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/ai/suggestions": {
            "post": {
                "tags": ["ai"],
                "summary": "Deduction suggestions",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/wizard/sessions": {
            "post": {
                "tags": ["wizard"],
                "summary": "Start wizard session",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/wizard/sessions/{id}": {
            "get": {
                "tags": ["wizard"],
                "summary": "Get wizard session",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "tags": ["wizard"],
                "summary": "Discard session",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/wizard/sessions/{id}/country": {
            "put": {"tags": ["wizard"], "summary": "Select country", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/wizard/sessions/{id}/language": {
            "put": {"tags": ["wizard"], "summary": "Select language", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/wizard/sessions/{id}/fields": {
            "put": {"tags": ["wizard"], "summary": "Set field values", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/wizard/sessions/{id}/next": {
            "post": {
                "tags": ["wizard"],
                "summary": "Next step",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "name": "validate", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/wizard/sessions/{id}/previous": {
            "post": {"tags": ["wizard"], "summary": "Previous step", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/wizard/sessions/{id}/summary": {
            "get": {"tags": ["wizard"], "summary": "Review summary", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/wizard/sessions/{id}/save": {
            "post": {"tags": ["wizard"], "summary": "Save draft", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/wizard/sessions/{id}/submit": {
            "post": {"tags": ["wizard"], "summary": "Submit form", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "handler.DeleteResult": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}}
        },
        "model.TaxForm": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "countryCode": {"type": "string"},
                "formType": {"type": "string"},
                "taxYear": {"type": "integer"},
                "formData": {"type": "object"},
                "status": {"type": "string", "enum": ["draft", "completed", "submitted"]},
                "language": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "status_code": {"type": "integer"},
                "data": {},
                "error": {"type": "string"}
            }
        },
        "service.CreateTaxFormRequest": {
            "type": "object",
            "required": ["countryCode", "formData", "formType", "taxYear"],
            "properties": {
                "userId": {"type": "string"},
                "countryCode": {"type": "string", "maxLength": 3, "minLength": 2},
                "formType": {"type": "string"},
                "taxYear": {"type": "integer", "maximum": 2100, "minimum": 1900},
                "formData": {"type": "object"},
                "status": {"type": "string", "enum": ["draft", "completed", "submitted"]},
                "language": {"type": "string", "maxLength": 5, "minLength": 2}
            }
        },
        "service.UpdateTaxFormRequest": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "countryCode": {"type": "string"},
                "formType": {"type": "string"},
                "taxYear": {"type": "integer"},
                "formData": {"type": "object"},
                "status": {"type": "string", "enum": ["draft", "completed", "submitted"]},
                "language": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tax Wizard API",
	Description:      "Multi-country tax form wizard with AI assistance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
