// Package docs holds the Swagger 2.0 description of the HTTP API, served
// at /swagger when SWAGGER_ENABLED is on. It mirrors the godoc annotations
// on the handlers; regenerate it with
//
//	swag init -g internal/http/router.go --parseInternal
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
        "/messages": {
            "post": {
                "description": "Runs a search for the text (or shows the welcome for /start) and returns what the bot would answer. The result list becomes the caller's session for /actions.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Conversation"],
                "summary": "Send a message to the bot",
                "operationId": "postMessage",
                "parameters": [
                    {"type": "integer", "example": 123456789, "description": "Caller identity", "name": "X-User-ID", "in": "header", "required": true},
                    {"description": "Message payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.MessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.Reply"}},
                    "400": {"description": "Bad request or missing X-User-ID", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/actions": {
            "post": {
                "description": "Moves the caller's session one page back or forward. Presses closer together than the debounce window are answered with a silent notice.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Conversation"],
                "summary": "Press a navigation control",
                "operationId": "postAction",
                "parameters": [
                    {"type": "integer", "example": 123456789, "description": "Caller identity", "name": "X-User-ID", "in": "header", "required": true},
                    {"description": "Action payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.Reply"}},
                    "400": {"description": "Bad request, unsupported action or missing X-User-ID", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/search": {
            "get": {
                "description": "A query of digits also matches the record with that id exactly. Other queries match descriptions case-insensitively. Results are ordered by id.",
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Search the materials list",
                "operationId": "searchRecords",
                "parameters": [
                    {"type": "string", "example": "листовка", "description": "Query", "name": "q", "in": "query", "required": true},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"minimum": 1, "type": "integer", "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SearchResponse"}},
                    "400": {"description": "Empty query", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Page out of range", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/records/{id}": {
            "get": {
                "description": "Returns the description stored for the identifier.",
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Get one record",
                "operationId": "getRecord",
                "parameters": [
                    {"type": "integer", "example": 3632, "description": "Record identifier", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Record"}},
                    "400": {"description": "Identifier is not a number", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/ingest": {
            "get": {
                "description": "Statistics of the most recent load of the source export.",
                "produces": ["application/json"],
                "tags": ["Ingestion"],
                "summary": "Latest ingestion report",
                "operationId": "latestIngest",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.IngestReport"}},
                    "404": {"description": "Nothing loaded yet", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/ingest/failures": {
            "get": {
                "description": "Lines that could not be parsed, ordered by line number.",
                "produces": ["application/json"],
                "tags": ["Ingestion"],
                "summary": "Skipped lines of the latest load (paginated)",
                "operationId": "listIngestFailures",
                "parameters": [
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListFailuresResponse"}},
                    "404": {"description": "Nothing loaded yet", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Record": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "description": {"type": "string"}
            }
        },
        "domain.IngestRun": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "source": {"type": "string"},
                "encoding": {"type": "string"},
                "lines": {"type": "integer"},
                "pairs": {"type": "integer"},
                "failed_lines": {"type": "integer"},
                "records": {"type": "integer"},
                "duration_ms": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "domain.LineFailure": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "run_id": {"type": "string"},
                "line": {"type": "integer"},
                "error": {"type": "string"},
                "excerpt": {"type": "string"}
            }
        },
        "present.Control": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "action": {"type": "string"}
            }
        },
        "services.Reply": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "markdown": {"type": "boolean"},
                "controls": {"type": "array", "items": {"$ref": "#/definitions/present.Control"}},
                "edit": {"type": "boolean"},
                "notice": {"type": "string"},
                "silent": {"type": "boolean"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"description": "Correlates server logs and client errors", "type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"},
                "code": {"description": "Stable, machine-readable code (see errors.go constants)", "type": "string", "example": "not_found"},
                "message": {"description": "Human-readable message (safe to show to users)", "type": "string", "example": "record 42 not found"}
            }
        },
        "handlers.MessageRequest": {
            "type": "object",
            "properties": {
                "text": {"description": "Text is a search query, or /start for the welcome message.", "type": "string", "example": "листовка"}
            }
        },
        "handlers.ActionRequest": {
            "type": "object",
            "properties": {
                "action": {"description": "Action is \"prev\" or \"next\".", "type": "string", "example": "next"}
            }
        },
        "handlers.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "handlers.SearchResponse": {
            "type": "object",
            "properties": {
                "query": {"type": "string", "example": "листовка"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Record"}},
                "markdown": {"description": "Markdown is the page exactly as the bot renders it (MarkdownV2).", "type": "string"},
                "controls": {"type": "array", "items": {"$ref": "#/definitions/present.Control"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.IngestReport": {
            "type": "object",
            "properties": {
                "run": {"$ref": "#/definitions/domain.IngestRun"},
                "serving": {"description": "Serving is the size of the database the search endpoints answer from.", "type": "integer"}
            }
        },
        "handlers.ListFailuresResponse": {
            "type": "object",
            "properties": {
                "run_id": {"type": "string"},
                "failures": {"type": "array", "items": {"$ref": "#/definitions/domain.LineFailure"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Minjust materials search API",
	Description:      "Search over the federal list of extremist materials: the bot conversation over JSON, stateless paged search, record lookup and ingestion reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
