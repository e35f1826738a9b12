package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Giveaway Calendar API",
        "description": "Time-boxed giveaway campaigns with sequentially unlocking doors.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Public", "description": "Participant-facing endpoints"},
        {"name": "Auth", "description": "Operator authentication"},
        {"name": "Calendars", "description": "Campaign management"},
        {"name": "Doors", "description": "Door configuration and quiz content"},
        {"name": "Products", "description": "Prize catalogue"},
        {"name": "Winners", "description": "Winner draws"},
        {"name": "Leads", "description": "Collected participant data"}
    ],
    "paths": {
        "/public/calendars/{slug}": {
            "get": {
                "tags": ["Public"],
                "summary": "Public calendar view",
                "parameters": [
                    {"name": "slug", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Calendar not found"}
                }
            }
        },
        "/public/entries": {
            "post": {
                "tags": ["Public"],
                "summary": "Submit a door entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitEntryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Entry accepted"},
                    "400": {"description": "Missing email or malformed payload"},
                    "404": {"description": "Calendar or door not found"},
                    "409": {"description": "Calendar inactive, door closed, winner drawn or duplicate entry"},
                    "422": {"description": "Consent missing or quiz failed"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Operator login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/calendars": {
            "get": {
                "tags": ["Calendars"],
                "summary": "List calendars",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Calendars"],
                "summary": "Create calendar",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid date range or door count"}
                }
            }
        },
        "/calendars/{id}": {
            "get": {
                "tags": ["Calendars"],
                "summary": "Get calendar",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Calendars"],
                "summary": "Update calendar, resyncing doors on date or count changes",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Shrink blocked by existing participation"}
                }
            },
            "delete": {
                "tags": ["Calendars"],
                "summary": "Delete calendar",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/calendars/{id}/status": {
            "patch": {
                "tags": ["Calendars"],
                "summary": "Transition calendar status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid transition"}}
            }
        },
        "/calendars/{id}/stats": {
            "get": {
                "tags": ["Calendars"],
                "summary": "Participation stats",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/calendars/{id}/doors": {
            "get": {
                "tags": ["Doors"],
                "summary": "List doors",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/doors/{id}": {
            "get": {
                "tags": ["Doors"],
                "summary": "Get door",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Doors"],
                "summary": "Update door configuration",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/doors/{id}/questions": {
            "get": {
                "tags": ["Doors"],
                "summary": "List quiz questions (operator view)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Doors"],
                "summary": "Replace quiz questions",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Door already has entries"}
                }
            }
        },
        "/doors/{id}/winner": {
            "post": {
                "tags": ["Winners"],
                "summary": "Draw a winner",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "201": {"description": "Winner drawn"},
                    "409": {"description": "Winner already selected"},
                    "412": {"description": "No eligible entries"}
                }
            },
            "delete": {
                "tags": ["Winners"],
                "summary": "Remove winner",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "Removed"}}
            }
        },
        "/doors/{id}/winner/notify": {
            "post": {
                "tags": ["Winners"],
                "summary": "Mark winner notified",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "Marked"}}
            }
        },
        "/calendars/{id}/winners": {
            "get": {
                "tags": ["Winners"],
                "summary": "List winners",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/calendars/{id}/leads": {
            "get": {
                "tags": ["Leads"],
                "summary": "List leads",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/calendars/{id}/leads/export": {
            "get": {
                "tags": ["Leads"],
                "summary": "Export leads as CSV",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "produces": ["text/csv"],
                "responses": {"200": {"description": "CSV document"}}
            }
        },
        "/calendars/{id}/winners/export": {
            "get": {
                "tags": ["Winners"],
                "summary": "Export winners as PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "PDF document"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SubmitEntryRequest": {
            "type": "object",
            "required": ["calendar_id", "door_id", "email", "terms_accepted", "privacy_policy_accepted"],
            "properties": {
                "calendar_id": {"type": "string"},
                "door_id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "terms_accepted": {"type": "boolean"},
                "privacy_policy_accepted": {"type": "boolean"},
                "marketing_opt_in": {"type": "boolean"},
                "answers": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "question_id": {"type": "string"},
                            "answer": {"type": "string"}
                        }
                    }
                }
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
