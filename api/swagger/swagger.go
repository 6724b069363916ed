package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Roomy API",
        "description": "Student housing marketplace for Lebanon: roommate matching and bed-level reservations",
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
        {"name": "Authentication", "description": "Account registration and login"},
        {"name": "Profiles", "description": "Student matching profiles"},
        {"name": "Questionnaire", "description": "Compatibility questionnaire"},
        {"name": "Matches", "description": "Roommate compatibility ranking"},
        {"name": "Apartments", "description": "Owner apartment management"},
        {"name": "Bookings", "description": "Availability and reservations"},
        {"name": "Payments", "description": "Mocked payment gateway and receipts"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/profiles/me": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Get own profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Profiles"],
                "summary": "Create or update own profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/questionnaire": {
            "get": {
                "tags": ["Questionnaire"],
                "summary": "List questionnaire items",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/questionnaire/responses": {
            "get": {
                "tags": ["Questionnaire"],
                "summary": "Get own answers",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Questionnaire"],
                "summary": "Submit answers",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitQuestionnaireRequest"}}
                ],
                "responses": {
                    "204": {"description": "Stored"}
                }
            }
        },
        "/matches": {
            "get": {
                "tags": ["Matches"],
                "summary": "List roommate matches",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Ranked matches", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/apartments": {
            "get": {
                "tags": ["Apartments"],
                "summary": "List own apartments",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Apartments"],
                "summary": "Create apartment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateApartmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/apartments/{id}": {
            "get": {
                "tags": ["Apartments"],
                "summary": "Get apartment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/apartments/{id}/flags": {
            "put": {
                "tags": ["Apartments"],
                "summary": "Update reservation flags",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateApartmentFlagsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/apartments/{id}/beds/{bedId}": {
            "put": {
                "tags": ["Apartments"],
                "summary": "Set bed availability",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "bedId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Updated"}
                }
            }
        },
        "/apartments/{id}/availability": {
            "get": {
                "tags": ["Bookings"],
                "summary": "Apartment availability",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Availability state and summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/apartments/{id}/availability/check": {
            "get": {
                "tags": ["Bookings"],
                "summary": "Check reservation permission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "level", "in": "query", "required": true, "type": "string", "enum": ["apartment", "bedroom", "bed"]},
                    {"name": "targetId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Allowed flag with reason", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/apartments/{id}/bookings/export": {
            "get": {
                "tags": ["Bookings"],
                "summary": "Export apartment bookings CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/reservations": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List own reservations",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Bookings"],
                "summary": "Create reservation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReservationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not allowed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reservations/{id}": {
            "delete": {
                "tags": ["Bookings"],
                "summary": "Cancel reservation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Cancelled"}
                }
            }
        },
        "/payments": {
            "post": {
                "tags": ["Payments"],
                "summary": "Create payment intent",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments/{id}": {
            "get": {
                "tags": ["Payments"],
                "summary": "Poll payment status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Payment state with receipt link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments/receipt": {
            "get": {
                "tags": ["Payments"],
                "summary": "Download receipt",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF payload"},
                    "404": {"description": "Receipt unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "password", "full_name", "role"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["STUDENT", "OWNER"]}
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
        "UpdateProfileRequest": {
            "type": "object",
            "required": ["university"],
            "properties": {
                "university": {"type": "string"},
                "major": {"type": "string"},
                "year_of_study": {"type": "integer"},
                "gender": {"type": "string"},
                "bio": {"type": "string"},
                "needs_roommate": {"type": "boolean"},
                "roommate_intent": {"type": "string", "enum": ["current_place", "new_dorm"]}
            }
        },
        "SubmitQuestionnaireRequest": {
            "type": "object",
            "required": ["answers"],
            "properties": {
                "answers": {"type": "object", "additionalProperties": {"type": "integer"}},
                "advanced_opt_in": {"type": "boolean"}
            }
        },
        "CreateApartmentRequest": {
            "type": "object",
            "required": ["name", "city", "monthly_price_usd", "bedrooms"],
            "properties": {
                "name": {"type": "string"},
                "city": {"type": "string"},
                "monthly_price_usd": {"type": "number"},
                "enable_full_apartment_reservation": {"type": "boolean"},
                "enable_bedroom_reservation": {"type": "boolean"},
                "enable_bed_reservation": {"type": "boolean"},
                "bedrooms": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "name": {"type": "string"},
                            "beds": {
                                "type": "array",
                                "items": {
                                    "type": "object",
                                    "properties": {
                                        "label": {"type": "string"},
                                        "available": {"type": "boolean"}
                                    }
                                }
                            }
                        }
                    }
                }
            }
        },
        "UpdateApartmentFlagsRequest": {
            "type": "object",
            "properties": {
                "enable_full_apartment_reservation": {"type": "boolean"},
                "enable_bedroom_reservation": {"type": "boolean"},
                "enable_bed_reservation": {"type": "boolean"}
            }
        },
        "CreateReservationRequest": {
            "type": "object",
            "required": ["apartment_id", "level"],
            "properties": {
                "apartment_id": {"type": "string"},
                "level": {"type": "string", "enum": ["apartment", "bedroom", "bed"]},
                "target_id": {"type": "string"}
            }
        },
        "CreatePaymentRequest": {
            "type": "object",
            "required": ["reservation_id", "amount_usd", "card_number"],
            "properties": {
                "reservation_id": {"type": "string"},
                "amount_usd": {"type": "number"},
                "card_number": {"type": "string"}
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
