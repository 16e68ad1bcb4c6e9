package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Gram Panchayat Portal API",
        "description": "Backend for the Gram Panchayat citizen services portal",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Authentication", "description": "Admin login and token lifecycle"},
        {"name": "Complaints", "description": "Citizen grievance submission and triage"},
        {"name": "Certificates", "description": "Birth, death, marriage and leaving registers"},
        {"name": "Announcements", "description": "Public notices"},
        {"name": "Transliteration", "description": "Latin to Devanagari conversion"},
        {"name": "OCR", "description": "Scanned document text extraction"},
        {"name": "Water", "description": "Water billing and property payments"},
        {"name": "Exports", "description": "Register export jobs"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/complaints": {
            "post": {
                "tags": ["Complaints"],
                "summary": "Submit a complaint",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateComplaintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/complaints/track/{trackingNumber}": {
            "get": {
                "tags": ["Complaints"],
                "summary": "Track a complaint",
                "parameters": [
                    {"name": "trackingNumber", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/certificates/birth": {
            "post": {
                "tags": ["Certificates"],
                "summary": "Apply for a birth certificate",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BirthCertificateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/certificates/birth/track/{trackingNumber}": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Track a birth certificate application",
                "parameters": [
                    {"name": "trackingNumber", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/announcements": {
            "get": {
                "tags": ["Announcements"],
                "summary": "List public announcements",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "priority", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/translit": {
            "post": {
                "tags": ["Transliteration"],
                "summary": "Transliterate Latin text to Devanagari",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TranslitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Upstream unavailable"}
                }
            }
        },
        "/ocr/extract": {
            "post": {
                "tags": ["OCR"],
                "summary": "Extract embedded text from an uploaded PDF",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Upload too large"}
                }
            }
        },
        "/water/bills/{connectionNumber}": {
            "get": {
                "tags": ["Water"],
                "summary": "Look up bills for a water connection",
                "parameters": [
                    {"name": "connectionNumber", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/water/payments": {
            "post": {
                "tags": ["Water"],
                "summary": "Confirm a water bill UPI payment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WaterPaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "CreateComplaintRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "contact": {"type": "string"},
                "address": {"type": "string"},
                "category": {"type": "string", "enum": ["water", "roads", "sanitation", "electricity", "other"]},
                "description": {"type": "string"}
            },
            "required": ["name", "contact", "address", "category", "description"]
        },
        "BirthCertificateRequest": {
            "type": "object",
            "properties": {
                "child_name": {"type": "string"},
                "child_name_mr": {"type": "string"},
                "gender": {"type": "string", "enum": ["male", "female", "other"]},
                "date_of_birth": {"type": "string"},
                "place_of_birth": {"type": "string"},
                "place_of_birth_mr": {"type": "string"},
                "father_name": {"type": "string"},
                "father_name_mr": {"type": "string"},
                "mother_name": {"type": "string"},
                "mother_name_mr": {"type": "string"},
                "address": {"type": "string"},
                "contact": {"type": "string"},
                "aadhaar_number": {"type": "string"}
            },
            "required": ["child_name", "gender", "date_of_birth", "place_of_birth", "father_name", "mother_name", "address", "contact"]
        },
        "TranslitRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            },
            "required": ["text"]
        },
        "WaterPaymentRequest": {
            "type": "object",
            "properties": {
                "connection_number": {"type": "string"},
                "bill_id": {"type": "string"},
                "amount_paise": {"type": "integer"},
                "upi_transaction_id": {"type": "string"},
                "payer_name": {"type": "string"}
            },
            "required": ["connection_number", "amount_paise", "upi_transaction_id", "payer_name"]
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
