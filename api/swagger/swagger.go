package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "User Directory API",
        "description": "Server-side filtering, ordering and search for the community user directory",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Search", "description": "Advanced user search over profile attributes"},
        {"name": "Directory", "description": "User directory listing"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/user-search": {
            "get": {
                "tags": ["Search"],
                "summary": "Search users by profile attributes",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "per_page", "in": "query", "type": "integer"},
                    {"name": "order", "in": "query", "type": "string", "enum": ["created", "last_seen", "username"]},
                    {"name": "asc", "in": "query", "type": "boolean"},
                    {"name": "gender", "in": "query", "type": "string"},
                    {"name": "country", "in": "query", "type": "string"},
                    {"name": "listen", "in": "query", "type": "string"},
                    {"name": "share", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Feature disabled"}
                }
            }
        },
        "/user-search/options": {
            "get": {
                "tags": ["Search"],
                "summary": "List configured filter options",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/FieldOptionsResponse"}}
                }
            }
        },
        "/directory_items": {
            "get": {
                "tags": ["Directory"],
                "summary": "List directory items",
                "parameters": [
                    {"name": "period", "in": "query", "required": true, "type": "string", "enum": ["daily", "weekly", "monthly", "quarterly", "yearly", "all"]},
                    {"name": "order", "in": "query", "type": "string"},
                    {"name": "asc", "in": "query", "type": "boolean"},
                    {"name": "group", "in": "query", "type": "string"},
                    {"name": "exclude_usernames", "in": "query", "type": "string"},
                    {"name": "exclude_groups", "in": "query", "type": "string"},
                    {"name": "name", "in": "query", "type": "string"},
                    {"name": "username", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "hb_gender", "in": "query", "type": "string"},
                    {"name": "hb_country", "in": "query", "type": "string"},
                    {"name": "hb_listen", "in": "query", "type": "string"},
                    {"name": "hb_share", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DirectoryResponse"}},
                    "400": {"description": "Invalid period or group"},
                    "403": {"description": "Access denied"}
                }
            }
        }
    },
    "definitions": {
        "UserCard": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "name": {"type": "string"},
                "title": {"type": "string"},
                "avatar_template": {"type": "string"},
                "trust_level": {"type": "integer"},
                "created_at": {"type": "string"},
                "last_seen_at": {"type": "string"}
            }
        },
        "DirectoryItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user": {"$ref": "#/definitions/UserCard"},
                "likes_received": {"type": "integer"},
                "likes_given": {"type": "integer"},
                "topics_entered": {"type": "integer"},
                "topic_count": {"type": "integer"},
                "post_count": {"type": "integer"},
                "posts_read": {"type": "integer"},
                "days_visited": {"type": "integer"}
            }
        },
        "DirectoryResponse": {
            "type": "object",
            "properties": {
                "directory_items": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/DirectoryItem"}
                },
                "meta": {
                    "type": "object",
                    "properties": {
                        "last_updated_at": {"type": "string"},
                        "total_rows_directory_items": {"type": "integer"},
                        "load_more_directory_items": {"type": "string"}
                    }
                }
            }
        },
        "FieldOptionsResponse": {
            "type": "object",
            "properties": {
                "gender": {"type": "array", "items": {"type": "string"}},
                "country": {"type": "array", "items": {"type": "string"}},
                "listen": {"type": "array", "items": {"type": "string"}},
                "share": {"type": "array", "items": {"type": "string"}}
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
