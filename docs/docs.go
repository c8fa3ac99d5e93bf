// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/comments/{postId}": {
            "get": {
                "description": "Returns every comment of the post ordered by creation time, newest first.\nSupports weak ETag via If-None-Match and may return 304.",
                "produces": ["application/json"],
                "tags": ["Comments"],
                "summary": "List a post's comments",
                "operationId": "listComments",
                "parameters": [
                    {"minimum": 1, "type": "integer", "description": "Post ID", "name": "postId", "in": "path", "required": true},
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Comment"}},
                        "headers": {"ETag": {"type": "string", "description": "Weak ETag for current result"}}
                    },
                    "304": {"description": "Not Modified", "schema": {"type": "string"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Adds a comment by the calling identity to an existing post.\nSupports idempotency via the Idempotency-Key header (same key → same comment).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Comments"],
                "summary": "Comment on a post",
                "operationId": "createComment",
                "parameters": [
                    {"type": "string", "example": "1", "description": "Caller user id", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "example": "alice@example.com", "description": "Caller email", "name": "X-User-Email", "in": "header"},
                    {"type": "string", "example": "7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab", "description": "Idempotency key for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"minimum": 1, "type": "integer", "description": "Post ID", "name": "postId", "in": "path", "required": true},
                    {"description": "Comment payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateCommentRequest"}}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/domain.Comment"},
                        "headers": {"Idempotency-Replayed": {"type": "string", "description": "true when the stored result was replayed"}}
                    },
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing identity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "413": {"description": "Body too large", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/posts/{id}": {
            "put": {
                "description": "Replaces title and content of a post owned by the caller. Owner and creation time are preserved.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Posts"],
                "summary": "Update a post",
                "operationId": "updatePost",
                "parameters": [
                    {"type": "string", "example": "1", "description": "Caller user id", "name": "X-User-ID", "in": "header", "required": true},
                    {"minimum": 1, "type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {"description": "New title and content", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdatePostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Post"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing identity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Deletes a post owned by the caller; its comments are removed first.",
                "tags": ["Posts"],
                "summary": "Delete a post",
                "operationId": "deletePost",
                "parameters": [
                    {"type": "string", "example": "1", "description": "Caller user id", "name": "X-User-ID", "in": "header", "required": true},
                    {"minimum": 1, "type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content", "schema": {"type": "string"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing identity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Comment": {
            "type": "object",
            "properties": {
                "author_id": {"type": "integer", "example": 2},
                "content": {"type": "string", "example": "Great post, thanks!"},
                "created_at": {"type": "string"},
                "id": {"type": "integer", "example": 10},
                "post_id": {"type": "integer", "example": 1}
            }
        },
        "domain.Post": {
            "type": "object",
            "properties": {
                "content": {"type": "string", "example": "World"},
                "created_at": {"type": "string"},
                "id": {"type": "integer", "example": 1},
                "owner_id": {"type": "integer", "example": 1},
                "title": {"type": "string", "example": "Hello"},
                "updated_at": {"type": "string"}
            }
        },
        "handlers.CreateCommentRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string", "example": "Great post, thanks!"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "NOT_FOUND"},
                "error": {"type": "string", "example": "post not found"},
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"}
            }
        },
        "handlers.UpdatePostRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string", "example": "World"},
                "title": {"type": "string", "example": "Hello"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Posts Backend API",
	Description:      "Posts and comments with owner-only post mutations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
