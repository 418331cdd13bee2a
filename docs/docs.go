// Package docs holds the OpenAPI description served at /api/swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Authenticate user and get token",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.LoginInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register user",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.RegisterInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["posts"],
                "summary": "List posts, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Post"}}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["posts"],
                "summary": "Create post",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.CreatePostInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["posts"],
                "summary": "Get post",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["posts"],
                "summary": "Delete own post",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/like/{id}": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["posts"],
                "summary": "Like post",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Like"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/unlike/{id}": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["posts"],
                "summary": "Unlike post",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Like"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/comment/{id}": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["posts"],
                "summary": "Comment on post",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.AddCommentInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Comment"}}}
                }
            }
        },
        "/posts/comment/{id}/{comment_id}": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["posts"],
                "summary": "Delete own comment",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"},
                    {"in": "path", "name": "comment_id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Comment"}}}
                }
            }
        },
        "/profile": {
            "get": {
                "tags": ["profile"],
                "summary": "List profiles",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Profile"}}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["profile"],
                "summary": "Create or update own profile",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.UpsertProfileInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["profile"],
                "summary": "Delete account, profile and posts",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/profile/me": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["profile"],
                "summary": "Own profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/profile/user/{user_id}": {
            "get": {
                "tags": ["profile"],
                "summary": "Profile by user id",
                "parameters": [{"in": "path", "name": "user_id", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/profile/experience": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["profile"],
                "summary": "Add experience",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.AddExperienceInput"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}}}
            }
        },
        "/profile/experience/{exp_id}": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["profile"],
                "summary": "Remove experience",
                "parameters": [{"in": "path", "name": "exp_id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}}}
            }
        },
        "/profile/education": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["profile"],
                "summary": "Add education",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.AddEducationInput"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}}}
            }
        },
        "/profile/education/{edu_id}": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["profile"],
                "summary": "Remove education",
                "parameters": [{"in": "path", "name": "edu_id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}}}
            }
        },
        "/profile/github/{username}": {
            "get": {
                "tags": ["profile"],
                "summary": "Newest public GitHub repositories",
                "parameters": [{"in": "path", "name": "username", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/github.Repo"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "errors": {"type": "array", "items": {"type": "object", "properties": {"param": {"type": "string"}, "msg": {"type": "string"}}}}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "avatar": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "models.Like": {"type": "object", "properties": {"user": {"type": "integer"}}},
        "models.Comment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user": {"type": "integer"},
                "text": {"type": "string"},
                "name": {"type": "string"},
                "avatar": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "models.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user": {"type": "integer"},
                "text": {"type": "string"},
                "name": {"type": "string"},
                "avatar": {"type": "string"},
                "likes": {"type": "array", "items": {"$ref": "#/definitions/models.Like"}},
                "comments": {"type": "array", "items": {"$ref": "#/definitions/models.Comment"}},
                "date": {"type": "string"}
            }
        },
        "models.Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user": {"$ref": "#/definitions/models.User"},
                "company": {"type": "string"},
                "website": {"type": "string"},
                "location": {"type": "string"},
                "status": {"type": "string"},
                "skills": {"type": "array", "items": {"type": "string"}},
                "bio": {"type": "string"},
                "githubusername": {"type": "string"},
                "experience": {"type": "array", "items": {"type": "object"}},
                "education": {"type": "array", "items": {"type": "object"}},
                "social": {"type": "object"},
                "date": {"type": "string"}
            }
        },
        "github.Repo": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "full_name": {"type": "string"},
                "html_url": {"type": "string"},
                "description": {"type": "string"},
                "language": {"type": "string"},
                "stargazers_count": {"type": "integer"},
                "watchers_count": {"type": "integer"},
                "forks_count": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "server.TokenResponse": {"type": "object", "properties": {"token": {"type": "string"}}},
        "service.LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "service.RegisterInput": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "service.CreatePostInput": {"type": "object", "required": ["text"], "properties": {"text": {"type": "string"}}},
        "service.AddCommentInput": {"type": "object", "required": ["text"], "properties": {"text": {"type": "string"}}},
        "service.UpsertProfileInput": {
            "type": "object",
            "required": ["status", "skills"],
            "properties": {
                "status": {"type": "string"},
                "skills": {"type": "string", "description": "comma separated"},
                "company": {"type": "string"},
                "website": {"type": "string"},
                "location": {"type": "string"},
                "bio": {"type": "string"},
                "githubusername": {"type": "string"},
                "youtube": {"type": "string"},
                "twitter": {"type": "string"},
                "facebook": {"type": "string"},
                "linkedin": {"type": "string"},
                "instagram": {"type": "string"}
            }
        },
        "service.AddExperienceInput": {
            "type": "object",
            "required": ["title", "company", "from"],
            "properties": {
                "title": {"type": "string"},
                "company": {"type": "string"},
                "location": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "current": {"type": "boolean"},
                "description": {"type": "string"}
            }
        },
        "service.AddEducationInput": {
            "type": "object",
            "required": ["school", "degree", "fieldofstudy", "from"],
            "properties": {
                "school": {"type": "string"},
                "degree": {"type": "string"},
                "fieldofstudy": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "current": {"type": "boolean"},
                "description": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "x-auth-token",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "DevConnect API",
	Description:      "Developer network API with profiles, posts, likes and comments",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
