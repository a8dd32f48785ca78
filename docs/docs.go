// Package docs registers the OpenAPI document served at /swagger.
// The template is maintained by hand and lists paths only; request and response bodies are not described.
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
        "/user": {"post": {"tags": ["用户"], "summary": "注册用户", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/users/login": {"post": {"tags": ["用户"], "summary": "登录", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
        "/users": {"get": {"tags": ["用户"], "summary": "用户列表", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/user/{id}": {
            "get": {"tags": ["用户"], "summary": "用户详情", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["用户"], "summary": "修改资料", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["用户"], "summary": "注销账号", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/user/{id}/avatar": {
            "get": {"tags": ["用户"], "summary": "获取头像", "produces": ["image/png"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["用户"], "summary": "上传头像", "consumes": ["multipart/form-data"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "file", "name": "avatar", "in": "formData", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/user/{id}/follow": {"put": {"security": [{"BearerAuth": []}], "tags": ["关系链"], "summary": "关注用户", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/user/{id}/unfollow": {"put": {"security": [{"BearerAuth": []}], "tags": ["关系链"], "summary": "取消关注", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/user/{id}/followers": {"get": {"tags": ["关系链"], "summary": "查询粉丝列表", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "integer", "default": 1, "name": "page", "in": "query"}, {"type": "integer", "default": 10, "name": "page_size", "in": "query"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/user/{id}/following": {"get": {"tags": ["关系链"], "summary": "查询关注列表", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "integer", "default": 1, "name": "page", "in": "query"}, {"type": "integer", "default": 10, "name": "page_size", "in": "query"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/tweets": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["推文"], "summary": "推文列表", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["推文"], "summary": "发推", "consumes": ["application/json", "multipart/form-data"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/tweets/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["推文"], "summary": "我的推文", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/tweets/user/{id}": {"get": {"tags": ["推文"], "summary": "用户推文", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/tweet/{id}": {"get": {"tags": ["推文"], "summary": "推文详情", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/tweet/{id}/image": {"get": {"security": [{"BearerAuth": []}], "tags": ["推文"], "summary": "推文配图", "produces": ["image/png"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/uploadTweetImage/{id}": {"post": {"security": [{"BearerAuth": []}], "tags": ["推文"], "summary": "上传推文配图", "consumes": ["multipart/form-data"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "file", "name": "image", "in": "formData", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/tweet/{id}/like": {"post": {"security": [{"BearerAuth": []}], "tags": ["互动"], "summary": "点赞", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/tweet/{id}/unlike": {"put": {"security": [{"BearerAuth": []}], "tags": ["互动"], "summary": "取消点赞", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/notification": {"post": {"security": [{"BearerAuth": []}], "tags": ["通知"], "summary": "创建通知", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/notifications": {"get": {"security": [{"BearerAuth": []}], "tags": ["通知"], "summary": "我的通知", "responses": {"200": {"description": "OK"}}}},
        "/notification/{id}": {"get": {"tags": ["通知"], "summary": "按接收者查询通知", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/health": {"get": {"tags": ["运维"], "summary": "健康检查", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Chirp API",
	Description:      "社交后端：用户、关注关系、推文、点赞与通知",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
