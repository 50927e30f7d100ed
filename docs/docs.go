// Package docs registers the Swagger document for the JSON API.
// Keep in sync with the godoc annotations in handlers/registration_handler.go.
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
        "/api/registrations": {
            "post": {
                "description": "Проверяет форму и вставляет одну строку в таблицу registrations.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["registrations"],
                "summary": "Зарегистрировать команду",
                "parameters": [
                    {
                        "description": "Данные формы",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.FormState"}
                    }
                ],
                "responses": {
                    "201": {"description": "Регистрация сохранена", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Некорректный JSON", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Не заполнены обязательные поля", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "502": {"description": "Хранилище отклонило запись", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "503": {"description": "Хранилище не настроено", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/api/options": {
            "get": {
                "produces": ["application/json"],
                "tags": ["registrations"],
                "summary": "Допустимые значения community и source",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Состояние сервиса",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "models.Member": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "college": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "models.FormState": {
            "type": "object",
            "properties": {
                "leader": {"$ref": "#/definitions/models.Member"},
                "co_leader": {"$ref": "#/definitions/models.Member"},
                "community": {"type": "string"},
                "community_other": {"type": "string"},
                "source": {"type": "string"},
                "eligibility_confirmed": {"type": "boolean"}
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
	Title:            "Co-Forge Challenge Registration API",
	Description:      "Team registration for the Co-Forge Challenge 1.0.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
