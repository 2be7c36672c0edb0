// Package docs Docking Planner API.
//
// Сервис планирования новых велодокстанций: токен Mapbox для фронтенда карты,
// датасет кандидатов и постановка запусков пайплайна в очередь.
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
        "/get-mapbox-token": {
            "get": {
                "description": "Читает публичный токен Mapbox из хранилища секретов при каждом запросе",
                "produces": ["application/json"],
                "tags": ["Token"],
                "summary": "Get Mapbox access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TokenResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.TokenErrorResponse"}}
                }
            }
        },
        "/api/v1/mapbox-token": {
            "get": {
                "description": "Читает публичный токен Mapbox из хранилища секретов при каждом запросе",
                "produces": ["application/json"],
                "tags": ["Token"],
                "summary": "Get Mapbox access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TokenResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.TokenErrorResponse"}}
                }
            }
        },
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/nodes": {
            "get": {
                "description": "Последний сохранённый датасет (потенциальные узлы и станции) как GeoJSON FeatureCollection",
                "produces": ["application/json"],
                "tags": ["Nodes"],
                "summary": "Get candidate nodes",
                "responses": {
                    "200": {"description": "GeoJSON FeatureCollection", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/pipeline/runs": {
            "post": {
                "description": "Публикует событие запуска в stream:pipeline:run; выполняет его воркер",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Pipeline"],
                "summary": "Request a pipeline run",
                "parameters": [
                    {
                        "description": "Stage (edges, nodes, all); default all",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/handler.RunRequest"}
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/utils.SuccessResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/handler.RunResponse"}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "message": {"type": "string"}
            }
        },
        "handler.RunRequest": {
            "type": "object",
            "properties": {
                "stage": {"type": "string", "enum": ["edges", "nodes", "all", "hexgrid"]}
            }
        },
        "handler.RunResponse": {
            "type": "object",
            "properties": {
                "requested_at": {"type": "string"},
                "run_id": {"type": "string"},
                "stage": {"type": "string"}
            }
        },
        "handler.TokenErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.TokenResponse": {
            "type": "object",
            "properties": {
                "mapbox_access_token": {"type": "string"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Docking Planner API",
	Description:      "Сервис планирования новых велодокстанций.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
