// Package docs registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
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
        "/": {
            "get": {
                "produces": ["text/html"],
                "tags": ["Predictions"],
                "summary": "Match form",
                "responses": {"200": {"description": "HTML page", "schema": {"type": "string"}}}
            }
        },
        "/predict": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["Predictions"],
                "summary": "Submit match form",
                "parameters": [
                    {"type": "string", "description": "Tournament", "name": "t_name", "in": "formData", "required": true},
                    {"type": "string", "description": "Round code", "name": "t_round", "in": "formData", "required": true},
                    {"type": "string", "description": "Player A name", "name": "p1_name", "in": "formData", "required": true},
                    {"type": "string", "description": "Player A rank", "name": "p1_rank", "in": "formData", "required": true},
                    {"type": "string", "description": "Player A age", "name": "p1_age", "in": "formData", "required": true},
                    {"type": "string", "description": "Player B name", "name": "p2_name", "in": "formData", "required": true},
                    {"type": "string", "description": "Player B rank", "name": "p2_rank", "in": "formData", "required": true},
                    {"type": "string", "description": "Player B age", "name": "p2_age", "in": "formData", "required": true}
                ],
                "responses": {"303": {"description": "Redirect to /"}}
            }
        },
        "/api/v1/predictions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "Predict match winner",
                "parameters": [
                    {"description": "Match", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.MatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PredictionResult"}},
                    "400": {"description": "Invalid request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "429": {"description": "Rate limited", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Inference unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/catalog": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "Form choices",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Catalog"}}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "models.PlayerEntry": {
            "type": "object",
            "required": ["age", "name", "rank"],
            "properties": {
                "name": {"type": "string"},
                "age": {"type": "string", "example": "38"},
                "rank": {"type": "string", "example": "5"}
            }
        },
        "models.MatchRequest": {
            "type": "object",
            "required": ["round", "tournament"],
            "properties": {
                "tournament": {"type": "string", "example": "Wimbledon"},
                "round": {"type": "string", "example": "F"},
                "player_a": {"$ref": "#/definitions/models.PlayerEntry"},
                "player_b": {"$ref": "#/definitions/models.PlayerEntry"}
            }
        },
        "models.PredictionResult": {
            "type": "object",
            "properties": {
                "tournament": {"type": "string"},
                "round": {"type": "string"},
                "player_a": {"type": "string"},
                "player_b": {"type": "string"},
                "probabilities": {"type": "array", "items": {"type": "number"}},
                "winner": {"type": "string"},
                "winner_index": {"type": "integer"},
                "percentage": {"type": "number"},
                "message": {"type": "string"}
            }
        },
        "models.RoundOption": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "rank": {"type": "integer"}
            }
        },
        "models.Catalog": {
            "type": "object",
            "properties": {
                "tournaments": {"type": "array", "items": {"type": "string"}},
                "players": {"type": "array", "items": {"type": "string"}},
                "rounds": {"type": "array", "items": {"$ref": "#/definitions/models.RoundOption"}}
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
	Title:            "Tennis Prediction API",
	Description:      "Predicts the winner of a tennis match from tournament, round and player features.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
