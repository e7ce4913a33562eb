// Package docs registers the generated swagger spec. Code generated by swag init; edits are overwritten.
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
        "/api/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/users": {
            "get": {
                "tags": ["users"],
                "summary": "List users",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["users"],
                "summary": "Create a user",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/users/{userID}": {
            "get": {
                "tags": ["users"],
                "summary": "Get a user by ID",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "tags": ["users"],
                "summary": "Update a user's profile",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["users"],
                "summary": "Delete a user",
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/events": {
            "get": {
                "tags": ["events"],
                "summary": "List events",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["events"],
                "summary": "Create an event",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Organizer Not Found"}
                }
            }
        },
        "/api/events/{eventID}": {
            "get": {
                "tags": ["events"],
                "summary": "Get an event by ID",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "tags": ["events"],
                "summary": "Update an event",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["events"],
                "summary": "Delete an event",
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/registrations": {
            "post": {
                "tags": ["registrations"],
                "summary": "Register a user for an event",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "capacity_exceeded or already_registered"},
                    "404": {"description": "user or event not found"},
                    "409": {"description": "transaction conflict"}
                }
            }
        },
        "/api/registrations/{registrationID}": {
            "delete": {
                "tags": ["registrations"],
                "summary": "Cancel a registration",
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/registrations/user/{userID}": {
            "get": {
                "tags": ["registrations"],
                "summary": "Get a user's registrations with their events",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/registrations/event/{eventID}": {
            "get": {
                "tags": ["registrations"],
                "summary": "Get all registrations for an event",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["operational"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "InnoEvent API",
	Description:      "Event management and seat-capacity-bounded registration API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
