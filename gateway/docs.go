package gateway

import "github.com/swaggo/swag"

// SwaggerInfo describes the storefront API served under /swagger.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Butt G Fast Foods storefront API",
	Description:      "Menu browsing, the session cart and checkout.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/categories": {
            "get": {
                "summary": "Menu category names, All first",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/deals": {
            "get": {
                "summary": "Fixed-price deals",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/menu": {
            "get": {
                "summary": "Filter and sort menu items",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "min_price", "in": "query", "type": "integer"},
                    {"name": "max_price", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string", "enum": ["name", "price-low", "price-high"]}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid filter"}}
            }
        },
        "/api/v1/menu/popular": {
            "get": {
                "summary": "Popular items",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/menu/{id}": {
            "get": {
                "summary": "One item with related items",
                "produces": ["application/json"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Item not found"}}
            }
        },
        "/api/v1/cart": {
            "get": {
                "summary": "Current session cart with totals",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/cart"}}}
            },
            "delete": {
                "summary": "Empty the cart",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/cart"}}}
            }
        },
        "/api/v1/cart/items": {
            "post": {
                "summary": "Add an item, merging by item and size",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/addItem"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/cart"}},
                    "400": {"description": "Invalid quantity or size"},
                    "404": {"description": "Item not found"}
                }
            }
        },
        "/api/v1/cart/items/{id}": {
            "put": {
                "summary": "Set a line's quantity; 0 removes it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/updateItem"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/cart"}}, "400": {"description": "Invalid quantity"}}
            },
            "delete": {
                "summary": "Remove a line",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "size", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/cart"}}}
            }
        },
        "/api/orders": {
            "post": {
                "summary": "Submit an order with its payment screenshot",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "name", "in": "formData", "required": true, "type": "string"},
                    {"name": "email", "in": "formData", "required": true, "type": "string"},
                    {"name": "phone", "in": "formData", "required": true, "type": "string"},
                    {"name": "address", "in": "formData", "required": true, "type": "string"},
                    {"name": "notes", "in": "formData", "type": "string"},
                    {"name": "total", "in": "formData", "type": "number"},
                    {"name": "cart", "in": "formData", "type": "string", "description": "JSON cart, used when the session cart is empty"},
                    {"name": "screenshot", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Order accepted"},
                    "400": {"description": "Invalid order"},
                    "429": {"description": "Too many orders"},
                    "502": {"description": "Notification failed"}
                }
            }
        }
    },
    "definitions": {
        "addItem": {
            "type": "object",
            "required": ["itemId", "quantity"],
            "properties": {
                "itemId": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 1, "maximum": 99},
                "size": {"type": "string"}
            }
        },
        "updateItem": {
            "type": "object",
            "required": ["quantity"],
            "properties": {
                "quantity": {"type": "integer", "minimum": 0, "maximum": 99},
                "size": {"type": "string"}
            }
        },
        "cart": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"type": "object"}},
                "total": {"type": "integer"},
                "count": {"type": "integer"},
                "deliveryFee": {"type": "integer"},
                "grandTotal": {"type": "integer"}
            }
        }
    }
}`
