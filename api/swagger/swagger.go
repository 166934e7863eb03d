package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "QuickBite API",
        "description": "Food delivery backend: auth, restaurants, orders, payments",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Register, login, token refresh and logout"},
        {"name": "Restaurants", "description": "Storefront listing and menus"},
        {"name": "Categories", "description": "Per-restaurant menu categories"},
        {"name": "GlobalCategories", "description": "Platform-wide cuisine tags"},
        {"name": "Orders", "description": "Order placement and lifecycle"},
        {"name": "Addresses", "description": "Saved delivery addresses"},
        {"name": "Payments", "description": "Recorded payment outcomes"},
        {"name": "Users", "description": "Admin account listing"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid or superseded refresh token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "Logged out"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/restaurants": {
            "get": {
                "tags": ["Restaurants"],
                "summary": "List restaurants",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "category_id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "sort_order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Restaurants"],
                "summary": "Create restaurant (admin)",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/restaurants/{id}": {
            "get": {
                "tags": ["Restaurants"],
                "summary": "Get restaurant detail with menu",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Restaurants"],
                "summary": "Update restaurant (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/restaurants/{id}/menu": {
            "get": {
                "tags": ["Restaurants"],
                "summary": "Get restaurant menu",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Restaurants"],
                "summary": "Add menu item (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/categories": {
            "get": {
                "tags": ["Categories"],
                "summary": "List menu categories",
                "parameters": [
                    {"name": "restaurant_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Categories"],
                "summary": "Create menu category (admin)",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/global-categories": {
            "get": {
                "tags": ["GlobalCategories"],
                "summary": "List cuisine tags",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["GlobalCategories"],
                "summary": "Create cuisine tag (admin)",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/global-categories/{slug}": {
            "get": {
                "tags": ["GlobalCategories"],
                "summary": "Get cuisine tag by slug or id",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/orders": {
            "get": {
                "tags": ["Orders"],
                "summary": "List orders visible to the caller",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Orders"],
                "summary": "Place order",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "tags": ["Orders"],
                "summary": "Get order detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/orders/{id}/status": {
            "patch": {
                "tags": ["Orders"],
                "summary": "Update order status (owner, driver or admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/orders/{id}/receipt": {
            "get": {
                "tags": ["Orders"],
                "summary": "Download PDF receipt",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF content"}
                }
            }
        },
        "/orders/export": {
            "get": {
                "tags": ["Orders"],
                "summary": "Export orders as CSV (admin)",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV content"}
                }
            }
        },
        "/addresses": {
            "get": {
                "tags": ["Addresses"],
                "summary": "List saved addresses",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Addresses"],
                "summary": "Save address",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/addresses/{id}": {
            "put": {
                "tags": ["Addresses"],
                "summary": "Update address",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Addresses"],
                "summary": "Delete address",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/payments": {
            "post": {
                "tags": ["Payments"],
                "summary": "Record payment",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/payments/{id}": {
            "get": {
                "tags": ["Payments"],
                "summary": "Get payment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/payments/order/{order_id}": {
            "get": {
                "tags": ["Payments"],
                "summary": "List payments for an order",
                "parameters": [
                    {"name": "order_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/payments/{id}/status": {
            "patch": {
                "tags": ["Payments"],
                "summary": "Update payment status (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users (admin)",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["CUSTOMER", "RESTAURANT_OWNER", "DRIVER"]}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "CreateOrderRequest": {
            "type": "object",
            "required": ["restaurant_id", "items"],
            "properties": {
                "restaurant_id": {"type": "string"},
                "delivery_fee": {"type": "number"},
                "items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "menu_item_id": {"type": "string"},
                            "quantity": {"type": "integer"}
                        }
                    }
                }
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
