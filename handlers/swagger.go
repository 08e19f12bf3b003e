package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the document service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRoutes) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>EGI Document Service API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "EGI Document Service API", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "OIDC": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Document": {
        "type": "object",
        "properties": {
          "name": { "type": "string" },
          "parentFolder": { "type": "string", "description": "Google Drive folder id" },
          "content": { "type": "string", "description": "HTML" }
        }
      },
      "DocumentInfo": {
        "type": "object",
        "properties": { "name": { "type": "string" }, "id": { "type": "string" }, "url": { "type": "string" } }
      },
      "ActionError": {
        "type": "object",
        "properties": {
          "code": { "type": "string", "enum": ["badRequest", "invalidConfig", "notFound", "cannotCreateDocument", "cannotMoveToDestination", "tryAgainLater"] },
          "message": { "type": "string" },
          "details": { "type": "string" }
        }
      }
    }
  },
  "paths": {
    "/docs": {
      "post": {
        "operationId": "create",
        "summary": "Create new Google document",
        "security": [ { "OIDC": [] } ],
        "parameters": [ { "name": "X-Test-Stub", "in": "header", "required": false, "schema": { "type": "string", "default": "default" } } ],
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Document" } } } },
        "responses": {
          "201": { "description": "Created", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/DocumentInfo" } } } },
          "400": { "description": "Invalid parameters or configuration", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ActionError" } } } },
          "401": { "description": "Authorization required" },
          "403": { "description": "Permission denied" },
          "429": { "description": "Rate limit exceeded" },
          "503": { "description": "Try again later", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ActionError" } } } }
        }
      }
    },
    "/auth/logout": {
      "post": {
        "summary": "Revoke the presented access token until it expires",
        "security": [ { "OIDC": [] } ],
        "responses": { "200": { "description": "logged out" }, "401": { "description": "Authorization required" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
