package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>portfolio-api — Swagger</title>
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

// Minimal OpenAPI document describing the main endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "portfolio-api", "version": "v0.1.0" },
  "paths": {
    "/auth/login": {
      "post": { "summary": "Exchange credentials or authorization code for tokens", "responses": { "200": { "description": "tokens returned" }, "401": { "description": "authentication failed" } } }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Get signed-in user", "responses": { "200": { "description": "user or claims" } } }
    },
    "/api/v1/profile": {
      "get": { "summary": "Hero/about profile document", "responses": { "200": { "description": "profile" } } },
      "put": { "summary": "Replace the profile (owner only)", "responses": { "200": { "description": "saved" } } }
    },
    "/api/v1/collections/{collection}": {
      "get": { "summary": "Session-aware card list for a content collection", "responses": { "200": { "description": "card list" }, "404": { "description": "unknown collection" } } }
    },
    "/api/v1/collections/{collection}/drafts": {
      "post": { "summary": "Open an editing draft (empty, or from a record id)", "responses": { "201": { "description": "draft opened" } } }
    },
    "/api/v1/collections/{collection}/drafts/{draftID}/submit": {
      "post": { "summary": "Validate, upload pending image, then create or update the record", "responses": { "200": { "description": "record persisted" }, "422": { "description": "validation failed" } } }
    },
    "/api/v1/collections/{collection}/records/{id}/delete-request": {
      "post": { "summary": "Request deletion (step one of two)", "responses": { "202": { "description": "pending" } } }
    },
    "/api/v1/collections/{collection}/records/{id}/delete-confirm": {
      "post": { "summary": "Confirm a pending deletion", "responses": { "204": { "description": "deleted" }, "409": { "description": "not requested" } } }
    },
    "/api/v1/messages": {
      "post": { "summary": "Submit a contact message (no auth required)", "responses": { "201": { "description": "stored" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
