package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the bridge.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>salonbook - Swagger</title>
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
  "info": { "title": "salonbook", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "State": { "type": "object", "properties": { "state": {"type":"string","enum":["success","error"]}, "message": {"type":"string"}, "isRegistration": {"type":"boolean"}, "navigate": {"type":"string"} } }
    }
  },
  "paths": {
    "/auth/status": { "get": { "summary": "Re-validate the stored session", "responses": { "200": { "description": "logged in" }, "400": { "description": "not logged in" } } } },
    "/auth/signup": {
      "post": {
        "summary": "Register and sign in",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"},"firstName":{"type":"string"},"lastName":{"type":"string"}}}}}},
        "responses": { "200": { "description": "registered" }, "400": { "description": "rejected" } }
      }
    },
    "/auth/login": {
      "post": {
        "summary": "Sign in with email and password",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "logged in" }, "400": { "description": "rejected" } }
      }
    },
    "/auth/logout": { "post": { "summary": "Sign out and clear the stored session", "responses": { "200": { "description": "logged out" }, "400": { "description": "not logged in" } } } },
    "/api/v1/home": { "get": { "summary": "Greeting, menu and admin flag", "responses": { "200": { "description": "home view" }, "401": { "description": "no session" } } } },
    "/api/v1/reservations": {
      "get": { "summary": "Reservations of the signed-in user", "responses": { "200": { "description": "list" } } },
      "post": {
        "summary": "Book a slot",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"date":{"type":"string","example":"2030-01-18"},"time":{"type":"string","example":"10:30"},"description":{"type":"string"}}}}}},
        "responses": { "201": { "description": "submitted" }, "400": { "description": "slot rejected" } }
      }
    },
    "/api/v1/admin/reservations": { "get": { "summary": "All reservations", "responses": { "200": { "description": "list" }, "403": { "description": "not an admin" } } } },
    "/api/v1/admin/reservations/{id}/accept": { "post": { "summary": "Accept a reservation", "responses": { "200": { "description": "accepted" }, "403": { "description": "not an admin" } } } },
    "/api/v1/admin/reservations/{id}/reject": {
      "post": {
        "summary": "Reject a reservation with a reason",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"reason":{"type":"string"}}}}}},
        "responses": { "200": { "description": "rejected" }, "403": { "description": "not an admin" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
