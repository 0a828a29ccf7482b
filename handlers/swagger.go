package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the listing API.
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
    <title>happymap — Swagger</title>
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

// Minimal OpenAPI document describing the listing endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "happymap-listings", "version": "v0.1.0" },
  "paths": {
    "/orphanages": {
      "get": { "summary": "List orphanages for the map view", "responses": { "200": { "description": "array of { id, name, latitude, longitude, images }" } } },
      "post": {
        "summary": "Create an orphanage listing",
        "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"name":{"type":"string"},"latitude":{"type":"string"},"longitude":{"type":"string"},"about":{"type":"string"},"instructions":{"type":"string"},"opening_hours":{"type":"string"},"open_on_weekends":{"type":"string"},"images":{"type":"array","items":{"type":"string","format":"binary"}}}}}}},
        "responses": { "201": { "description": "created orphanage with assigned id" }, "400": { "description": "validation failure" } }
      }
    },
    "/orphanage/{id}": {
      "get": { "summary": "Get one orphanage with its images", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "full orphanage" }, "404": { "description": "unknown id" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
