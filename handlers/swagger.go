package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the admin API description.
// - GET /swagger/index.html  -> Swagger UI page
// - GET /swagger/doc.json    -> OpenAPI document
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
    <title>harmony-admin API</title>
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
  "info": { "title": "harmony-admin", "version": "v0.1.0" },
  "components": {
    "parameters": {
      "resource": { "name": "resource", "in": "path", "required": true, "schema": { "type": "string", "enum": ["animals","blog_posts","faqs","educational_resources","donations","volunteers","events"] } },
      "id": { "name": "id", "in": "path", "required": true, "schema": { "type": "string" } },
      "q": { "name": "q", "in": "query", "schema": { "type": "string" }, "description": "free-text search term" },
      "filter": { "name": "filter", "in": "query", "schema": { "type": "array", "items": { "type": "string" } }, "style": "form", "explode": true, "description": "field:operator:value[:type]" },
      "sort": { "name": "sort", "in": "query", "schema": { "type": "string" } },
      "dir": { "name": "dir", "in": "query", "schema": { "type": "string", "enum": ["asc","desc"] } },
      "page": { "name": "page", "in": "query", "schema": { "type": "integer" } },
      "pageSize": { "name": "pageSize", "in": "query", "schema": { "type": "integer" } },
      "format": { "name": "format", "in": "query", "schema": { "type": "string", "enum": ["csv","json"] } }
    }
  },
  "paths": {
    "/api/resources": {
      "get": { "summary": "List resources with record counts and change statistics", "responses": { "200": { "description": "resources" } } }
    },
    "/api/{resource}": {
      "parameters": [ { "$ref": "#/components/parameters/resource" } ],
      "get": {
        "summary": "Search, filter, sort and paginate records",
        "parameters": [ { "$ref": "#/components/parameters/q" }, { "$ref": "#/components/parameters/filter" }, { "$ref": "#/components/parameters/sort" }, { "$ref": "#/components/parameters/dir" }, { "$ref": "#/components/parameters/page" }, { "$ref": "#/components/parameters/pageSize" } ],
        "responses": { "200": { "description": "search result" }, "400": { "description": "invalid query" }, "404": { "description": "unknown resource" } }
      },
      "post": { "summary": "Create a record", "requestBody": { "content": { "application/json": { "schema": { "type": "object" } } } }, "responses": { "201": { "description": "created" }, "422": { "description": "validation failed" } } }
    },
    "/api/{resource}/{id}": {
      "parameters": [ { "$ref": "#/components/parameters/resource" }, { "$ref": "#/components/parameters/id" } ],
      "get": { "summary": "Get a record", "responses": { "200": { "description": "record" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Merge fields into a record", "requestBody": { "content": { "application/json": { "schema": { "type": "object" } } } }, "responses": { "200": { "description": "updated" }, "404": { "description": "not found" }, "422": { "description": "validation failed" } } },
      "delete": { "summary": "Delete a record", "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/{resource}/suggestions": {
      "parameters": [ { "$ref": "#/components/parameters/resource" } ],
      "get": { "summary": "Search term completions", "parameters": [ { "$ref": "#/components/parameters/q" } ], "responses": { "200": { "description": "suggestions" } } }
    },
    "/api/{resource}/bulk-delete": {
      "parameters": [ { "$ref": "#/components/parameters/resource" } ],
      "post": { "summary": "Delete several records", "requestBody": { "content": { "application/json": { "schema": { "type": "object", "properties": { "ids": { "type": "array", "items": { "type": "string" } } } } } } }, "responses": { "200": { "description": "number deleted" } } }
    },
    "/api/{resource}/export": {
      "parameters": [ { "$ref": "#/components/parameters/resource" } ],
      "get": { "summary": "Download matching records as CSV or JSON", "parameters": [ { "$ref": "#/components/parameters/format" }, { "$ref": "#/components/parameters/q" }, { "$ref": "#/components/parameters/filter" }, { "$ref": "#/components/parameters/sort" } ], "responses": { "200": { "description": "attachment" } } }
    },
    "/api/{resource}/export/store": {
      "parameters": [ { "$ref": "#/components/parameters/resource" } ],
      "post": { "summary": "Write an export to object storage", "parameters": [ { "$ref": "#/components/parameters/format" } ], "responses": { "201": { "description": "stored export key and link" }, "503": { "description": "storage not configured" } } }
    },
    "/api/{resource}/import": {
      "parameters": [ { "$ref": "#/components/parameters/resource" } ],
      "post": { "summary": "Import CSV or JSON rows", "parameters": [ { "$ref": "#/components/parameters/format" }, { "name": "dryRun", "in": "query", "schema": { "type": "boolean" } } ], "requestBody": { "content": { "text/csv": {}, "application/json": {} } }, "responses": { "200": { "description": "import report" } } }
    },
    "/api/backup": {
      "get": { "summary": "Download a full backup", "responses": { "200": { "description": "backup document" } } },
      "post": { "summary": "Restore a backup", "requestBody": { "content": { "application/json": { "schema": { "type": "object" } } } }, "responses": { "200": { "description": "restored" }, "400": { "description": "invalid backup" } } }
    },
    "/api/notifications": {
      "get": { "summary": "List notifications", "responses": { "200": { "description": "notifications and unread count" } } }
    },
    "/api/notifications/stream": {
      "get": { "summary": "Server-sent notification snapshots", "responses": { "200": { "description": "text/event-stream" } } }
    },
    "/api/notifications/read-all": {
      "post": { "summary": "Mark all notifications read", "responses": { "200": { "description": "ok" } } }
    },
    "/api/notifications/{id}/read": {
      "post": { "summary": "Mark one notification read", "responses": { "200": { "description": "ok" }, "404": { "description": "not found" } } }
    },
    "/api/notifications/{id}": {
      "delete": { "summary": "Dismiss a notification", "responses": { "204": { "description": "dismissed" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
