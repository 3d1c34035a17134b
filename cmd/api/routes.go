package main

import (
	"github.com/asm2me/Asterisk-Reporting/internal/auth"
	"github.com/asm2me/Asterisk-Reporting/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// AUTH routes (token issuance).
	// NOTE: This is a placeholder login route; real credential validation is
	// not implemented.
	r.POST("/v1/auth/login", h.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		// Identity echo for UI session checks.
		v1.GET("/me", func(c *gin.Context) {
			id, _ := auth.IdentityFrom(c.Request.Context())
			c.JSON(200, gin.H{"username": id.Username, "is_admin": id.Admin, "extensions": id.Extensions})
		})

		reports := v1.Group("/reports")
		{
			reports.GET("/summary", h.Summary)
			reports.GET("/calls", h.Calls)
			reports.GET("/extensions", h.ExtensionKPIs)
			reports.GET("/concurrency", h.Concurrency)
			reports.GET("/gateways", h.Gateways)
		}

		exports := v1.Group("/exports")
		{
			exports.GET("/csv", h.ExportCSV)
			exports.GET("/xlsx", h.ExportXLSX)
		}
	}
}
