// Package api exposes the moderation records over HTTP for the staff
// dashboard and reporting tooling.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
)

// API serves read access to the moderation records, guarded by a shared
// authorization key.
type API struct {
	log  *slog.Logger
	addr string

	reports *moderation.Reports
	bans    *moderation.Bans
	actions *moderation.ActionLog
}

// New creates the HTTP API over the given record managers.
func New(log *slog.Logger, addr, key string, reports *moderation.Reports, bans *moderation.Bans, actions *moderation.ActionLog) *API {
	a := &API{
		log:     log,
		addr:    addr,
		reports: reports,
		bans:    bans,
		actions: actions,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		if c.GetHeader("authorization") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	})

	router.GET("/reports", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.reports.All())
	})
	router.DELETE("/reports/:id", func(c *gin.Context) {
		if !a.reports.RemoveByID(c.Param("id")) {
			c.JSON(http.StatusNotFound, gin.H{"reason": "no report found"})
			return
		}
		c.Status(http.StatusNoContent)
	})
	router.GET("/bans", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.bans.All())
	})
	router.GET("/actionlog", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.actions.All())
	})

	go func() {
		if err := router.Run(addr); err != nil {
			log.Error("api: http server stopped", "error", err)
		}
	}()

	return a
}
