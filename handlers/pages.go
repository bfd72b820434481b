package handlers

import (
	"net/http"
	"strings"

	"camping-admin/middleware"
	"camping-admin/session"

	"github.com/gin-gonic/gin"
)

// Page applies the navigation rules to page routes and unknown paths.
func Page(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	_, authenticated := middleware.CurrentSession(c)
	view, redirect := session.Resolve(path, authenticated)
	if redirect != "" {
		c.Redirect(http.StatusFound, redirect)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view, "authenticated": authenticated})
}
