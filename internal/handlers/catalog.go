package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": h.catalog.List()})
}
