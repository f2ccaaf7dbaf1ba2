package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) DashboardStats(c *gin.Context) {
	stats, err := s.dashboardSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (s *Server) DashboardRecentUsers(c *gin.Context) {
	users, err := s.dashboardSvc.RecentUsers(c.Request.Context(), limitQuery(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (s *Server) DashboardRecentContacts(c *gin.Context) {
	contacts, err := s.dashboardSvc.RecentContacts(c.Request.Context(), limitQuery(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contacts})
}

func (s *Server) DashboardGrowth(c *gin.Context) {
	growth, err := s.dashboardSvc.Growth(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": growth})
}

// limitQuery reads an optional ?limit= value; the service applies its
// configured default when the result is zero.
func limitQuery(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
