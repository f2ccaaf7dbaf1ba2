package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	categorydomain "github.com/pharmindex/pharmindex/internal/category/domain"
)

type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (s *Server) ListCategories(c *gin.Context) {
	categories, err := s.categorySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (s *Server) GetCategoryByID(c *gin.Context) {
	category, err := s.categorySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	category, err := s.categorySvc.Create(c.Request.Context(), categorydomain.CreateCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (s *Server) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	category, err := s.categorySvc.Update(c.Request.Context(), categorydomain.UpdateCategoryRequest{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (s *Server) DeleteCategory(c *gin.Context) {
	if err := s.categorySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": true})
}
