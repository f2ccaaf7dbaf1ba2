package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	contactdomain "github.com/pharmindex/pharmindex/internal/contact/domain"
)

type createInquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateInquiry is the only unauthenticated write: the public contact form
// posts here.
func (s *Server) CreateInquiry(c *gin.Context) {
	var req createInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inquiry, err := s.contactSvc.Create(c.Request.Context(), contactdomain.CreateInquiryRequest{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inquiry})
}

func (s *Server) ListInquiries(c *gin.Context) {
	inquiries, err := s.contactSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inquiries})
}

func (s *Server) GetInquiryByID(c *gin.Context) {
	inquiry, err := s.contactSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inquiry})
}

type updateInquiryStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateInquiryStatus(c *gin.Context) {
	var req updateInquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inquiry, err := s.contactSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inquiry})
}

func (s *Server) DeleteInquiry(c *gin.Context) {
	if err := s.contactSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": true})
}
