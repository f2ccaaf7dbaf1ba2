package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	branddomain "github.com/pharmindex/pharmindex/internal/brand/domain"
)

func (s *Server) ListBrands(c *gin.Context) {
	brands, err := s.brandSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brands})
}

func (s *Server) GetBrandByID(c *gin.Context) {
	brand, err := s.brandSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brand})
}

// CreateBrand accepts a multipart form with an optional logo file under
// "logo".
func (s *Server) CreateBrand(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := branddomain.CreateBrandRequest{
		Name: formValue(form, "name"),
	}
	if v := formValue(form, "country"); v != "" {
		req.Country = &v
	}

	if headers := form.File["logo"]; len(headers) > 0 {
		file, err := headers[0].Open()
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		defer file.Close()
		req.Logo = &branddomain.LogoUpload{
			FileName: headers[0].Filename,
			Content:  file,
		}
	}

	brand, err := s.brandSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brand})
}

// UpdateBrand replaces all mutable fields. A new "logo" file replaces the
// stored logo; otherwise the "logo_url" value is persisted as-is.
func (s *Server) UpdateBrand(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := branddomain.UpdateBrandRequest{
		ID:   c.Param("id"),
		Name: formValue(form, "name"),
	}
	if v := formValue(form, "country"); v != "" {
		req.Country = &v
	}
	if v := formValue(form, "logo_url"); v != "" {
		req.LogoURL = &v
	}

	if headers := form.File["logo"]; len(headers) > 0 {
		file, err := headers[0].Open()
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		defer file.Close()
		req.Logo = &branddomain.LogoUpload{
			FileName: headers[0].Filename,
			Content:  file,
		}
	}

	brand, err := s.brandSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brand})
}

func (s *Server) DeleteBrand(c *gin.Context) {
	if err := s.brandSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": true})
}
