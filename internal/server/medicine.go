package server

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	medicinedomain "github.com/pharmindex/pharmindex/internal/medicine/domain"
)

func (s *Server) ListMedicines(c *gin.Context) {
	medicines, err := s.medicineSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": medicines})
}

func (s *Server) GetMedicineByID(c *gin.Context) {
	medicine, err := s.medicineSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": medicine})
}

// CreateMedicine accepts a multipart form: scalar fields plus repeated list
// fields, with image files under "images".
func (s *Server) CreateMedicine(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	fields, err := medicineFieldsFromForm(form)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	images, closers, err := openUploads(form.File["images"])
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer closeAll(closers)

	medicine, err := s.medicineSvc.Create(c.Request.Context(), medicinedomain.CreateMedicineRequest{
		MedicineFields: fields,
		Images:         images,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": medicine})
}

// UpdateMedicine replaces all mutable fields. Previously persisted image URLs
// the caller wants to keep arrive as repeated "image_urls" values; any files
// under "images" are uploaded and appended.
func (s *Server) UpdateMedicine(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	fields, err := medicineFieldsFromForm(form)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	images, closers, err := openUploads(form.File["images"])
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer closeAll(closers)

	medicine, err := s.medicineSvc.Update(c.Request.Context(), medicinedomain.UpdateMedicineRequest{
		ID:             c.Param("id"),
		MedicineFields: fields,
		ImageURLs:      form.Value["image_urls"],
		Images:         images,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": medicine})
}

func (s *Server) DeleteMedicine(c *gin.Context) {
	if err := s.medicineSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": true})
}

type removeImageRequest struct {
	URL string `json:"url"`
}

func (s *Server) RemoveMedicineImage(c *gin.Context) {
	var req removeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		AbortWithError(c, newValidationError("url", "required", "url is required"))
		return
	}

	if err := s.medicineSvc.RemoveImage(c.Request.Context(), c.Param("id"), req.URL); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": true})
}

func medicineFieldsFromForm(form *multipart.Form) (medicinedomain.MedicineFields, error) {
	fields := medicinedomain.MedicineFields{
		Name:              formValue(form, "name"),
		Dosages:           form.Value["dosages"],
		Ingredients:       form.Value["ingredients"],
		SideEffects:       form.Value["side_effects"],
		UsageInstructions: form.Value["usage_instructions"],
		Warnings:          form.Value["warnings"],
		Alternatives:      form.Value["alternatives"],
	}

	if v := formValue(form, "description"); v != "" {
		fields.Description = &v
	}
	if v := formValue(form, "category_id"); v != "" {
		fields.CategoryID = &v
	}
	if v := formValue(form, "brand_id"); v != "" {
		fields.BrandID = &v
	}

	if v := formValue(form, "price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return medicinedomain.MedicineFields{}, newValidationError("price", "invalid_price", "invalid price")
		}
		fields.Price = &price
	}

	if v := formValue(form, "prescription_required"); v != "" {
		required, err := strconv.ParseBool(v)
		if err != nil {
			return medicinedomain.MedicineFields{}, newValidationError("prescription_required", "invalid_prescription_required", "invalid prescription_required")
		}
		fields.PrescriptionRequired = required
	}

	return fields, nil
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func openUploads(headers []*multipart.FileHeader) ([]medicinedomain.ImageUpload, []multipart.File, error) {
	uploads := make([]medicinedomain.ImageUpload, 0, len(headers))
	closers := make([]multipart.File, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		closers = append(closers, file)
		uploads = append(uploads, medicinedomain.ImageUpload{
			FileName: header.Filename,
			Content:  file,
		})
	}
	return uploads, closers, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
