package media

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive-api/internal/pkg/cloudinary"
	"github.com/taskhive/taskhive-api/internal/pkg/fileref"
	"github.com/taskhive/taskhive-api/internal/pkg/response"
)

type Handler struct {
	cloudinary *cloudinary.Service
}

func NewHandler(cld *cloudinary.Service) *Handler {
	return &Handler{cloudinary: cld}
}

// UploadImage godoc
// @Summary Upload a review image
// @Description Uploads an image and returns a file reference to attach to a review
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} response.APIResponse{data=fileref.FileRef}
// @Failure 400 {object} response.APIResponse
// @Router /media/images [post]
func (h *Handler) UploadImage(c *gin.Context) {
	if h.cloudinary == nil {
		response.InternalServerError(c, "File uploads are not configured", "UPLOADS_DISABLED")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "File is required", "MISSING_FILE")
		return
	}
	defer file.Close()

	if err := cloudinary.ValidateImageFile(header); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_FILE")
		return
	}

	result, err := h.cloudinary.UploadImage(c.Request.Context(), file, header.Filename)
	if err != nil {
		response.InternalServerError(c, "Failed to upload file", "UPLOAD_FAILED")
		return
	}

	response.Success(c, toFileRef(result, header.Filename, header.Header.Get("Content-Type")))
}

// UploadEvidence godoc
// @Summary Upload report evidence
// @Description Uploads an evidence file (image, PDF or video) and returns a file reference to attach to a report
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Evidence file"
// @Success 200 {object} response.APIResponse{data=fileref.FileRef}
// @Failure 400 {object} response.APIResponse
// @Router /media/evidence [post]
func (h *Handler) UploadEvidence(c *gin.Context) {
	if h.cloudinary == nil {
		response.InternalServerError(c, "File uploads are not configured", "UPLOADS_DISABLED")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "File is required", "MISSING_FILE")
		return
	}
	defer file.Close()

	if err := cloudinary.ValidateEvidenceFile(header); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_FILE")
		return
	}

	result, err := h.cloudinary.UploadEvidence(c.Request.Context(), file, header.Filename)
	if err != nil {
		response.InternalServerError(c, "Failed to upload file", "UPLOAD_FAILED")
		return
	}

	response.Success(c, toFileRef(result, header.Filename, header.Header.Get("Content-Type")))
}

func toFileRef(result *cloudinary.UploadResult, filename, mimeType string) fileref.FileRef {
	return fileref.FileRef{
		URL:        result.URL,
		FileName:   filename,
		FileSize:   result.FileSize,
		MimeType:   mimeType,
		UploadedAt: time.Now(),
	}
}
