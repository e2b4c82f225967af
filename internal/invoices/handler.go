package invoices

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/server/middleware"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/server/respond"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/telemetry"
)

const maxUploadBytes = 10 << 20

// Handler exposes the upload pipeline over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs the upload handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the upload route. Auth middleware must run first.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/upload", h.Upload)
}

// Upload accepts a multipart document, runs the ingestion pipeline, and
// returns the structured record.
func (h *Handler) Upload(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	token := middleware.TokenFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		// Some clients still send the older field name.
		fileHeader, err = c.FormFile("file")
	}
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Missing file field")
		return
	}

	// Claims occasionally lack a user id; a form value may supply it.
	if strings.TrimSpace(identity.UserID) == "" {
		identity.UserID = strings.TrimSpace(c.PostForm("user_id"))
	}
	if identity.UserID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "User ID missing")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "pipeline_failed", err.Error())
		return
	}
	defer file.Close()

	telemetry.Info("upload.received", map[string]any{
		"user_id": identity.UserID,
		"file":    fileHeader.Filename,
		"size":    fileHeader.Size,
	})

	result, err := h.service.Process(c.Request.Context(), identity, token, fileHeader.Filename, file)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "pipeline_failed", err.Error())
		return
	}
	c.Set("documentType", docType(result.StructuredData))

	respond.OK(c, result)
}

func docType(record map[string]any) string {
	if record == nil {
		return "unknown"
	}
	if dt, ok := record["document_type"].(string); ok && dt != "" {
		return dt
	}
	return "unknown"
}
