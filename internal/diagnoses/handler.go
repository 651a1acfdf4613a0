package diagnoses

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"diagnosis-backend/internal/answers"
	"diagnosis-backend/internal/shared/server/middleware"
	"diagnosis-backend/internal/shared/server/respond"
)

const (
	maxImportSize     = 20 << 20 // 20MB
	maxAttachmentSize = 2 << 20  // 2MB
)

// Handler wires HTTP handlers to the diagnoses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches diagnosis routes to the router group. Validation
// routes require the consultant role.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/diagnoses", h.create)
	rg.POST("/diagnoses/import", h.importDocument)
	rg.GET("/diagnoses", h.list)
	rg.GET("/diagnoses/:id", h.get)
	rg.PATCH("/diagnoses/:id", h.update)
	rg.DELETE("/diagnoses/:id", h.delete)

	rg.PUT("/diagnoses/:id/answers/:questionId", h.submitAnswer)
	rg.POST("/diagnoses/:id/answers/:questionId/attachment", h.uploadAttachment)
	rg.GET("/diagnoses/:id/answers/:questionId/attachment", h.downloadAttachment)
	rg.DELETE("/diagnoses/:id/answers/:questionId/attachment", h.removeAttachment)
	rg.POST("/diagnoses/:id/answers/:questionId/review", h.review)

	rg.POST("/diagnoses/:id/report", h.generateReport)
	rg.POST("/diagnoses/:id/validated-report", middleware.RequireConsultant(), h.generateValidatedReport)
	rg.PUT("/diagnoses/:id/answers/:questionId/validation", middleware.RequireConsultant(), h.setValidation)
	rg.PUT("/diagnoses/:id/answers/:questionId/consultant-edit", middleware.RequireConsultant(), h.consultantEdit)
}

type createRequest struct {
	CompanyName string `json:"companyName"`
	FolderID    string `json:"folderId"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	d, err := h.Svc.Create(c.Request.Context(), userID, req.CompanyName, req.FolderID)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusCreated, d)
}

func (h *Handler) importDocument(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	companyName := c.PostForm("companyName")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	d, err := h.Svc.Import(c.Request.Context(), userID, companyName, data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, "import_failed", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusCreated, d)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list diagnoses", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"diagnoses": list})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	d, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to fetch diagnosis")
		return
	}
	respond.JSON(c, http.StatusOK, d)
}

type updateRequest struct {
	CompanyName           *string `json:"companyName"`
	FolderID              *string `json:"folderId"`
	CurrentTopic          *string `json:"currentTopic"`
	ViewMode              *string `json:"viewMode"`
	QuestionnaireViewMode *string `json:"questionnaireViewMode"`
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	d, err := h.Svc.UpdateMeta(c.Request.Context(), userID, c.Param("id"), MetaPatch{
		CompanyName:           req.CompanyName,
		FolderID:              req.FolderID,
		CurrentTopic:          req.CurrentTopic,
		ViewMode:              req.ViewMode,
		QuestionnaireViewMode: req.QuestionnaireViewMode,
	})
	if err != nil {
		h.respondError(c, err, "failed to update diagnosis")
		return
	}
	respond.JSON(c, http.StatusOK, d)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete diagnosis")
		return
	}
	c.Status(http.StatusNoContent)
}

// The value field is decoded by hand: a pointer field would flatten a
// client's explicit "value": null (not applicable) into an absent value.
type submitAnswerRequest struct {
	Value     json.RawMessage `json:"value"`
	Evidence  string          `json:"evidence"`
	Confirmed bool            `json:"confirmed"`
}

// decodeValueField maps a raw value payload onto the optional typed value:
// absent key means unanswered, present null means not applicable.
func decodeValueField(raw json.RawMessage) (*answers.Value, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v answers.Value
	if err := v.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *Handler) submitAnswer(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	value, err := decodeValueField(req.Value)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid answer value", nil)
		return
	}

	d, err := h.Svc.SubmitAnswer(c.Request.Context(), userID, c.Param("id"), c.Param("questionId"), AnswerInput{
		Value:     value,
		Evidence:  req.Evidence,
		Confirmed: req.Confirmed,
	})
	if err != nil {
		h.respondError(c, err, "failed to save answer")
		return
	}
	respond.JSON(c, http.StatusOK, d)
}

func (h *Handler) uploadAttachment(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAttachmentSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "attachment exceeds the 2MB limit", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	d, attachment, err := h.Svc.UploadAttachment(c.Request.Context(), userID, c.Param("id"), c.Param("questionId"), fileHeader.Filename, file)
	if err != nil {
		h.respondError(c, err, "failed to upload attachment")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{
		"attachment": attachment,
		"diagnosis":  d,
	})
}

func (h *Handler) downloadAttachment(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	body, attachment, err := h.Svc.OpenAttachment(c.Request.Context(), userID, c.Param("id"), c.Param("questionId"))
	if err != nil {
		h.respondError(c, err, "failed to open attachment")
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", `attachment; filename="`+attachment.Name+`"`)
	contentType := attachment.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, attachment.SizeBytes, contentType, body, nil)
}

func (h *Handler) removeAttachment(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	d, err := h.Svc.RemoveAttachment(c.Request.Context(), userID, c.Param("id"), c.Param("questionId"))
	if err != nil {
		h.respondError(c, err, "failed to remove attachment")
		return
	}
	respond.JSON(c, http.StatusOK, d)
}

func (h *Handler) review(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	check, err := h.Svc.ReviewAnswer(c.Request.Context(), userID, c.Param("id"), c.Param("questionId"))
	if err != nil {
		h.respondError(c, err, "failed to review answer")
		return
	}
	respond.JSON(c, http.StatusOK, check)
}

func (h *Handler) generateReport(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	d, err := h.Svc.GenerateReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to generate report")
		return
	}
	respond.JSON(c, http.StatusOK, d)
}

func (h *Handler) generateValidatedReport(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	d, err := h.Svc.GenerateValidatedReport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to generate validated report")
		return
	}
	respond.JSON(c, http.StatusOK, d)
}

type validationRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (h *Handler) setValidation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req validationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	d, err := h.Svc.SetValidation(c.Request.Context(), userID, c.Param("id"), c.Param("questionId"), answers.ValidationStatus(req.Status), req.Comment)
	if err != nil {
		h.respondError(c, err, "failed to set validation")
		return
	}
	respond.JSON(c, http.StatusOK, d)
}

type consultantEditRequest struct {
	Value    json.RawMessage `json:"value"`
	Evidence string          `json:"evidence"`
}

func (h *Handler) consultantEdit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req consultantEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	value, err := decodeValueField(req.Value)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid answer value", nil)
		return
	}

	d, err := h.Svc.ConsultantEdit(c.Request.Context(), userID, c.Param("id"), c.Param("questionId"), ConsultantEditInput{
		Value:    value,
		Evidence: req.Evidence,
	})
	if err != nil {
		h.respondError(c, err, "failed to apply consultant edit")
		return
	}
	respond.JSON(c, http.StatusOK, d)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "diagnosis not found", nil)
	case errors.Is(err, ErrUnknownQuestion):
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown question", nil)
	case errors.Is(err, ErrNoAttachment):
		respond.Error(c, http.StatusNotFound, "not_found", "answer has no attachment", nil)
	case errors.Is(err, ErrNotSubmitted):
		respond.Error(c, http.StatusConflict, "not_submitted", "diagnosis has no submitted report", nil)
	case errors.Is(err, ErrValidationPending):
		respond.Error(c, http.StatusConflict, "validation_pending", err.Error(), nil)
	case errors.Is(err, ErrInvalidValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", "status must be validated or refused", nil)
	case errors.Is(err, ErrGenerationInProgress):
		respond.Error(c, http.StatusConflict, "generation_in_progress", "report generation already running", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
