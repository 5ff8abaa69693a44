package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rxlens/internal/service"
)

// PrescriptionHandler handles prescription lifecycle endpoints.
type PrescriptionHandler struct {
	prescriptionService service.PrescriptionService
	maxFiles            int
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(prescriptionService service.PrescriptionService, maxFiles int) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptionService: prescriptionService, maxFiles: maxFiles}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func readUploadFile(fh *multipart.FileHeader) (service.UploadFileInput, error) {
	f, err := fh.Open()
	if err != nil {
		return service.UploadFileInput{}, fmt.Errorf("opening %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.UploadFileInput{}, fmt.Errorf("reading %s: %w", fh.Filename, err)
	}
	return service.UploadFileInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// parseModelList accepts both a JSON-encoded array ("[\"openai\"]") and a
// plain comma-separated list, since form clients send either.
func parseModelList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var models []string
		if err := json.Unmarshal([]byte(raw), &models); err == nil {
			return models
		}
	}
	parts := strings.Split(raw, ",")
	models := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			models = append(models, p)
		}
	}
	return models
}

func parsePromptMap(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var prompts map[string]string
	if err := json.Unmarshal([]byte(raw), &prompts); err != nil {
		return nil
	}
	return prompts
}

// parseProcessInput reads model selection and prompt overrides from either a
// JSON body or form values, tolerating JSON-string-encoded fields in both.
func parseProcessInput(c *gin.Context) service.ProcessInput {
	if strings.Contains(c.ContentType(), "application/json") {
		var req struct {
			SelectedModels json.RawMessage `json:"selectedModels"`
			CustomPrompts  json.RawMessage `json:"customPrompts"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			return service.ProcessInput{}
		}
		return service.ProcessInput{
			SelectedModels: decodeModelList(req.SelectedModels),
			CustomPrompts:  decodePromptMap(req.CustomPrompts),
		}
	}

	input := service.ProcessInput{
		SelectedModels: parseModelList(c.PostForm("selectedModels")),
		CustomPrompts:  parsePromptMap(c.PostForm("customPrompts")),
	}
	if len(input.SelectedModels) == 0 {
		// Structured form clients repeat the key instead.
		if repeated := c.PostFormArray("selectedModels[]"); len(repeated) > 0 {
			input.SelectedModels = repeated
		}
	}
	return input
}

func decodeModelList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var models []string
	if err := json.Unmarshal(raw, &models); err == nil {
		return models
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		return parseModelList(encoded)
	}
	return nil
}

func decodePromptMap(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var prompts map[string]string
	if err := json.Unmarshal(raw, &prompts); err == nil {
		return prompts
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		return parsePromptMap(encoded)
	}
	return nil
}

// List handles GET /api/prescriptions
func (h *PrescriptionHandler) List(c *gin.Context) {
	prescriptions, err := h.prescriptionService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, prescriptions)
}

// Get handles GET /api/prescriptions/:id
func (h *PrescriptionHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.prescriptionService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// GetImage handles GET /api/prescriptions/:id/image
func (h *PrescriptionHandler) GetImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	data, contentType, err := h.prescriptionService.GetImage(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, contentType, data)
}

// Upload handles POST /api/prescriptions/upload
func (h *PrescriptionHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form with a files field is required")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "NO_FILES", "no files in upload")
		return
	}
	if h.maxFiles > 0 && len(headers) > h.maxFiles {
		RespondError(c, http.StatusBadRequest, "TOO_MANY_FILES",
			fmt.Sprintf("at most %d files per upload", h.maxFiles))
		return
	}

	files := make([]service.UploadFileInput, 0, len(headers))
	for _, fh := range headers {
		file, err := readUploadFile(fh)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		files = append(files, file)
	}

	prescriptions, err := h.prescriptionService.Upload(c.Request.Context(), files)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, prescriptions)
}

// Process handles POST /api/prescriptions/:id/process
func (h *PrescriptionHandler) Process(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	input := parseProcessInput(c)

	var file *service.UploadFileInput
	if fh, err := c.FormFile("file"); err == nil {
		f, err := readUploadFile(fh)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		file = &f
	}

	detail, err := h.prescriptionService.Process(c.Request.Context(), id, file, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// ProcessExisting handles POST /api/prescriptions/:id/process-existing
func (h *PrescriptionHandler) ProcessExisting(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.prescriptionService.ProcessExisting(c.Request.Context(), id, parseProcessInput(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Retry handles POST /api/prescriptions/:id/retry
func (h *PrescriptionHandler) Retry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.prescriptionService.Retry(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, p)
}

// Reprocess handles POST /api/prescriptions/:id/reprocess
func (h *PrescriptionHandler) Reprocess(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.prescriptionService.Reprocess(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, p)
}

// Delete handles DELETE /api/prescriptions/:id
func (h *PrescriptionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	force := c.Query("force") == "true"
	if err := h.prescriptionService.Delete(c.Request.Context(), id, force); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// UpdateExtractedData handles PATCH /api/prescriptions/:id/extracted-data
func (h *PrescriptionHandler) UpdateExtractedData(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		FieldUpdates map[string]string `json:"fieldUpdates"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "fieldUpdates object is required")
		return
	}

	detail, err := h.prescriptionService.ApplyFieldCorrections(c.Request.Context(), id, req.FieldUpdates)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}
