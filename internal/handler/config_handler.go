package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rxlens/internal/service"
)

// ConfigHandler handles extraction config endpoints.
type ConfigHandler struct {
	configService service.ConfigService
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(configService service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

type configRequest struct {
	Name           string            `json:"name" binding:"required"`
	SelectedModels []string          `json:"selectedModels"`
	SelectedFields []string          `json:"selectedFields"`
	CustomPrompts  map[string]string `json:"customPrompts"`
	IsDefault      bool              `json:"isDefault"`
}

func (r *configRequest) toInput() *service.ConfigInput {
	return &service.ConfigInput{
		Name:           r.Name,
		SelectedModels: r.SelectedModels,
		SelectedFields: r.SelectedFields,
		CustomPrompts:  r.CustomPrompts,
		IsDefault:      r.IsDefault,
	}
}

// List handles GET /api/configs
func (h *ConfigHandler) List(c *gin.Context) {
	configs, err := h.configService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, configs)
}

// Create handles POST /api/configs
func (h *ConfigHandler) Create(c *gin.Context) {
	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	cfg, err := h.configService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, cfg)
}

// Update handles PUT /api/configs/:id
func (h *ConfigHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	cfg, err := h.configService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cfg)
}

// Delete handles DELETE /api/configs/:id
func (h *ConfigHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.configService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
