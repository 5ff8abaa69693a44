package handler

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rxlens/internal/domain"
	"rxlens/internal/export"
	"rxlens/internal/port"
)

// ExportHandler serves dataset exports. Every export re-aggregates from the
// stored rows rather than trusting the cached record.
type ExportHandler struct {
	presRepo   port.PrescriptionRepository
	resultRepo port.ResultRepository
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(presRepo port.PrescriptionRepository, resultRepo port.ResultRepository) *ExportHandler {
	return &ExportHandler{presRepo: presRepo, resultRepo: resultRepo}
}

func parseFilterIDs(c *gin.Context) ([]uuid.UUID, error) {
	raw := c.Query("prescriptionId")
	if list := c.Query("prescriptionIds"); list != "" {
		raw = list
	}
	if raw == "" {
		return nil, nil
	}

	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid prescription id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// load gathers the prescriptions and rows covered by the request filters.
func (h *ExportHandler) load(c *gin.Context) ([]domain.Prescription, []domain.ExtractionResult, bool) {
	ctx := c.Request.Context()

	ids, err := parseFilterIDs(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", err.Error())
		return nil, nil, false
	}

	if len(ids) == 0 {
		prescriptions, err := h.presRepo.List(ctx)
		if err != nil {
			HandleError(c, err)
			return nil, nil, false
		}
		results, err := h.resultRepo.ListAll(ctx)
		if err != nil {
			HandleError(c, err)
			return nil, nil, false
		}
		return prescriptions, results, true
	}

	prescriptions := make([]domain.Prescription, 0, len(ids))
	var results []domain.ExtractionResult
	for _, id := range ids {
		p, err := h.presRepo.GetByID(ctx, id)
		if err != nil {
			HandleError(c, err)
			return nil, nil, false
		}
		p.ImageData = nil
		prescriptions = append(prescriptions, *p)

		rows, err := h.resultRepo.ListByPrescription(ctx, id)
		if err != nil {
			HandleError(c, err)
			return nil, nil, false
		}
		results = append(results, rows...)
	}
	return prescriptions, results, true
}

func exportFileName(ext string) string {
	return fmt.Sprintf("prescriptions-%s.%s", time.Now().UTC().Format("2006-01-02"), ext)
}

// CSV handles GET /api/export/csv
func (h *ExportHandler) CSV(c *gin.Context) {
	prescriptions, results, ok := h.load(c)
	if !ok {
		return
	}

	ds := export.BuildDataset(prescriptions, results)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName("csv")))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(export.BOM); err != nil {
		return
	}
	if err := export.NewCSVWriter(c.Writer).WriteDataset(ds); err != nil {
		requestID, _ := c.Get("request_id")
		log.Printf("[%v] export.CSV: %v", requestID, err)
	}
}

// JSON handles GET /api/export/json
func (h *ExportHandler) JSON(c *gin.Context) {
	prescriptions, results, ok := h.load(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName("json")))
	c.JSON(http.StatusOK, export.BuildJSON(prescriptions, results))
}

// XLSX handles GET /api/export/xlsx
func (h *ExportHandler) XLSX(c *gin.Context) {
	prescriptions, results, ok := h.load(c)
	if !ok {
		return
	}

	ds := export.BuildDataset(prescriptions, results)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName("xlsx")))
	c.Status(http.StatusOK)

	if err := export.WriteXLSX(c.Writer, ds); err != nil {
		requestID, _ := c.Get("request_id")
		log.Printf("[%v] export.XLSX: %v", requestID, err)
	}
}
