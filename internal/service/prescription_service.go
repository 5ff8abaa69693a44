package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rxlens/internal/aggregate"
	"rxlens/internal/domain"
	"rxlens/internal/extractor"
	"rxlens/internal/fieldcodec"
	"rxlens/internal/imaging"
	"rxlens/internal/port"
)

// UploadFileInput is one file in an upload batch.
type UploadFileInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ProcessInput selects the models and prompt overrides for one processing
// attempt. Empty fields fall back to the default extraction config, then to
// the built-in model set with no prompt overrides.
type ProcessInput struct {
	SelectedModels []string
	CustomPrompts  map[string]string
}

// PrescriptionDetail is a prescription together with its freshly aggregated
// record and the raw per-model rows it was derived from.
type PrescriptionDetail struct {
	Prescription      *domain.Prescription       `json:"prescription"`
	ExtractedData     *domain.PrescriptionRecord `json:"extractedData,omitempty"`
	ExtractionResults []domain.ExtractionResult  `json:"extractionResults"`
}

// UploadLimits bounds one upload batch.
type UploadLimits struct {
	MaxFiles    int
	MaxFileSize int64
}

// PrescriptionService defines the prescription lifecycle contract.
type PrescriptionService interface {
	Upload(ctx context.Context, files []UploadFileInput) ([]domain.Prescription, error)
	List(ctx context.Context) ([]domain.Prescription, error)
	Get(ctx context.Context, id uuid.UUID) (*PrescriptionDetail, error)
	GetImage(ctx context.Context, id uuid.UUID) (data []byte, contentType string, err error)
	// Process replaces the stored image when file is non-nil, then runs an
	// extraction attempt synchronously.
	Process(ctx context.Context, id uuid.UUID, file *UploadFileInput, input ProcessInput) (*PrescriptionDetail, error)
	// ProcessExisting runs an extraction attempt over the stored image.
	ProcessExisting(ctx context.Context, id uuid.UUID, input ProcessInput) (*PrescriptionDetail, error)
	Retry(ctx context.Context, id uuid.UUID) (*domain.Prescription, error)
	Reprocess(ctx context.Context, id uuid.UUID) (*domain.Prescription, error)
	Delete(ctx context.Context, id uuid.UUID, force bool) error
	// ApplyFieldCorrections rewrites the stored value of each given field
	// key across all models, then rebuilds the cached record.
	ApplyFieldCorrections(ctx context.Context, id uuid.UUID, fieldUpdates map[string]string) (*PrescriptionDetail, error)
}

type prescriptionService struct {
	presRepo    port.PrescriptionRepository
	resultRepo  port.ResultRepository
	configRepo  port.ConfigRepository
	orch        *extractor.Orchestrator
	broadcaster port.Broadcaster
	limits      UploadLimits
}

// NewPrescriptionService creates a new PrescriptionService implementation.
func NewPrescriptionService(
	presRepo port.PrescriptionRepository,
	resultRepo port.ResultRepository,
	configRepo port.ConfigRepository,
	orch *extractor.Orchestrator,
	broadcaster port.Broadcaster,
	limits UploadLimits,
) PrescriptionService {
	return &prescriptionService{
		presRepo:    presRepo,
		resultRepo:  resultRepo,
		configRepo:  configRepo,
		orch:        orch,
		broadcaster: broadcaster,
		limits:      limits,
	}
}

func (s *prescriptionService) broadcast(eventType port.EventType, id uuid.UUID, status domain.ProcessingStatus) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(port.Event{
		Type:           eventType,
		PrescriptionID: id,
		Status:         status,
		Timestamp:      time.Now().UTC(),
	})
}

func (s *prescriptionService) Upload(ctx context.Context, files []UploadFileInput) ([]domain.Prescription, error) {
	if len(files) == 0 {
		return nil, domain.ErrUnsupportedFileType
	}
	if s.limits.MaxFiles > 0 && len(files) > s.limits.MaxFiles {
		return nil, domain.ErrTooManyFiles
	}

	prescriptions := make([]domain.Prescription, 0, len(files))
	for _, file := range files {
		if s.limits.MaxFileSize > 0 && int64(len(file.Data)) > s.limits.MaxFileSize {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileTooLarge, file.FileName)
		}
		imageData, contentType, err := imaging.NormalizeJPEG(file.Data, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("prescriptionService.Upload %s: %w", file.FileName, err)
		}

		p := domain.Prescription{
			ID:               uuid.New(),
			FileName:         file.FileName,
			FileSize:         int64(len(imageData)),
			ContentType:      contentType,
			ProcessingStatus: domain.StatusQueued,
			ImageData:        imageData,
		}
		if err := s.presRepo.Create(ctx, &p); err != nil {
			return nil, err
		}
		s.broadcast(port.EventCreated, p.ID, p.ProcessingStatus)
		p.ImageData = nil // responses never carry image bytes
		prescriptions = append(prescriptions, p)
	}
	return prescriptions, nil
}

func (s *prescriptionService) List(ctx context.Context) ([]domain.Prescription, error) {
	return s.presRepo.List(ctx)
}

func (s *prescriptionService) Get(ctx context.Context, id uuid.UUID) (*PrescriptionDetail, error) {
	p, err := s.presRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, p)
}

// detail re-aggregates the stored rows on every read so the returned record
// always reflects the current row set, not the cached copy.
func (s *prescriptionService) detail(ctx context.Context, p *domain.Prescription) (*PrescriptionDetail, error) {
	rows, err := s.resultRepo.ListByPrescription(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.ImageData = nil
	if rows == nil {
		rows = []domain.ExtractionResult{}
	}
	return &PrescriptionDetail{
		Prescription:      p,
		ExtractedData:     aggregate.Aggregate(rows),
		ExtractionResults: rows,
	}, nil
}

func (s *prescriptionService) GetImage(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	p, err := s.presRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !p.HasImage() {
		return imaging.PlaceholderSVG(p.FileName), "image/svg+xml", nil
	}
	contentType := p.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return p.ImageData, contentType, nil
}

func (s *prescriptionService) Process(ctx context.Context, id uuid.UUID, file *UploadFileInput, input ProcessInput) (*PrescriptionDetail, error) {
	p, err := s.presRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if file != nil {
		imageData, contentType, err := imaging.NormalizeJPEG(file.Data, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("prescriptionService.Process %s: %w", file.FileName, err)
		}
		if err := s.presRepo.UpdateImage(ctx, id, imageData, contentType, file.FileName, int64(len(imageData))); err != nil {
			return nil, err
		}
		p.ImageData = imageData
		p.ContentType = contentType
	}

	return s.runExtraction(ctx, p, input)
}

func (s *prescriptionService) ProcessExisting(ctx context.Context, id uuid.UUID, input ProcessInput) (*PrescriptionDetail, error) {
	p, err := s.presRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.runExtraction(ctx, p, input)
}

// resolveProcessInput fills empty model/prompt selections from the default
// extraction config, falling back to the built-in model set.
func (s *prescriptionService) resolveProcessInput(ctx context.Context, input ProcessInput) ProcessInput {
	if len(input.SelectedModels) > 0 && input.CustomPrompts != nil {
		return input
	}

	cfg, err := s.configRepo.GetDefault(ctx)
	if err != nil && !errors.Is(err, domain.ErrConfigNotFound) {
		log.Printf("prescriptionService.resolveProcessInput: loading default config: %v", err)
	}
	if len(input.SelectedModels) == 0 {
		if cfg != nil && len(cfg.SelectedModels) > 0 {
			input.SelectedModels = cfg.SelectedModels
		} else {
			input.SelectedModels = domain.DefaultModels
		}
	}
	if input.CustomPrompts == nil {
		if cfg != nil && cfg.CustomPrompts != nil {
			input.CustomPrompts = cfg.CustomPrompts
		} else {
			input.CustomPrompts = map[string]string{}
		}
	}
	return input
}

func (s *prescriptionService) runExtraction(ctx context.Context, p *domain.Prescription, input ProcessInput) (*PrescriptionDetail, error) {
	if !p.HasImage() {
		return nil, domain.ErrNoImageData
	}
	input = s.resolveProcessInput(ctx, input)

	if err := s.presRepo.UpdateStatus(ctx, p.ID, domain.StatusProcessing, nil); err != nil {
		return nil, err
	}
	p.ProcessingStatus = domain.StatusProcessing
	s.broadcast(port.EventProcessing, p.ID, domain.StatusProcessing)

	outputs := s.orch.Run(ctx, port.ExtractInput{
		ImageBytes:  p.ImageData,
		ContentType: p.ContentType,
		Prompts:     input.CustomPrompts,
	}, input.SelectedModels)

	rows := make([]domain.ExtractionResult, 0, len(outputs)*32)
	for _, out := range outputs {
		for _, pair := range fieldcodec.FlattenPairs(out.Record) {
			rows = append(rows, domain.ExtractionResult{
				ID:               uuid.New(),
				PrescriptionID:   p.ID,
				ModelName:        out.ModelName,
				FieldKey:         pair.Key,
				Value:            pair.Value,
				Confidence:       out.Confidence,
				ProcessingTimeMs: out.ProcessingTimeMs,
			})
		}
	}
	if len(rows) > 0 {
		if err := s.resultRepo.AppendBatch(ctx, rows); err != nil {
			// Rows lost; the attempt failed even though providers answered.
			log.Printf("prescriptionService.runExtraction: appending rows for %s: %v", p.ID, err)
			outputs = nil
		}
	}

	// The cache is rebuilt from whatever rows survive, even when this
	// attempt produced none.
	if err := s.rebuildCache(ctx, p.ID); err != nil {
		log.Printf("prescriptionService.runExtraction: rebuilding cache for %s: %v", p.ID, err)
	}

	if len(outputs) == 0 {
		if err := s.presRepo.UpdateStatus(ctx, p.ID, domain.StatusFailed, nil); err != nil {
			return nil, err
		}
		s.broadcast(port.EventFailed, p.ID, domain.StatusFailed)
		return nil, domain.ErrAllProvidersFailed
	}

	if err := s.presRepo.UpdateStatus(ctx, p.ID, domain.StatusCompleted, nil); err != nil {
		return nil, err
	}
	p.ProcessingStatus = domain.StatusCompleted
	s.broadcast(port.EventCompleted, p.ID, domain.StatusCompleted)

	return s.detail(ctx, p)
}

// rebuildCache re-aggregates all stored rows and rewrites the denormalized
// extracted_data column.
func (s *prescriptionService) rebuildCache(ctx context.Context, id uuid.UUID) error {
	rows, err := s.resultRepo.ListByPrescription(ctx, id)
	if err != nil {
		return err
	}
	rec := aggregate.Aggregate(rows)
	var data json.RawMessage
	if rec != nil {
		data, err = json.Marshal(rec)
		if err != nil {
			return err
		}
	}
	return s.presRepo.UpdateExtractedData(ctx, id, data)
}

func (s *prescriptionService) Retry(ctx context.Context, id uuid.UUID) (*domain.Prescription, error) {
	p, err := s.presRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ProcessingStatus != domain.StatusFailed {
		return nil, domain.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	if err := s.presRepo.UpdateStatus(ctx, id, domain.StatusQueued, &now); err != nil {
		return nil, err
	}
	p.ProcessingStatus = domain.StatusQueued
	p.RequeuedAt = &now
	p.ImageData = nil
	s.broadcast(port.EventUpdated, id, domain.StatusQueued)
	return p, nil
}

func (s *prescriptionService) Reprocess(ctx context.Context, id uuid.UUID) (*domain.Prescription, error) {
	p, err := s.presRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.ProcessingStatus.Terminal() {
		return nil, domain.ErrInvalidStatusTransition
	}

	// Reprocessing starts from a clean slate: prior rows are cleared so
	// stale answers cannot outvote the new attempt.
	if err := s.resultRepo.DeleteByPrescription(ctx, id); err != nil {
		return nil, err
	}
	if err := s.presRepo.UpdateExtractedData(ctx, id, nil); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.presRepo.UpdateStatus(ctx, id, domain.StatusQueued, &now); err != nil {
		return nil, err
	}
	p.ProcessingStatus = domain.StatusQueued
	p.RequeuedAt = &now
	p.ExtractedData = nil
	p.ImageData = nil
	s.broadcast(port.EventUpdated, id, domain.StatusQueued)
	return p, nil
}

func (s *prescriptionService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	p, err := s.presRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.ProcessingStatus == domain.StatusCompleted && !force {
		return domain.ErrForceRequired
	}

	// Result rows go with the prescription via FK cascade. Deleting a
	// queued prescription is how a pending attempt is canceled.
	if err := s.presRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.broadcast(port.EventDeleted, id, p.ProcessingStatus)
	return nil
}

func (s *prescriptionService) ApplyFieldCorrections(ctx context.Context, id uuid.UUID, fieldUpdates map[string]string) (*PrescriptionDetail, error) {
	p, err := s.presRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fieldUpdates) == 0 {
		return nil, domain.ErrNoFieldUpdates
	}

	for fieldKey, value := range fieldUpdates {
		rows, err := s.resultRepo.UpdateValueByFieldKey(ctx, id, fieldKey, value)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			log.Printf("prescriptionService.ApplyFieldCorrections: no rows for %s on %s", fieldKey, id)
		}
	}

	if err := s.rebuildCache(ctx, id); err != nil {
		return nil, err
	}
	s.broadcast(port.EventUpdated, id, p.ProcessingStatus)
	return s.detail(ctx, p)
}
