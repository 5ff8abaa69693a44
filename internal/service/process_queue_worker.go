package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"rxlens/internal/domain"
	"rxlens/internal/port"
)

// ProcessQueueConfig holds settings for the processing queue worker.
type ProcessQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// ProcessQueueWorker polls for requeued prescriptions (retry and reprocess
// mark them) and dispatches extraction attempts with bounded concurrency.
// Directly queued uploads are untouched; those wait for an explicit process
// request.
type ProcessQueueWorker struct {
	presRepo    port.PrescriptionRepository
	presService PrescriptionService
	cfg         ProcessQueueConfig
	wg          sync.WaitGroup
}

// NewProcessQueueWorker creates a new ProcessQueueWorker.
func NewProcessQueueWorker(presRepo port.PrescriptionRepository, presService PrescriptionService, cfg ProcessQueueConfig) *ProcessQueueWorker {
	return &ProcessQueueWorker{
		presRepo:    presRepo,
		presService: presService,
		cfg:         cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extraction goroutines have finished.
func (w *ProcessQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("processQueueWorker: started (poll=%s, concurrency=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("processQueueWorker: shutting down, waiting for in-flight extractions...")
			w.wg.Wait()
			log.Printf("processQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			prescriptions, err := w.presRepo.ClaimRequeued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("processQueueWorker: ClaimRequeued error: %v", err)
				continue
			}

			for i := range prescriptions {
				p := prescriptions[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Fresh context independent of the poll context so
					// in-flight extractions complete during shutdown.
					extractCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("processQueueWorker: dispatching prescription %s", p.ID)
					w.dispatch(extractCtx, p)
				}()
			}
		}
	}
}

// dispatch runs one claimed extraction attempt. The claim already moved the
// prescription to processing, so the attempt runs over the stored image with
// the default model/prompt selection.
func (w *ProcessQueueWorker) dispatch(ctx context.Context, p domain.Prescription) {
	_, err := w.presService.ProcessExisting(ctx, p.ID, ProcessInput{})
	switch {
	case err == nil:
		log.Printf("processQueueWorker: prescription %s completed", p.ID)
	case errors.Is(err, domain.ErrAllProvidersFailed):
		log.Printf("processQueueWorker: prescription %s failed, all providers errored", p.ID)
	default:
		log.Printf("processQueueWorker: prescription %s error: %v", p.ID, err)
		// The claim left the row in processing; park it as failed so retry
		// can pick it up.
		if statusErr := w.presRepo.UpdateStatus(ctx, p.ID, domain.StatusFailed, nil); statusErr != nil {
			log.Printf("processQueueWorker: marking %s failed: %v", p.ID, statusErr)
		}
	}
}
