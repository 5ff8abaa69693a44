package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rxlens/internal/domain"
	"rxlens/internal/service"
	"rxlens/mocks"
)

func TestWorkerDispatchesClaimedPrescriptions(t *testing.T) {
	presRepo := new(mocks.MockPrescriptionRepo)
	presService := new(mocks.MockPrescriptionService)

	id := uuid.New()
	claimed := []domain.Prescription{{ID: id, ProcessingStatus: domain.StatusProcessing}}

	dispatched := make(chan struct{})
	presRepo.On("ClaimRequeued", mock.Anything, mock.Anything).Return(claimed, nil).Once()
	presRepo.On("ClaimRequeued", mock.Anything, mock.Anything).Return([]domain.Prescription{}, nil)
	presService.On("ProcessExisting", mock.Anything, id, service.ProcessInput{}).
		Run(func(mock.Arguments) { close(dispatched) }).
		Return(&service.PrescriptionDetail{}, nil)

	worker := service.NewProcessQueueWorker(presRepo, presService, service.ProcessQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  2,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never dispatched the claimed prescription")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}

	presService.AssertCalled(t, "ProcessExisting", mock.Anything, id, service.ProcessInput{})
}

func TestWorkerMarksFailureOnUnexpectedError(t *testing.T) {
	presRepo := new(mocks.MockPrescriptionRepo)
	presService := new(mocks.MockPrescriptionService)

	id := uuid.New()
	claimed := []domain.Prescription{{ID: id, ProcessingStatus: domain.StatusProcessing}}

	marked := make(chan struct{})
	presRepo.On("ClaimRequeued", mock.Anything, mock.Anything).Return(claimed, nil).Once()
	presRepo.On("ClaimRequeued", mock.Anything, mock.Anything).Return([]domain.Prescription{}, nil)
	presService.On("ProcessExisting", mock.Anything, id, service.ProcessInput{}).
		Return(nil, domain.ErrPrescriptionNotFound)
	presRepo.On("UpdateStatus", mock.Anything, id, domain.StatusFailed, (*time.Time)(nil)).
		Run(func(mock.Arguments) { close(marked) }).
		Return(nil)

	worker := service.NewProcessQueueWorker(presRepo, presService, service.ProcessQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case <-marked:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never parked the prescription as failed")
	}

	cancel()
	<-done
}
