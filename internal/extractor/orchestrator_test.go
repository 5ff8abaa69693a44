package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxlens/internal/domain"
	"rxlens/internal/port"
)

type stubExtractor struct {
	name string
	out  *port.ExtractOutput
	err  error
}

func (s *stubExtractor) Name() string { return s.name }

func (s *stubExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func stubOutput(model, patientName string) *port.ExtractOutput {
	return &port.ExtractOutput{
		Record:     &domain.PrescriptionRecord{PatientDetails: domain.PatientDetails{PatientName: patientName}},
		ModelName:  model,
		Confidence: 0.9,
	}
}

func TestOrchestratorRunAllSucceed(t *testing.T) {
	o := NewOrchestrator(
		&stubExtractor{name: "openai", out: stubOutput("openai", "John Doe")},
		&stubExtractor{name: "claude", out: stubOutput("claude", "John Doe")},
	)

	outputs := o.Run(context.Background(), port.ExtractInput{}, []string{"openai", "claude"})
	require.Len(t, outputs, 2)

	models := map[string]bool{}
	for _, out := range outputs {
		models[out.ModelName] = true
	}
	assert.True(t, models["openai"])
	assert.True(t, models["claude"])
}

func TestOrchestratorRunPartialFailure(t *testing.T) {
	o := NewOrchestrator(
		&stubExtractor{name: "openai", out: stubOutput("openai", "John Doe")},
		&stubExtractor{name: "claude", err: errors.New("rate limited")},
		&stubExtractor{name: "gemini", out: stubOutput("gemini", "John Doe")},
	)

	outputs := o.Run(context.Background(), port.ExtractInput{}, []string{"openai", "claude", "gemini"})
	require.Len(t, outputs, 2)
	for _, out := range outputs {
		assert.NotEqual(t, "claude", out.ModelName)
	}
}

func TestOrchestratorRunAllFail(t *testing.T) {
	o := NewOrchestrator(
		&stubExtractor{name: "openai", err: errors.New("boom")},
		&stubExtractor{name: "claude", err: errors.New("boom")},
	)

	outputs := o.Run(context.Background(), port.ExtractInput{}, []string{"openai", "claude"})
	assert.Empty(t, outputs)
}

func TestOrchestratorRunSkipsUnknownModels(t *testing.T) {
	o := NewOrchestrator(
		&stubExtractor{name: "openai", out: stubOutput("openai", "John Doe")},
	)

	outputs := o.Run(context.Background(), port.ExtractInput{}, []string{"openai", "llama"})
	require.Len(t, outputs, 1)
	assert.Equal(t, "openai", outputs[0].ModelName)
}

func TestOrchestratorHas(t *testing.T) {
	o := NewOrchestrator(&stubExtractor{name: "gemini"})

	assert.True(t, o.Has("gemini"))
	assert.False(t, o.Has("openai"))
}
