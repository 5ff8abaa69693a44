package extractor

import (
	"context"
	"log"
	"sync"

	"rxlens/internal/port"
)

// Orchestrator fans one image out to a set of model extractors concurrently
// and collects whatever succeeded. It never fails fast: every provider call
// settles (success or failure) before Run returns, failures are logged and
// dropped, and partial success is success. The caller decides what zero
// successes means.
type Orchestrator struct {
	extractors map[string]port.ModelExtractor
}

// NewOrchestrator creates an Orchestrator over the given extractors, keyed
// by their provider names.
func NewOrchestrator(extractors ...port.ModelExtractor) *Orchestrator {
	byName := make(map[string]port.ModelExtractor, len(extractors))
	for _, e := range extractors {
		byName[e.Name()] = e
	}
	return &Orchestrator{extractors: byName}
}

// Has reports whether the orchestrator has an extractor for name.
func (o *Orchestrator) Has(name string) bool {
	_, ok := o.extractors[name]
	return ok
}

// Run dispatches input to every selected extractor concurrently and returns
// the successful outputs in completion order. Unknown model keys are logged
// and skipped.
func (o *Orchestrator) Run(ctx context.Context, input port.ExtractInput, models []string) []*port.ExtractOutput {
	type settled struct {
		output *port.ExtractOutput
		err    error
		model  string
	}

	selected := make([]port.ModelExtractor, 0, len(models))
	for _, name := range models {
		e, ok := o.extractors[name]
		if !ok {
			log.Printf("extractor.Orchestrator: unknown model %q, skipping", name)
			continue
		}
		selected = append(selected, e)
	}
	if len(selected) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	results := make(chan settled, len(selected))
	for _, e := range selected {
		wg.Add(1)
		go func(e port.ModelExtractor) {
			defer wg.Done()
			out, err := e.Extract(ctx, input)
			results <- settled{output: out, err: err, model: e.Name()}
		}(e)
	}
	wg.Wait()
	close(results)

	successes := make([]*port.ExtractOutput, 0, len(selected))
	for r := range results {
		if r.err != nil {
			log.Printf("extractor.Orchestrator: %s failed: %v", r.model, r.err)
			continue
		}
		successes = append(successes, r.output)
	}
	return successes
}
