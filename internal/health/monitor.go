package health

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"rxlens/internal/port"
)

// Sample is one periodic database health reading.
type Sample struct {
	port.DBStats
	CollectedAt time.Time `json:"collectedAt"`
}

// Report is the current monitor state served by the health endpoint.
type Report struct {
	Healthy       bool      `json:"healthy"`
	LastError     string    `json:"lastError,omitempty"`
	Latest        *Sample   `json:"latest,omitempty"`
	History       []Sample  `json:"history"`
	UptimeSeconds float64   `json:"uptimeSeconds"`
	StartedAt     time.Time `json:"startedAt"`
}

// Monitor periodically samples database health counters and keeps a bounded
// in-memory history. A drop in row counts between consecutive samples is
// logged as potential data loss.
type Monitor struct {
	repo        port.HealthRepository
	interval    time.Duration
	historySize int

	cron      *cron.Cron
	startedAt time.Time

	mu        sync.RWMutex
	history   []Sample
	lastError string
}

// NewMonitor creates a Monitor sampling every interval, keeping historySize
// samples.
func NewMonitor(repo port.HealthRepository, interval time.Duration, historySize int) *Monitor {
	if historySize <= 0 {
		historySize = 1
	}
	return &Monitor{
		repo:        repo,
		interval:    interval,
		historySize: historySize,
	}
}

// Start schedules the periodic sampling until ctx is canceled. The first
// sample is taken immediately.
func (m *Monitor) Start(ctx context.Context) error {
	m.startedAt = time.Now().UTC()
	m.Collect(ctx)

	m.cron = cron.New()
	spec := fmt.Sprintf("@every %s", m.interval)
	if _, err := m.cron.AddFunc(spec, func() {
		collectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		m.Collect(collectCtx)
	}); err != nil {
		return fmt.Errorf("health.Monitor: scheduling %q: %w", spec, err)
	}
	m.cron.Start()
	log.Printf("health.Monitor: started (interval=%s, history=%d)", m.interval, m.historySize)

	go func() {
		<-ctx.Done()
		stopCtx := m.cron.Stop()
		<-stopCtx.Done()
		log.Printf("health.Monitor: stopped")
	}()
	return nil
}

// Collect takes one sample now.
func (m *Monitor) Collect(ctx context.Context) {
	stats, err := m.repo.Stats(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.lastError = err.Error()
		log.Printf("health.Monitor: collecting stats: %v", err)
		return
	}
	m.lastError = ""

	sample := Sample{DBStats: *stats, CollectedAt: time.Now().UTC()}
	if n := len(m.history); n > 0 {
		prev := m.history[n-1]
		if sample.PrescriptionCount < prev.PrescriptionCount || sample.ResultCount < prev.ResultCount {
			log.Printf("health.Monitor: WARNING row counts dropped (prescriptions %d->%d, results %d->%d), possible data loss",
				prev.PrescriptionCount, sample.PrescriptionCount, prev.ResultCount, sample.ResultCount)
		}
	}

	m.history = append(m.history, sample)
	if len(m.history) > m.historySize {
		m.history = m.history[len(m.history)-m.historySize:]
	}
	log.Printf("health.Monitor: prescriptions=%d results=%d configs=%d size=%s connections=%d",
		sample.PrescriptionCount, sample.ResultCount, sample.ConfigCount,
		sample.DatabaseSize, sample.TotalConnections)
}

// Report returns a snapshot of the monitor state.
func (m *Monitor) Report() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report := Report{
		Healthy:       m.lastError == "",
		LastError:     m.lastError,
		History:       append([]Sample(nil), m.history...),
		StartedAt:     m.startedAt,
		UptimeSeconds: time.Since(m.startedAt).Seconds(),
	}
	if n := len(report.History); n > 0 {
		latest := report.History[n-1]
		report.Latest = &latest
	}
	return report
}
