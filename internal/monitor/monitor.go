// Package monitor periodically reports telemetry pipeline progress while a
// scenario runs.
package monitor

import (
	"log/slog"
	"sync"
	"time"
)

// Recorder is the part of the telemetry pipeline the monitor observes.
type Recorder interface {
	Pending() int
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Recorder Recorder
	Logger   *slog.Logger
}

// Service manages status monitoring
type Service struct {
	deps     Dependencies
	interval time.Duration

	mu        sync.RWMutex
	isRunning bool
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies, interval time.Duration) *Service {
	return &Service{
		deps:     deps,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Start launches the monitor goroutine. Starting a running service is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true

	go s.loop()
}

// Stop halts the monitor goroutine. Stopping a stopped service is a no-op.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
}

func (s *Service) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.deps.Logger.Debug("Telemetry pipeline status",
				"pending_samples", s.deps.Recorder.Pending(),
			)
		case <-s.stopChan:
			return
		}
	}
}
