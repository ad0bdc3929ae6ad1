package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
)

// backlogProcessor matches SuggestionService.ProcessBacklog.
type backlogProcessor interface {
	ProcessBacklog(ctx context.Context) ([]domain.SuggestionResult, error)
}

type alertSender interface {
	Post(ctx context.Context, url string, payload any) error
}

const defaultIntervalMinutes = 2

// Scheduler periodically retries suggestion generation for messages that
// were ingested while the model was unavailable.
type Scheduler struct {
	processor       backlogProcessor
	alerts          alertSender
	interval        time.Duration
	alertWebhook    string
	alertThreshold  int // consecutive all-fail runs before alerting
	lastAlertSentAt time.Time

	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
	mu       sync.RWMutex

	lastRunAt            time.Time
	suggestionsGenerated int64
	runsCount            int64

	consecutiveAllFailCount int
}

func NewScheduler(processor backlogProcessor, alerts alertSender, interval time.Duration) *Scheduler {
	return &Scheduler{
		processor: processor,
		alerts:    alerts,
		interval:  interval,
	}
}

func (s *Scheduler) StartWithParams(
	ctx context.Context,
	intervalMinutes int,
	alertWebhook string,
	alertThreshold int,
) error {
	if intervalMinutes <= 0 {
		intervalMinutes = defaultIntervalMinutes
	}

	s.mu.Lock()
	s.interval = time.Duration(intervalMinutes) * time.Minute
	s.alertWebhook = alertWebhook
	s.alertThreshold = alertThreshold
	s.consecutiveAllFailCount = 0
	s.mu.Unlock()

	return s.Start(ctx)
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.running {
		s.mu.Unlock()
		logger.Warnf("Scheduler is already running")
		return nil
	}

	if s.interval <= 0 {
		s.interval = defaultIntervalMinutes * time.Minute
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	interval := s.interval
	stopChan, doneChan := s.stopChan, s.doneChan
	s.mu.Unlock()

	logger.Infof("Starting suggestion scheduler with interval: %v", interval)

	go s.run(ctx, interval, stopChan, doneChan)

	return nil
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration, stopChan <-chan struct{}, doneChan chan<- struct{}) {
	defer close(doneChan)

	s.processBacklog(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Infof("Scheduler running. Next execution in %v", interval)

	for {
		select {
		case <-ticker.C:
			s.processBacklog(ctx)
			logger.Debugf("Next execution in %v", interval)

		case <-stopChan:
			logger.Warnf("Scheduler received stop signal")
			return

		case <-ctx.Done():
			logger.Warnf("Scheduler context cancelled")
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return
		}
	}
}

func (s *Scheduler) processBacklog(ctx context.Context) {
	s.mu.Lock()
	s.lastRunAt = time.Now()
	s.runsCount++
	runNumber := s.runsCount
	startedAt := s.lastRunAt
	alertWebhook := s.alertWebhook
	alertThreshold := s.alertThreshold
	s.mu.Unlock()

	logger.Infof("[Run #%d] Starting backlog processing at %s", runNumber, startedAt.Format(time.RFC3339))

	results, err := s.processor.ProcessBacklog(ctx)
	if err != nil {
		logger.Errorf("[Run #%d] Error processing backlog: %v", runNumber, err)
		return
	}

	if len(results) == 0 {
		logger.Debugf("[Run #%d] Backlog is empty", runNumber)
		return
	}

	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}

	s.mu.Lock()
	s.suggestionsGenerated += int64(successCount)

	if successCount == 0 {
		s.consecutiveAllFailCount++
		failures := s.consecutiveAllFailCount
		logger.Warnf("[Run #%d] All %d suggestions failed (consecutive count: %d/%d)",
			runNumber, len(results), failures, alertThreshold)

		if alertThreshold > 0 && failures >= alertThreshold && alertWebhook != "" && s.alerts != nil {
			go s.sendAlert(context.WithoutCancel(ctx), alertWebhook, runNumber, failures, len(results))
		}
	} else {
		if s.consecutiveAllFailCount > 0 {
			logger.Debugf("[Run #%d] Resetting consecutive failure count (was: %d)",
				runNumber, s.consecutiveAllFailCount)
		}
		s.consecutiveAllFailCount = 0
	}
	s.mu.Unlock()

	logger.Infof("[Run #%d] Processed %d messages, %d suggestions generated, %d failed",
		runNumber, len(results), successCount, len(results)-successCount)
}

func (s *Scheduler) Stop() error {
	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()
		logger.Warnf("Scheduler is not running")
		return nil
	}

	s.running = false
	stopChan := s.stopChan
	doneChan := s.doneChan
	s.mu.Unlock()

	close(stopChan)
	<-doneChan

	logger.Infof("Scheduler stopped")
	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Scheduler) GetStatus() SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SchedulerStatus{
		Running:                 s.running,
		LastRunAt:               s.lastRunAt,
		SuggestionsGenerated:    s.suggestionsGenerated,
		RunsCount:               s.runsCount,
		Interval:                s.interval.String(),
		ConsecutiveAllFailCount: s.consecutiveAllFailCount,
		LastAlertSentAt:         s.lastAlertSentAt,
	}

	if s.running && !s.lastRunAt.IsZero() {
		status.NextRunAt = s.lastRunAt.Add(s.interval)
	}

	return status
}

func (s *Scheduler) sendAlert(ctx context.Context, webhookURL string, runNumber int64, consecutiveFailures, batchSize int) {
	payload := map[string]any{
		"alert":               "suggestion_backlog_failing",
		"runNumber":           runNumber,
		"consecutiveFailures": consecutiveFailures,
		"messagesInBatch":     batchSize,
		"timestamp":           time.Now().Format(time.RFC3339),
		"message": fmt.Sprintf(
			"All %d suggestions failed for %d consecutive runs",
			batchSize,
			consecutiveFailures,
		),
	}

	if err := s.alerts.Post(ctx, webhookURL, payload); err != nil {
		logger.Errorf("Failed to send alert to webhook: %v", err)
		return
	}

	s.mu.Lock()
	s.lastAlertSentAt = time.Now()
	s.mu.Unlock()
	logger.Infof("Alert sent to %s (consecutive failures: %d)", webhookURL, consecutiveFailures)
}

type SchedulerStatus struct {
	Running                 bool      `json:"running"`
	LastRunAt               time.Time `json:"lastRunAt,omitempty"`
	NextRunAt               time.Time `json:"nextRunAt,omitempty"`
	SuggestionsGenerated    int64     `json:"suggestionsGenerated"`
	RunsCount               int64     `json:"runsCount"`
	Interval                string    `json:"interval"`
	ConsecutiveAllFailCount int       `json:"consecutiveAllFailCount"`
	LastAlertSentAt         time.Time `json:"lastAlertSentAt,omitempty"`
}
