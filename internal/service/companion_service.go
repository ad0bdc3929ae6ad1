package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
)

const defaultCompanionDelayMillis = 1000

type replyGenerator interface {
	Reply(ctx context.Context, personality domain.Personality, message string) (string, error)
}

// CompanionService is the process-wide companion toggle.
type CompanionService struct {
	generator replyGenerator

	mu          sync.RWMutex
	active      bool
	personality domain.Personality
	delayMillis int
}

func NewCompanionService(generator replyGenerator) *CompanionService {
	return &CompanionService{
		generator:   generator,
		personality: domain.PersonalityFriendly,
		delayMillis: defaultCompanionDelayMillis,
	}
}

func (s *CompanionService) Activate() domain.CompanionStatus {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	logger.Infof("Companion activated")
	return s.Status()
}

func (s *CompanionService) Deactivate() domain.CompanionStatus {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()

	logger.Infof("Companion deactivated")
	return s.Status()
}

func (s *CompanionService) SetPersonality(p string) (domain.CompanionStatus, error) {
	if !domain.IsPersonality(p) {
		return domain.CompanionStatus{}, fmt.Errorf("%w: unknown personality %q", domain.ErrInvalidInput, p)
	}

	s.mu.Lock()
	s.personality = domain.Personality(p)
	s.mu.Unlock()

	return s.Status(), nil
}

func (s *CompanionService) SetDelay(millis int) (domain.CompanionStatus, error) {
	if millis < 0 {
		return domain.CompanionStatus{}, fmt.Errorf("%w: delay must be a non-negative number of milliseconds", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	s.delayMillis = millis
	s.mu.Unlock()

	return s.Status(), nil
}

// ProcessMessage replies only while active, after waiting the configured
// delay. A cancelled context aborts the wait.
func (s *CompanionService) ProcessMessage(ctx context.Context, message string) (domain.CompanionReply, error) {
	s.mu.RLock()
	active, personality, delay := s.active, s.personality, s.delayMillis
	s.mu.RUnlock()

	reply := domain.CompanionReply{Personality: personality, DelayMillis: delay}
	if !active {
		return reply, nil
	}
	if strings.TrimSpace(message) == "" {
		return reply, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	if delay > 0 {
		timer := time.NewTimer(time.Duration(delay) * time.Millisecond)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return reply, ctx.Err()
		}
	}

	text, err := s.generator.Reply(ctx, personality, message)
	if err != nil {
		return reply, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	reply.Responded = true
	reply.Response = text
	return reply, nil
}

func (s *CompanionService) Status() domain.CompanionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	personalities := make([]domain.Personality, len(domain.Personalities))
	copy(personalities, domain.Personalities)

	return domain.CompanionStatus{
		Active:        s.active,
		Personality:   s.personality,
		DelayMillis:   s.delayMillis,
		Personalities: personalities,
	}
}

// ParseDelay accepts a JSON number or numeric string and rejects negative,
// fractional and non-numeric values.
func ParseDelay(v any) (int, error) {
	invalid := fmt.Errorf("%w: delay must be a non-negative integer number of milliseconds", domain.ErrInvalidInput)

	switch t := v.(type) {
	case float64:
		if t < 0 || t != math.Trunc(t) || t > math.MaxInt32 {
			return 0, invalid
		}
		return int(t), nil
	case int:
		if t < 0 || t > math.MaxInt32 {
			return 0, invalid
		}
		return t, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil || n < 0 || n > math.MaxInt32 {
			return 0, invalid
		}
		return n, nil
	default:
		return 0, invalid
	}
}
