package service

import (
	"sync"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

// NotificationService holds the push notification configuration. Delivery
// happens elsewhere; this only validates and echoes.
type NotificationService struct {
	mu     sync.RWMutex
	config domain.NotificationConfig
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		config: domain.NotificationConfig{Topics: []string{}},
	}
}

func (s *NotificationService) Configure(cfg domain.NotificationConfig) domain.NotificationConfig {
	if cfg.Topics == nil {
		cfg.Topics = []string{}
	}

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()

	return s.Config()
}

func (s *NotificationService) Config() domain.NotificationConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.config
	out.Topics = append([]string{}, s.config.Topics...)
	return out
}
