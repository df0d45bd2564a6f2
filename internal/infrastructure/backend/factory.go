package backend

import (
	"fmt"
	"time"

	"photo-inspect/internal/domain/port"
)

// Family — семейство бэкенда. Выбирается явной конфигурацией,
// а не по подстроке в идентификаторе модели.
type Family string

const (
	// FamilyConversational — разговорная мультимодальная модель.
	FamilyConversational Family = "conversational"
	// FamilyVision — лёгкая модель, заточенная под зрение.
	FamilyVision Family = "vision"
)

// ClientConfig — параметры подключения к одному бэкенду.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// New создаёт клиент заданного семейства.
func New(family Family, cfg ClientConfig) (port.VisionBackend, error) {
	switch family {
	case FamilyConversational:
		return NewAnthropic(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	case FamilyVision:
		return NewNova(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown backend family: %q", family)
	}
}
