package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/bizbots/internal/domain"
)

const defaultInterval = 60 * time.Second

// ErrBotNotFound se devuelve si SetActive recibe un ID desconocido.
var ErrBotNotFound = errors.New("monitor: bot not found")

// Monitor revisa periódicamente el flag Active de los bots que vigila.
type Monitor struct {
	mu       sync.Mutex
	bots     []domain.Bot
	interval time.Duration
	logger   *slog.Logger
}

// New crea un Monitor. interval <= 0 usa 60s; logger nil usa slog.Default().
func New(interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{interval: interval, logger: logger}
}

// Add añade un bot al final de la colección.
func (m *Monitor) Add(bot domain.Bot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bots = append(m.bots, bot)
}

// Bots devuelve una copia de los bots vigilados, en orden de alta.
func (m *Monitor) Bots() []domain.Bot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Bot, len(m.bots))
	copy(out, m.bots)
	return out
}

// SetActive actualiza el flag de actividad de un bot.
func (m *Monitor) SetActive(id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bots {
		if m.bots[i].ID == id {
			m.bots[i].Active = active
			return nil
		}
	}
	return ErrBotNotFound
}

// Check revisa todos los bots una vez, emite un warning por cada bot
// inactivo y los devuelve.
func (m *Monitor) Check() []domain.Bot {
	var inactive []domain.Bot
	for _, bot := range m.Bots() {
		if bot.Active {
			continue
		}
		m.logger.Warn("bot is inactive", "bot_id", bot.ID, "country", bot.Country)
		inactive = append(inactive, bot)
	}
	return inactive
}

// Run revisa de inmediato y luego en cada tick hasta que ctx se cancele.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor starting", "bots", len(m.Bots()), "interval", m.interval)

	m.Check()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopped")
			return nil
		case <-ticker.C:
			m.Check()
		}
	}
}
