package revenue

import (
	"log/slog"
	"sync"
)

// Tracker acumula el revenue simulado de todos los bots.
// El total solo crece: nunca se decrementa ni se resetea.
type Tracker struct {
	mu     sync.Mutex
	total  float64
	count  int
	logger *slog.Logger
}

// NewTracker crea un Tracker con total 0. Si logger es nil usa slog.Default().
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{logger: logger}
}

// Track suma amount al total si es estrictamente positivo y devuelve true.
// Los valores <= 0 se descartan sin log.
func (t *Tracker) Track(amount float64) bool {
	if !(amount > 0) {
		return false
	}

	t.mu.Lock()
	t.total += amount
	t.count++
	total := t.total
	t.mu.Unlock()

	t.logger.Info("revenue tracked", "amount", amount, "total", total)
	return true
}

// Total devuelve el total acumulado.
func (t *Tracker) Total() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Count devuelve cuántas contribuciones se aceptaron.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
