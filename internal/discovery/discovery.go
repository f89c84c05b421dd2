package discovery

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/bizbots/internal/domain"
	"github.com/alejandrodnm/bizbots/internal/ports"
)

// DefaultLimit es el número de APIs devuelto si no se indica otro.
const DefaultLimit = 10

// Service descubre APIs gratuitas (sin auth, con HTTPS) del directorio público.
type Service struct {
	dir    ports.APIDirectory
	store  ports.DiscoveryStorage // opcional
	logger *slog.Logger
}

// New crea un Service. store puede ser nil; logger nil usa slog.Default().
func New(dir ports.APIDirectory, store ports.DiscoveryStorage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{dir: dir, store: store, logger: logger}
}

// Discover nunca propaga errores: cualquier fallo se loguea y devuelve una
// lista vacía.
func (s *Service) Discover(ctx context.Context, limit int) []domain.FreeAPI {
	entries, err := s.dir.FetchEntries(ctx)
	if err != nil {
		s.logger.Warn("API discovery failed", "err", err)
		return []domain.FreeAPI{}
	}

	apis := FilterFree(entries, limit)
	s.logger.Info("API discovery complete",
		"entries", len(entries),
		"free", len(apis),
		"limit", limit,
	)

	if s.store != nil && len(apis) > 0 {
		if err := s.store.SaveDiscovered(ctx, apis); err != nil {
			s.logger.Warn("failed to persist discovered APIs", "err", err)
		}
	}
	return apis
}
