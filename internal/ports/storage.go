package ports

import (
	"context"

	"github.com/alejandrodnm/bizbots/internal/domain"
)

// FleetStorage persiste los bots desplegados y el ledger de revenue.
type FleetStorage interface {
	// SaveBot registra un bot desplegado. La credencial nunca se persiste.
	SaveBot(ctx context.Context, bot domain.Bot) error

	// SaveRevenueEvent añade una contribución aceptada al ledger.
	SaveRevenueEvent(ctx context.Context, ev domain.RevenueEvent) error

	// GetRevenueStats agrega el ledger completo, con desglose por país.
	GetRevenueStats(ctx context.Context) (domain.RevenueStats, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}

// DiscoveryStorage guarda las APIs descubiertas entre ejecuciones.
type DiscoveryStorage interface {
	SaveDiscovered(ctx context.Context, apis []domain.FreeAPI) error
	GetDiscovered(ctx context.Context) ([]domain.FreeAPI, error)
}
