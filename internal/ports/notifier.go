package ports

import (
	"context"

	"github.com/alejandrodnm/bizbots/internal/domain"
)

// Notifier presenta los resultados al usuario.
type Notifier interface {
	// NotifyDeployments muestra los bots desplegados y el total acumulado.
	NotifyDeployments(ctx context.Context, deployments []domain.Deployment, total float64) error
}
