package ports

import (
	"context"

	"github.com/alejandrodnm/bizbots/internal/domain"
)

// APIDirectory obtiene las entradas del directorio público de APIs.
type APIDirectory interface {
	// FetchEntries hace una única request y devuelve todas las entradas en
	// el orden de la fuente. Cualquier fallo se devuelve como error.
	FetchEntries(ctx context.Context) ([]domain.APIEntry, error)
}
