package storage

import "context"

// PruneOld expone pruneOld a los tests del paquete storage_test.
func (s *SQLiteStorage) PruneOld(ctx context.Context) error {
	return s.pruneOld(ctx)
}
