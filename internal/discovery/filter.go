package discovery

import "github.com/alejandrodnm/bizbots/internal/domain"

// FilterFree devuelve, en el orden de la fuente, como máximo limit entradas
// sin autenticación y con HTTPS, proyectadas a cuatro campos.
func FilterFree(entries []domain.APIEntry, limit int) []domain.FreeAPI {
	if limit <= 0 {
		return []domain.FreeAPI{}
	}
	result := make([]domain.FreeAPI, 0, min(limit, len(entries)))
	for _, e := range entries {
		if len(result) >= limit {
			break
		}
		if e.Qualifies() {
			result = append(result, e.Project())
		}
	}
	return result
}
