package domain

// APIEntry es una entrada del directorio público de APIs. Es de solo lectura:
// el sistema no la posee ni la modifica.
type APIEntry struct {
	Name        string
	Description string
	Link        string
	Category    string
	Auth        string // "" si no requiere autenticación
	HTTPS       bool
}

// FreeAPI es la proyección de cuatro campos de una entrada que califica.
type FreeAPI struct {
	Name        string
	Description string
	Link        string
	Category    string
}

// Qualifies devuelve true si la entrada no requiere auth y soporta HTTPS.
func (e APIEntry) Qualifies() bool {
	return e.Auth == "" && e.HTTPS
}

// Project reduce la entrada a los cuatro campos que expone discovery.
func (e APIEntry) Project() FreeAPI {
	return FreeAPI{
		Name:        e.Name,
		Description: e.Description,
		Link:        e.Link,
		Category:    e.Category,
	}
}
