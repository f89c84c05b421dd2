package env

import (
	"os"
	"strings"

	"github.com/alejandrodnm/bizbots/internal/ports"
)

const apiKeySuffix = "_API_KEY"

// Credentials implementa ports.CredentialSource leyendo variables de entorno.
type Credentials struct {
	lookup func(string) (string, bool)
}

var _ ports.CredentialSource = (*Credentials)(nil)

// NewCredentials crea una fuente que lee del entorno del proceso.
func NewCredentials() *Credentials {
	return &Credentials{lookup: os.LookupEnv}
}

// KeyFor devuelve el nombre de la variable para un país: "Germany" → "GERMANY_API_KEY".
// Los espacios se conservan ("UNITED STATES_API_KEY").
func KeyFor(country string) string {
	return strings.ToUpper(country) + apiKeySuffix
}

// Lookup devuelve la credencial del país. Una variable vacía cuenta como ausente.
func (c *Credentials) Lookup(country string) (string, bool) {
	v, ok := c.lookup(KeyFor(country))
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
