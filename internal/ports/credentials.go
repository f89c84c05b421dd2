package ports

// CredentialSource resuelve la credencial opcional de un país.
type CredentialSource interface {
	// Lookup devuelve la credencial y si estaba definida. La ausencia no es un error.
	Lookup(country string) (string, bool)
}
