package domain

import (
	"time"

	"github.com/google/uuid"
)

// Valores fijos con los que se despliega cada bot.
const (
	DefaultLanguage = "en"
	DefaultCategory = "e-commerce"
	DefaultStrategy = "affiliate_marketing"
)

// Bot es un actor simulado por país. No ejecuta ninguna acción externa real.
type Bot struct {
	ID       string
	Country  string
	Language string
	Category string
	Strategy string
	// APIKey es opcional: vacío si la variable <PAIS>_API_KEY no existe.
	APIKey string
	// Active lo consulta el monitor. Un bot recién desplegado está activo.
	Active     bool
	DeployedAt time.Time
}

// NewBot crea un bot con un ID nuevo y los metadatos fijos.
func NewBot(country, apiKey string) Bot {
	return Bot{
		ID:         uuid.New().String(),
		Country:    country,
		Language:   DefaultLanguage,
		Category:   DefaultCategory,
		Strategy:   DefaultStrategy,
		APIKey:     apiKey,
		Active:     true,
		DeployedAt: time.Now().UTC(),
	}
}

// HasAPIKey devuelve true si el bot tiene credencial asignada.
func (b Bot) HasAPIKey() bool {
	return b.APIKey != ""
}

// Deployment es el resultado de desplegar un bot y ejecutar su tarea simulada.
type Deployment struct {
	Bot     Bot
	Revenue float64 // valor sorteado por la tarea
	Tracked bool    // false si el tracker lo descartó (<= 0)
	Total   float64 // total acumulado tras esta tarea
}
