package domain

import "time"

// RevenueEvent registra una contribución aceptada por el tracker.
type RevenueEvent struct {
	ID      string
	BotID   string
	Country string
	Amount  float64
	Total   float64 // total acumulado después de sumar Amount
	At      time.Time
}

// CountryRevenue es el agregado de revenue de un país.
type CountryRevenue struct {
	Country string
	Bots    int
	Events  int
	Revenue float64
}

// RevenueStats es el resumen persistido de todas las ejecuciones.
type RevenueStats struct {
	TotalBots    int
	TotalEvents  int
	TotalRevenue float64
	AvgRevenue   float64
	FirstEvent   time.Time
	LastEvent    time.Time
	ByCountry    []CountryRevenue // ordenado por revenue desc
}
