package fleet

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/alejandrodnm/bizbots/internal/domain"
	"github.com/alejandrodnm/bizbots/internal/ports"
	"github.com/alejandrodnm/bizbots/internal/revenue"
	"github.com/google/uuid"
)

const (
	defaultRevenueMin = 10.0
	defaultRevenueMax = 100.0
)

// DefaultCountries es la lista de países de ejemplo.
var DefaultCountries = []string{"United States", "Germany", "India", "United Kingdom", "Canada"}

// Config controla el rango de la tarea simulada.
type Config struct {
	RevenueMin float64 // inclusivo
	RevenueMax float64 // exclusivo
}

// DefaultConfig devuelve el rango [10, 100).
func DefaultConfig() Config {
	return Config{RevenueMin: defaultRevenueMin, RevenueMax: defaultRevenueMax}
}

// Deployer despliega bots por país y ejecuta su tarea simulada.
type Deployer struct {
	cfg     Config
	creds   ports.CredentialSource
	tracker *revenue.Tracker
	store   ports.FleetStorage // opcional
	rng     *rand.Rand
	logger  *slog.Logger
}

// Option configura un Deployer.
type Option func(*Deployer)

// WithStorage persiste bots y eventos de revenue.
func WithStorage(store ports.FleetStorage) Option {
	return func(d *Deployer) { d.store = store }
}

// WithRand fija el generador (tests deterministas).
func WithRand(r *rand.Rand) Option {
	return func(d *Deployer) { d.rng = r }
}

// WithLogger fija el logger del deployer.
func WithLogger(l *slog.Logger) Option {
	return func(d *Deployer) { d.logger = l }
}

// New crea un Deployer. Un rango inválido (max <= min) cae al rango por defecto.
func New(cfg Config, creds ports.CredentialSource, tracker *revenue.Tracker, opts ...Option) *Deployer {
	if cfg.RevenueMax <= cfg.RevenueMin {
		cfg = DefaultConfig()
	}
	d := &Deployer{
		cfg:     cfg,
		creds:   creds,
		tracker: tracker,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Deploy crea el bot de un país y ejecuta inmediatamente una tarea simulada.
// Los fallos del storage se loguean y no interrumpen el despliegue: el único
// error posible es la cancelación de ctx antes de empezar.
func (d *Deployer) Deploy(ctx context.Context, country string) (domain.Deployment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Deployment{}, fmt.Errorf("fleet.Deploy: %s: %w", country, err)
	}

	apiKey, _ := d.creds.Lookup(country)
	bot := domain.NewBot(country, apiKey)

	if d.store != nil {
		if err := d.store.SaveBot(ctx, bot); err != nil {
			d.logger.Warn("failed to persist bot", "bot_id", bot.ID, "country", country, "err", err)
		}
	}

	return d.performTask(ctx, bot), nil
}

// DeployAll despliega los países en orden, secuencialmente. Si ctx se cancela
// devuelve los despliegues completados hasta ese momento.
func (d *Deployer) DeployAll(ctx context.Context, countries []string) ([]domain.Deployment, error) {
	deps := make([]domain.Deployment, 0, len(countries))
	for _, country := range countries {
		dep, err := d.Deploy(ctx, country)
		if err != nil {
			return deps, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// performTask sortea un revenue uniforme en [min, max) y lo envía al tracker.
func (d *Deployer) performTask(ctx context.Context, bot domain.Bot) domain.Deployment {
	amount := d.cfg.RevenueMin + d.rng.Float64()*(d.cfg.RevenueMax-d.cfg.RevenueMin)
	if amount >= d.cfg.RevenueMax {
		amount = math.Nextafter(d.cfg.RevenueMax, d.cfg.RevenueMin)
	}

	tracked := d.tracker.Track(amount)
	total := d.tracker.Total()

	d.logger.Info("bot performed tasks",
		"bot_id", bot.ID,
		"country", bot.Country,
		"revenue", amount,
		"has_api_key", bot.HasAPIKey(),
	)

	dep := domain.Deployment{Bot: bot, Revenue: amount, Tracked: tracked, Total: total}
	if !tracked || d.store == nil {
		return dep
	}

	ev := domain.RevenueEvent{
		ID:      uuid.New().String(),
		BotID:   bot.ID,
		Country: bot.Country,
		Amount:  amount,
		Total:   total,
		At:      time.Now().UTC(),
	}
	if err := d.store.SaveRevenueEvent(ctx, ev); err != nil {
		d.logger.Warn("failed to persist revenue event",
			"bot_id", bot.ID, "event_id", ev.ID, "amount", amount, "err", err)
	}
	return dep
}
