package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/alejandrodnm/bizbots/internal/discovery"
	"github.com/alejandrodnm/bizbots/internal/fleet"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de bizbots.
type Config struct {
	Fleet     FleetConfig     `yaml:"fleet"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// FleetConfig controla qué bots se despliegan y el rango de la tarea simulada.
type FleetConfig struct {
	Countries  []string `yaml:"countries"`
	RevenueMin float64  `yaml:"revenue_min"` // inclusivo
	RevenueMax float64  `yaml:"revenue_max"` // exclusivo
}

// MonitorConfig controla el loop de monitorización.
type MonitorConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// DiscoveryConfig controla el cliente del directorio de APIs públicas.
type DiscoveryConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	Limit          int     `yaml:"limit"`
	RatePerSec     float64 `yaml:"rate_per_sec"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Si el YAML no existe se usan los valores por defecto.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// MonitorInterval devuelve el intervalo del monitor como time.Duration.
func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalSeconds) * time.Second
}

// DiscoveryTimeout devuelve el timeout del cliente de discovery.
func (c *Config) DiscoveryTimeout() time.Duration {
	return time.Duration(c.Discovery.TimeoutSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("BIZBOTS_DB"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if len(cfg.Fleet.Countries) == 0 {
		cfg.Fleet.Countries = append([]string(nil), fleet.DefaultCountries...)
	}
	if cfg.Fleet.RevenueMax <= cfg.Fleet.RevenueMin {
		def := fleet.DefaultConfig()
		cfg.Fleet.RevenueMin = def.RevenueMin
		cfg.Fleet.RevenueMax = def.RevenueMax
	}
	if cfg.Monitor.IntervalSeconds <= 0 {
		cfg.Monitor.IntervalSeconds = 60
	}
	if cfg.Discovery.BaseURL == "" {
		cfg.Discovery.BaseURL = "https://api.publicapis.org"
	}
	if cfg.Discovery.TimeoutSeconds <= 0 {
		cfg.Discovery.TimeoutSeconds = 10
	}
	if cfg.Discovery.Limit <= 0 {
		cfg.Discovery.Limit = discovery.DefaultLimit
	}
	if cfg.Discovery.RatePerSec <= 0 {
		cfg.Discovery.RatePerSec = 1
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "bizbots.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
