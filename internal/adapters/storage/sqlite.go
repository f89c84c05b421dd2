package storage

// sqlite.go — ledger de la flota.
//
// Tablas:
//   - `bots`: una fila por bot desplegado. La credencial no se guarda, solo si existía.
//   - `revenue_events`: una fila por contribución aceptada por el tracker.
//   - `discovered_apis`: UNA fila por API (UPSERT por nombre) con first_seen/last_seen.
//   - Prune automático al arrancar: eventos > 90d, APIs no vistas en 30d.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/bizbots/internal/domain"
	"github.com/alejandrodnm/bizbots/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS bots (
    id          TEXT PRIMARY KEY,
    country     TEXT     NOT NULL,
    language    TEXT     NOT NULL,
    category    TEXT     NOT NULL,
    strategy    TEXT     NOT NULL,
    has_api_key INTEGER  NOT NULL DEFAULT 0,
    active      INTEGER  NOT NULL DEFAULT 1,
    deployed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS revenue_events (
    id      TEXT PRIMARY KEY,
    bot_id  TEXT     NOT NULL,
    country TEXT     NOT NULL,
    amount  REAL     NOT NULL,
    total   REAL     NOT NULL,
    at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS discovered_apis (
    name        TEXT PRIMARY KEY,
    description TEXT     NOT NULL DEFAULT '',
    link        TEXT     NOT NULL DEFAULT '',
    category    TEXT     NOT NULL DEFAULT '',
    first_seen  DATETIME NOT NULL,
    last_seen   DATETIME NOT NULL,
    times_seen  INTEGER  NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_bots_country  ON bots(country);
CREATE INDEX IF NOT EXISTS idx_rev_at        ON revenue_events(at DESC);
CREATE INDEX IF NOT EXISTS idx_rev_country   ON revenue_events(country);
CREATE INDEX IF NOT EXISTS idx_apis_last     ON discovered_apis(last_seen DESC);
`

const (
	retentionEvents = 90 * 24 * time.Hour
	retentionAPIs   = 30 * 24 * time.Hour
)

// SQLiteStorage implementa ports.FleetStorage y ports.DiscoveryStorage
// usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
	mu sync.Mutex // serializa upserts de discovery
}

var (
	_ ports.FleetStorage     = (*SQLiteStorage)(nil)
	_ ports.DiscoveryStorage = (*SQLiteStorage)(nil)
)

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada,
// aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.pruneOld(context.Background()); err != nil {
		slog.Warn("failed to prune old rows", "path", path, "err", err)
	}
	return s, nil
}

// SaveBot inserta el bot. Reinsertar el mismo ID actualiza su estado.
func (s *SQLiteStorage) SaveBot(ctx context.Context, bot domain.Bot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bots (id, country, language, category, strategy, has_api_key, active, deployed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			has_api_key = excluded.has_api_key,
			active      = excluded.active
	`,
		bot.ID, bot.Country, bot.Language, bot.Category, bot.Strategy,
		boolToInt(bot.HasAPIKey()), boolToInt(bot.Active), bot.DeployedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveBot: %s: %w", bot.ID, err)
	}
	return nil
}

// GetBots devuelve los bots desplegados, en orden de despliegue.
func (s *SQLiteStorage) GetBots(ctx context.Context) ([]domain.Bot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, country, language, category, strategy, active, deployed_at
		FROM bots
		ORDER BY deployed_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.GetBots: query: %w", err)
	}
	defer rows.Close()

	var bots []domain.Bot
	for rows.Next() {
		var b domain.Bot
		var active int
		var deployedAt string
		if err := rows.Scan(&b.ID, &b.Country, &b.Language, &b.Category, &b.Strategy, &active, &deployedAt); err != nil {
			return nil, fmt.Errorf("storage.GetBots: scan row: %w", err)
		}
		b.Active = active == 1
		b.DeployedAt = parseTime(deployedAt)
		bots = append(bots, b)
	}
	return bots, rows.Err()
}

// SaveRevenueEvent añade el evento al ledger.
func (s *SQLiteStorage) SaveRevenueEvent(ctx context.Context, ev domain.RevenueEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO revenue_events (id, bot_id, country, amount, total, at) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.BotID, ev.Country, ev.Amount, ev.Total, at.UTC(),
	); err != nil {
		return fmt.Errorf("storage.SaveRevenueEvent: %s: %w", ev.ID, err)
	}
	return nil
}

// GetRevenueStats agrega todo el ledger. ByCountry va ordenado por revenue desc.
func (s *SQLiteStorage) GetRevenueStats(ctx context.Context) (domain.RevenueStats, error) {
	var stats domain.RevenueStats

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bots`).Scan(&stats.TotalBots); err != nil {
		return stats, fmt.Errorf("storage.GetRevenueStats: count bots: %w", err)
	}

	var first, last sql.NullString
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0), MIN(at), MAX(at)
		FROM revenue_events
	`).Scan(&stats.TotalEvents, &stats.TotalRevenue, &first, &last); err != nil {
		return stats, fmt.Errorf("storage.GetRevenueStats: totals: %w", err)
	}
	if stats.TotalEvents > 0 {
		stats.AvgRevenue = stats.TotalRevenue / float64(stats.TotalEvents)
		stats.FirstEvent = parseTime(first.String)
		stats.LastEvent = parseTime(last.String)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.country,
		       COUNT(DISTINCT b.id),
		       COUNT(e.id),
		       COALESCE(SUM(e.amount), 0) AS revenue
		FROM bots b
		LEFT JOIN revenue_events e ON e.bot_id = b.id
		GROUP BY b.country
		ORDER BY revenue DESC, b.country
	`)
	if err != nil {
		return stats, fmt.Errorf("storage.GetRevenueStats: by country: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cr domain.CountryRevenue
		if err := rows.Scan(&cr.Country, &cr.Bots, &cr.Events, &cr.Revenue); err != nil {
			return stats, fmt.Errorf("storage.GetRevenueStats: scan row: %w", err)
		}
		stats.ByCountry = append(stats.ByCountry, cr)
	}
	return stats, rows.Err()
}

// SaveDiscovered hace upsert de las APIs descubiertas en una transacción.
func (s *SQLiteStorage) SaveDiscovered(ctx context.Context, apis []domain.FreeAPI) error {
	if len(apis) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveDiscovered: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO discovered_apis (name, description, link, category, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			link        = excluded.link,
			category    = excluded.category,
			last_seen   = excluded.last_seen,
			times_seen  = times_seen + 1
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveDiscovered: prepare: %w", err)
	}
	defer stmt.Close()

	for _, api := range apis {
		if _, err := stmt.ExecContext(ctx,
			api.Name, api.Description, api.Link, api.Category,
			now, // first_seen: ignorado en ON CONFLICT
			now,
		); err != nil {
			return fmt.Errorf("storage.SaveDiscovered: upsert %s: %w", api.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveDiscovered: commit: %w", err)
	}
	return nil
}

// GetDiscovered devuelve las APIs guardadas, las vistas más recientemente primero.
func (s *SQLiteStorage) GetDiscovered(ctx context.Context) ([]domain.FreeAPI, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, link, category
		FROM discovered_apis
		ORDER BY last_seen DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.GetDiscovered: query: %w", err)
	}
	defer rows.Close()

	var apis []domain.FreeAPI
	for rows.Next() {
		var api domain.FreeAPI
		if err := rows.Scan(&api.Name, &api.Description, &api.Link, &api.Category); err != nil {
			return nil, fmt.Errorf("storage.GetDiscovered: scan row: %w", err)
		}
		apis = append(apis, api)
	}
	return apis, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// pruneOld elimina datos antiguos para mantener la DB ligera. Intenta ambas
// tablas aunque la primera falle.
func (s *SQLiteStorage) pruneOld(ctx context.Context) error {
	cutoffEvents := time.Now().UTC().Add(-retentionEvents)
	cutoffAPIs := time.Now().UTC().Add(-retentionAPIs)

	var errs []error
	if _, err := s.db.ExecContext(ctx, `DELETE FROM revenue_events WHERE at < ?`, cutoffEvents); err != nil {
		errs = append(errs, fmt.Errorf("storage.pruneOld: revenue_events: %w", err))
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM discovered_apis WHERE last_seen < ?`, cutoffAPIs); err != nil {
		errs = append(errs, fmt.Errorf("storage.pruneOld: discovered_apis: %w", err))
	}
	return errors.Join(errs...)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseTime acepta los formatos con los que modernc/sqlite serializa time.Time.
func parseTime(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999 -0700 MST",
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
