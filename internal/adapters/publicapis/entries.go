package publicapis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/bizbots/internal/domain"
	"github.com/alejandrodnm/bizbots/internal/ports"
)

var (
	errMissingEntries = errors.New("response has no entries")
	errAPIError       = errors.New("api returned error")
)

var _ ports.APIDirectory = (*Client)(nil)

// FetchEntries hace GET /entries y devuelve las entradas en el orden de la fuente.
// Una respuesta con key "error", sin "entries" o con entradas incompletas es un error.
func (c *Client) FetchEntries(ctx context.Context) ([]domain.APIEntry, error) {
	var resp entriesResponse
	if err := c.get(ctx, c.base+entriesPath, &resp); err != nil {
		return nil, fmt.Errorf("publicapis.FetchEntries: %w", err)
	}

	if len(resp.Error) > 0 {
		return nil, fmt.Errorf("publicapis.FetchEntries: %w: %s", errAPIError, string(resp.Error))
	}
	if resp.Entries == nil {
		return nil, fmt.Errorf("publicapis.FetchEntries: %w", errMissingEntries)
	}

	entries := make([]domain.APIEntry, 0, len(*resp.Entries))
	for i, raw := range *resp.Entries {
		e, err := mapEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("publicapis.FetchEntries: entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}

	slog.Debug("public api directory fetched", "entries", len(entries), "count", resp.Count)
	return entries, nil
}

// mapEntry convierte una entrada cruda. Las keys Auth y HTTPS deben existir en
// todas las entradas; las proyectadas solo en las que califican. Un null nunca
// es un error: Auth null o no-string y HTTPS null no califican.
func mapEntry(raw rawEntry) (domain.APIEntry, error) {
	if len(raw.Auth) == 0 {
		return domain.APIEntry{}, errors.New("missing field Auth")
	}
	if len(raw.HTTPS) == 0 {
		return domain.APIEntry{}, errors.New("missing field HTTPS")
	}

	auth, ok := rawString(raw.Auth)
	if !ok {
		// conserva el valor crudo para que no se confunda con ""
		auth = string(raw.Auth)
	}

	var https flexBool
	if !isNull(raw.HTTPS) {
		if err := json.Unmarshal(raw.HTTPS, &https); err != nil {
			return domain.APIEntry{}, err
		}
	}

	name, _ := rawString(raw.API)
	desc, _ := rawString(raw.Description)
	link, _ := rawString(raw.Link)
	category, _ := rawString(raw.Category)

	e := domain.APIEntry{
		Name:        name,
		Description: desc,
		Link:        link,
		Category:    category,
		Auth:        auth,
		HTTPS:       bool(https),
	}
	if !e.Qualifies() {
		return e, nil
	}

	for _, f := range []struct {
		name string
		raw  json.RawMessage
	}{
		{"API", raw.API},
		{"Description", raw.Description},
		{"Link", raw.Link},
		{"Category", raw.Category},
	} {
		if len(f.raw) == 0 {
			return domain.APIEntry{}, fmt.Errorf("missing field %s", f.name)
		}
	}
	return e, nil
}
