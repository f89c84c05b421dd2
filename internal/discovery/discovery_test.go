package discovery_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alejandrodnm/bizbots/internal/adapters/publicapis"
	"github.com/alejandrodnm/bizbots/internal/discovery"
	"github.com/alejandrodnm/bizbots/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	entries []domain.APIEntry
	err     error
}

func (f fakeDirectory) FetchEntries(context.Context) ([]domain.APIEntry, error) {
	return f.entries, f.err
}

type fakeStore struct {
	saved [][]domain.FreeAPI
	err   error
}

func (f *fakeStore) SaveDiscovered(_ context.Context, apis []domain.FreeAPI) error {
	f.saved = append(f.saved, apis)
	return f.err
}

func (f *fakeStore) GetDiscovered(context.Context) ([]domain.FreeAPI, error) { return nil, nil }

func sampleEntries() []domain.APIEntry {
	var out []domain.APIEntry
	for i := 0; i < 12; i++ {
		e := domain.APIEntry{
			Name:     fmt.Sprintf("api-%02d", i),
			Link:     fmt.Sprintf("https://example.com/%d", i),
			Category: "Test",
			HTTPS:    i%3 != 0,
		}
		if i%4 == 0 {
			e.Auth = "apiKey"
		}
		out = append(out, e)
	}
	return out
}

func newService(dir fakeDirectory, store *fakeStore, buf *bytes.Buffer) *discovery.Service {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	if store == nil {
		return discovery.New(dir, nil, logger)
	}
	return discovery.New(dir, store, logger)
}

func TestFilterFree_OnlyQualifying(t *testing.T) {
	entries := sampleEntries()
	byName := make(map[string]domain.APIEntry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	got := discovery.FilterFree(entries, 100)
	require.NotEmpty(t, got)
	for _, api := range got {
		src := byName[api.Name]
		assert.Empty(t, src.Auth)
		assert.True(t, src.HTTPS)
	}
}

func TestFilterFree_PreservesOrderAndCaps(t *testing.T) {
	entries := sampleEntries()
	all := discovery.FilterFree(entries, 100)

	qualifying := 0
	for _, e := range entries {
		if e.Qualifies() {
			qualifying++
		}
	}
	assert.Len(t, all, qualifying)

	for limit := 0; limit <= qualifying+2; limit++ {
		got := discovery.FilterFree(entries, limit)
		assert.LessOrEqual(t, len(got), limit)
		assert.LessOrEqual(t, len(got), qualifying)
		assert.Equal(t, all[:len(got)], got, "prefijo del orden de la fuente")
	}
}

func TestFilterFree_NonPositiveLimit(t *testing.T) {
	assert.Empty(t, discovery.FilterFree(sampleEntries(), 0))
	assert.Empty(t, discovery.FilterFree(sampleEntries(), -3))
	assert.NotNil(t, discovery.FilterFree(nil, -1))
}

func TestDiscover_Success(t *testing.T) {
	var buf bytes.Buffer
	store := &fakeStore{}
	svc := newService(fakeDirectory{entries: sampleEntries()}, store, &buf)

	apis := svc.Discover(context.Background(), 3)
	require.Len(t, apis, 3)
	assert.Equal(t, "api-01", apis[0].Name)
	require.Len(t, store.saved, 1)
	assert.Equal(t, apis, store.saved[0])
}

func TestDiscover_ErrorContained(t *testing.T) {
	var buf bytes.Buffer
	svc := newService(fakeDirectory{err: errors.New("connection refused")}, nil, &buf)

	var apis []domain.FreeAPI
	assert.NotPanics(t, func() {
		apis = svc.Discover(context.Background(), 10)
	})
	assert.NotNil(t, apis)
	assert.Empty(t, apis)
	assert.Contains(t, buf.String(), "API discovery failed")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestDiscover_StoreErrorIgnored(t *testing.T) {
	var buf bytes.Buffer
	store := &fakeStore{err: errors.New("locked")}
	svc := newService(fakeDirectory{entries: sampleEntries()}, store, &buf)

	apis := svc.Discover(context.Background(), 2)
	assert.Len(t, apis, 2)
	assert.Contains(t, buf.String(), "failed to persist")
}

func TestDiscover_MalformedBodyAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count": 3, "items": []}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	svc := discovery.New(publicapis.NewClient(srv.URL, time.Second, 100), nil,
		slog.New(slog.NewTextHandler(&buf, nil)))

	apis := svc.Discover(context.Background(), 10)
	assert.Empty(t, apis)
	assert.Contains(t, buf.String(), "no entries")
}

func TestDiscover_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var buf bytes.Buffer
	svc := discovery.New(publicapis.NewClient(url, time.Second, 100), nil,
		slog.New(slog.NewTextHandler(&buf, nil)))

	assert.Empty(t, svc.Discover(context.Background(), 10))
}

func TestDiscover_NullFieldsAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count": 3, "entries": [
			{"API": "Null Auth", "Description": "d", "Link": "l", "Category": "c", "Auth": null, "HTTPS": true},
			{"API": "Cat Facts", "Description": "cats", "Link": "https://cats", "Category": "Animals", "Auth": "", "HTTPS": true},
			{"API": "Null HTTPS", "Description": "d", "Link": "l", "Category": "c", "Auth": "", "HTTPS": null}
		]}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	svc := discovery.New(publicapis.NewClient(srv.URL, time.Second, 100), nil,
		slog.New(slog.NewTextHandler(&buf, nil)))

	apis := svc.Discover(context.Background(), 10)
	assert.Equal(t, []domain.FreeAPI{{
		Name:        "Cat Facts",
		Description: "cats",
		Link:        "https://cats",
		Category:    "Animals",
	}}, apis)
	assert.NotContains(t, buf.String(), "API discovery failed")
}

func TestDiscover_ErrorKeyWithEntriesAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": "rate limited", "count": 1, "entries": [
			{"API": "Cat Facts", "Description": "cats", "Link": "https://cats", "Category": "Animals", "Auth": "", "HTTPS": true}
		]}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	store := &fakeStore{}
	svc := discovery.New(publicapis.NewClient(srv.URL, time.Second, 100), store,
		slog.New(slog.NewTextHandler(&buf, nil)))

	apis := svc.Discover(context.Background(), 10)
	require.NotNil(t, apis)
	assert.Empty(t, apis)
	assert.Empty(t, store.saved)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "API discovery failed")
	assert.Contains(t, buf.String(), "rate limited")
}
