package publicapis_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alejandrodnm/bizbots/internal/adapters/publicapis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/entries", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *publicapis.Client {
	return publicapis.NewClient(srv.URL, time.Second, 100)
}

func TestFetchEntries_Success(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/publicapis_entries.json")
	require.NoError(t, err)
	srv := newTestServer(t, http.StatusOK, string(data))

	entries, err := newTestClient(srv).FetchEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 6)

	assert.Equal(t, "Cat Facts", entries[0].Name)
	assert.Equal(t, "Animals", entries[0].Category)
	assert.True(t, entries[0].HTTPS)
	assert.Empty(t, entries[0].Auth)

	assert.Equal(t, "apiKey", entries[2].Auth)
	assert.False(t, entries[3].HTTPS)
	// "true" como string también cuenta
	assert.True(t, entries[4].HTTPS)
}

func TestFetchEntries_MissingEntriesKey(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"count": 0}`)

	_, err := newTestClient(srv).FetchEntries(context.Background())
	assert.ErrorContains(t, err, "no entries")
}

func TestFetchEntries_EmptyEntries(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"count": 0, "entries": []}`)

	entries, err := newTestClient(srv).FetchEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchEntries_ErrorKey(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"error": "quota exceeded", "entries": []}`)

	_, err := newTestClient(srv).FetchEntries(context.Background())
	assert.ErrorContains(t, err, "api returned error")
}

func TestFetchEntries_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"entries": [`)

	_, err := newTestClient(srv).FetchEntries(context.Background())
	assert.ErrorContains(t, err, "decode response")
}

func TestFetchEntries_NotAnObject(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[1, 2, 3]`)

	_, err := newTestClient(srv).FetchEntries(context.Background())
	assert.Error(t, err)
}

func TestFetchEntries_ServerError(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `boom`)

	_, err := newTestClient(srv).FetchEntries(context.Background())
	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestFetchEntries_NotFound(t *testing.T) {
	srv := newTestServer(t, http.StatusNotFound, `{}`)

	_, err := newTestClient(srv).FetchEntries(context.Background())
	assert.ErrorContains(t, err, "unexpected status 404")
}

func TestFetchEntries_SingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchEntries(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls, "sin retries")
}

func TestFetchEntries_MissingAuthField(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"entries": [{"API": "X", "Description": "d", "Link": "l", "Category": "c", "HTTPS": true}]}`)

	_, err := newTestClient(srv).FetchEntries(context.Background())
	assert.ErrorContains(t, err, "missing field Auth")
}

func TestFetchEntries_NullFieldsDoNotQualify(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"count": 4, "entries": [
		{"API": "Good", "Description": "d", "Link": "https://good", "Category": "c", "Auth": "", "HTTPS": true},
		{"API": "NullAuth", "Description": "d", "Link": "l", "Category": "c", "Auth": null, "HTTPS": true},
		{"API": "NullHTTPS", "Description": "d", "Link": "l", "Category": "c", "Auth": "", "HTTPS": null},
		{"API": null, "Description": null, "Link": null, "Category": null, "Auth": "apiKey", "HTTPS": true}
	]}`)

	entries, err := newTestClient(srv).FetchEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.True(t, entries[0].Qualifies())
	assert.False(t, entries[1].Qualifies())
	assert.False(t, entries[2].Qualifies())
	assert.False(t, entries[2].HTTPS)
	assert.False(t, entries[3].Qualifies())
	assert.Empty(t, entries[3].Name)
}

func TestFetchEntries_NullProjectedFieldOnQualifying(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"entries": [{"API": "X", "Description": null, "Link": "l", "Category": "c", "Auth": "", "HTTPS": true}]}`)

	entries, err := newTestClient(srv).FetchEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Qualifies())
	assert.Empty(t, entries[0].Description)
}

func TestFetchEntries_MissingHTTPSField(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"entries": [{"API": "X", "Description": "d", "Link": "l", "Category": "c", "Auth": ""}]}`)

	_, err := newTestClient(srv).FetchEntries(context.Background())
	assert.ErrorContains(t, err, "missing field HTTPS")
}

func TestFetchEntries_MissingProjectedFieldOnQualifying(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"entries": [{"API": "X", "Description": "d", "Category": "c", "Auth": "", "HTTPS": true}]}`)

	_, err := newTestClient(srv).FetchEntries(context.Background())
	assert.ErrorContains(t, err, "missing field Link")
}

func TestFetchEntries_MissingProjectedFieldOnNonQualifying(t *testing.T) {
	// solo se leen los campos proyectados de las entradas que califican
	srv := newTestServer(t, http.StatusOK,
		`{"entries": [{"API": "X", "Auth": "apiKey", "HTTPS": true}]}`)

	entries, err := newTestClient(srv).FetchEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "X", entries[0].Name)
}

func TestFetchEntries_HTTPSVariants(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"entries": [
		{"API": "a", "Description": "", "Link": "", "Category": "", "Auth": "", "HTTPS": 1},
		{"API": "b", "Description": "", "Link": "", "Category": "", "Auth": "", "HTTPS": 0},
		{"API": "c", "Description": "", "Link": "", "Category": "", "Auth": "", "HTTPS": "yes"},
		{"API": "d", "Description": "", "Link": "", "Category": "", "Auth": "", "HTTPS": "no"}
	]}`)

	entries, err := newTestClient(srv).FetchEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.True(t, entries[0].HTTPS)
	assert.False(t, entries[1].HTTPS)
	assert.True(t, entries[2].HTTPS)
	assert.False(t, entries[3].HTTPS)
}

func TestFetchEntries_InvalidHTTPSValue(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"entries": [{"API": "a", "Auth": "", "HTTPS": "maybe"}]}`)

	_, err := newTestClient(srv).FetchEntries(context.Background())
	assert.Error(t, err)
}

func TestFetchEntries_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := publicapis.NewClient(srv.URL, 50*time.Millisecond, 100)
	_, err := client.FetchEntries(context.Background())
	assert.ErrorContains(t, err, "request failed")
}
