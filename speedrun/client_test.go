package speedrun

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL + "/api/v1")}, opts...)
	client, err := NewClient(zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "default",
			want: DefaultBaseURL,
		},
		{
			name:    "adds trailing slash",
			baseURL: "http://localhost:8080/api/v1",
			want:    "http://localhost:8080/api/v1/",
		},
		{
			name:    "relative URL",
			baseURL: "/api/v1",
			wantErr: true,
			errMsg:  "invalid speedrun API URL",
		},
		{
			name:    "not a URL",
			baseURL: "://nope",
			wantErr: true,
			errMsg:  "invalid speedrun API URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.baseURL != "" {
				opts = append(opts, WithBaseURL(tt.baseURL))
			}

			client, err := NewClient(logger, opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.baseURL)
			assert.Equal(t, DefaultUserAgent, client.userAgent)
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()
	custom := &http.Client{Timeout: 5 * time.Second}

	client, err := NewClient(logger,
		WithUserAgent("srcom-test/1.0"),
		WithTimeout(10*time.Second),
		WithHTTPClient(custom),
	)
	require.NoError(t, err)
	assert.Equal(t, "srcom-test/1.0", client.userAgent)
	assert.Same(t, custom, client.httpClient)

	client, err = NewClient(logger, WithTimeout(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
}

func TestClientRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/games/g1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "srcom-test", r.Header.Get("User-Agent"))

		_, err := uuid.Parse(r.Header.Get("X-Request-Id"))
		assert.NoError(t, err, "request id is a uuid")

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(`{"data": `+gameJSON("g1")+`}`), &payload))
		writeJSON(w, http.StatusOK, payload)
	}, WithUserAgent("srcom-test"))

	g, err := client.Game(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID())
	assert.Equal(t, "Game g1", g.Name)
}

func TestClientQueryMerge(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "g1", q.Get("game"), "link query is kept")
		assert.Equal(t, []string{"10"}, q["max"], "explicit params replace link params")
		assert.Equal(t, "verified", q.Get("status"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	})

	uri := client.baseURL + "runs?game=g1&max=20"
	body, err := client.GetAbsolute(context.Background(), uri, url.Values{
		"max":    {"10"},
		"status": {"verified"},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{}, body["data"])
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
		notFound   bool
	}{
		{
			name:       "not found with message",
			status:     http.StatusNotFound,
			body:       `{"status": 404, "message": "The game could not be found."}`,
			wantStatus: 404,
			wantMsg:    "The game could not be found.",
			notFound:   true,
		},
		{
			name:       "rate limited without body",
			status:     http.StatusTooManyRequests,
			body:       ``,
			wantStatus: 429,
			wantMsg:    "Too Many Requests",
		},
		{
			name:       "server error with html",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantStatus: 502,
			wantMsg:    "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Game(context.Background(), "g1")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.notFound, apiErr.IsNotFound())
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))
			assert.Equal(t, tt.status == http.StatusTooManyRequests, apiErr.IsRateLimited())
		})
	}
}

func TestClientMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"data": `},
		{"null", `null`},
		{"array body", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Get(context.Background(), "games", nil)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestClientMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	status := http.StatusOK
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]any{"data": []any{}})
	}, WithMetrics(metrics))

	_, err := client.Get(context.Background(), "games", nil)
	require.NoError(t, err)
	status = http.StatusNotFound
	_, err = client.Get(context.Background(), "games", nil)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.failures))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.duration))
}

func TestClientSearch(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/games", r.URL.Path)
		gotQuery = r.URL.Query()

		var payload map[string]any
		data := `[]`
		if r.URL.Query().Get("name") == "mario" {
			data = `[` + gameJSON("g1") + `]`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"data": `+data+`}`), &payload))
		writeJSON(w, http.StatusOK, payload)
	})
	ctx := context.Background()

	params := url.Values{"name": {"mario"}}
	g, err := client.FirstGame(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID())
	assert.Equal(t, "1", gotQuery.Get("max"))
	assert.NotContains(t, params, "max", "caller params are not modified")

	games, err := client.Games(ctx, url.Values{"name": {"zelda"}})
	require.NoError(t, err)
	assert.Empty(t, games)

	_, err = client.FirstGame(ctx, url.Values{"name": {"zelda"}})
	assert.ErrorIs(t, err, ErrNotFound)
}
