package speedrun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testBase = "https://api.test/v1/"

// request is one call seen by fakeTransport
type request struct {
	target   string
	absolute bool
	params   url.Values
}

// fakeTransport serves canned bodies keyed by relative path or absolute URI
// and records every request
type fakeTransport struct {
	mu        sync.Mutex
	responses map[string]map[string]any
	requests  []request
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{responses: make(map[string]map[string]any)}
}

func (f *fakeTransport) serve(target string, body map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[target] = body
}

func (f *fakeTransport) Get(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	return f.do(path, false, params)
}

func (f *fakeTransport) GetAbsolute(ctx context.Context, uri string, params url.Values) (map[string]any, error) {
	return f.do(uri, true, params)
}

func (f *fakeTransport) do(target string, absolute bool, params url.Values) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, request{target: target, absolute: absolute, params: params})
	body, ok := f.responses[target]
	if !ok {
		return nil, &APIError{StatusCode: 404, Message: "The requested resource could not be found."}
	}
	return body, nil
}

func (f *fakeTransport) calls() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]request, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = nil
}

// decodeJSON turns fixture text into the shapes encoding/json produces
func decodeJSON(t *testing.T, text string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &m), text)
	return m
}

func envelope(t *testing.T, data string) map[string]any {
	t.Helper()
	return decodeJSON(t, `{"data": `+data+`}`)
}

// linksJSON renders rel/uri pairs as a links array
func linksJSON(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, fmt.Sprintf(`{"rel": %q, "uri": %q}`, pairs[i], pairs[i+1]))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func gameJSON(id string, links ...string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"names": {"international": "Game %s", "japanese": null, "twitch": "Game %s"},
		"abbreviation": "g%s",
		"weblink": "https://www.speedrun.com/g%s",
		"released": 2002,
		"release-date": "2002-07-19",
		"ruleset": {
			"show-milliseconds": true,
			"require-verification": true,
			"require-video": false,
			"run-times": ["realtime", "ingame"],
			"default-time": "realtime",
			"emulators-allowed": false
		},
		"romhack": false,
		"gametypes": [],
		"links": %s
	}`, id, id, id, id, id, linksJSON(links...))
}

func categoryJSON(id string, links ...string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": "Category %s",
		"weblink": "https://www.speedrun.com/c%s",
		"type": "per-game",
		"rules": null,
		"players": {"type": "exactly", "value": 1},
		"miscellaneous": false,
		"links": %s
	}`, id, id, id, linksJSON(links...))
}

func variableJSON(id, category string, subcategory bool, def string) string {
	cat := "null"
	if category != "" {
		cat = fmt.Sprintf("%q", category)
	}
	dflt := "null"
	if def != "" {
		dflt = fmt.Sprintf("%q", def)
	}
	return fmt.Sprintf(`{
		"id": %q,
		"name": "Variable %s",
		"category": %s,
		"scope": {"type": "full-game"},
		"mandatory": false,
		"user-defined": false,
		"obsoletes": true,
		"is-subcategory": %t,
		"values": {
			"values": {
				"v1": {"label": "Any%%", "rules": null, "flags": {"miscellaneous": false}},
				"v2": {"label": "100%%", "rules": "all items"}
			},
			"default": %s
		},
		"links": %s
	}`, id, id, cat, subcategory, dflt, linksJSON("self", testBase+"variables/"+id))
}

func userJSON(id, name string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"names": {"international": %q, "japanese": null},
		"weblink": "https://www.speedrun.com/user/%s",
		"location": {"country": {"code": "se", "names": {"international": "Sweden"}}},
		"twitch": {"uri": "https://www.twitch.tv/%s"},
		"youtube": null,
		"links": %s
	}`, id, name, name, name, linksJSON("self", testBase+"users/"+id))
}

func userRefJSON(id string) string {
	return fmt.Sprintf(`{"rel": "user", "id": %q, "uri": %q}`, id, testBase+"users/"+id)
}

func guestRefJSON(name string) string {
	return fmt.Sprintf(`{"rel": "guest", "name": %q, "uri": %q}`, name, testBase+"guests/"+name)
}

func runJSON(id string, seconds float64, players ...string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"weblink": "https://www.speedrun.com/run/%s",
		"game": "g1",
		"level": null,
		"category": "c1",
		"videos": {"links": [{"uri": "https://youtu.be/%s"}]},
		"comment": "gg",
		"status": {"status": "verified", "examiner": "u9"},
		"players": [%s],
		"date": "2020-01-15",
		"times": {"primary": "PT1M5S", "primary_t": %v},
		"splits": null,
		"values": {"var1": "v1"},
		"links": %s
	}`, id, id, id, strings.Join(players, ","), seconds, linksJSON("self", testBase+"runs/"+id, "examiner", testBase+"users/u9"))
}

func leaderboardJSON(runs ...string) string {
	entries := make([]string, 0, len(runs))
	for i, r := range runs {
		entries = append(entries, fmt.Sprintf(`{"place": %d, "run": %s}`, i+1, r))
	}
	return `{"weblink": "https://www.speedrun.com/g1", "runs": [` + strings.Join(entries, ",") + `]}`
}
