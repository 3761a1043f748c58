package speedrun

import (
	"context"
	"net/url"
)

// Transport issues read requests against the speedrun.com API and returns
// the decoded JSON body. *Client is the production implementation.
type Transport interface {
	// Get issues a GET against the base URL joined with path
	Get(ctx context.Context, path string, params url.Values) (map[string]any, error)

	// GetAbsolute issues a GET against an already absolute URI, as found in
	// embedded links
	GetAbsolute(ctx context.Context, uri string, params url.Values) (map[string]any, error)
}

// Entity is the identity contract every resource satisfies
type Entity interface {
	// ID returns the server identifier, or "" for guest runners
	ID() string

	// WebLink returns the human-facing URL
	WebLink() string

	// Links returns the hypermedia relations used for traversal
	Links() Links

	// Kind names the entity kind, e.g. "game"
	Kind() string
}

// LeaderboardOwner is an entity whose leaderboard and record can be
// resolved. Only *Game and *Category implement it.
type LeaderboardOwner interface {
	VariableOwner
	leaderboardOwner()
}

// VariableOwner is an entity that exposes a variables relation (Game,
// Category)
type VariableOwner interface {
	Entity
	Variables(ctx context.Context) (*Stream[*Variable], error)
}
