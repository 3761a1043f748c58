package speedrun

import (
	"context"
	"fmt"
	"net/url"
)

// Entity kinds and the endpoint each is fetched from by id
const (
	KindGame     = "game"
	KindCategory = "category"
	KindRun      = "run"
	KindUser     = "user"
	KindSeries   = "series"
	KindVariable = "variable"
)

var endpoints = map[string]string{
	KindGame:     "games",
	KindCategory: "categories",
	KindRun:      "runs",
	KindUser:     "users",
	KindSeries:   "series",
	KindVariable: "variables",
}

// Resource holds the fields shared by every entity. It is embedded by value
// and never modified after decoding.
type Resource struct {
	id      string
	webLink string
	links   Links
	kind    string
	t       Transport
}

func (r *Resource) ID() string      { return r.id }
func (r *Resource) WebLink() string { return r.webLink }
func (r *Resource) Kind() string    { return r.kind }

// Links returns a copy of the entity's relations
func (r *Resource) Links() Links {
	out := make(Links, len(r.links))
	copy(out, r.links)
	return out
}

// Equal reports whether r and other identify the same server-side record
func (r *Resource) Equal(other Entity) bool {
	return Equal(r, other)
}

// Equal reports whether two entities carry the same non-empty id. Entities
// without an id, such as guest runners, are never equal to anything, so two
// unrelated guests cannot compare equal by accident. Nil entities, typed or
// not, are never equal.
func Equal(a, b Entity) bool {
	id := idOf(a)
	return id != "" && id == idOf(b)
}

// idOf returns e's id, or "" for a nil interface or nil pointer
func idOf(e Entity) string {
	switch v := e.(type) {
	case nil:
		return ""
	case *Resource:
		if v == nil {
			return ""
		}
	case *Game:
		if v == nil {
			return ""
		}
	case *Category:
		if v == nil {
			return ""
		}
	case *Run:
		if v == nil {
			return ""
		}
	case *User:
		if v == nil {
			return ""
		}
	case *Series:
		if v == nil {
			return ""
		}
	case *Variable:
		if v == nil {
			return ""
		}
	}
	return e.ID()
}

// decodeResource extracts the shared shape. The web link is required unless
// allowNoWebLink is set, for guests and variables.
func decodeResource(f fields, t Transport, allowNoWebLink bool) (Resource, error) {
	id, err := f.nullableString("id")
	if err != nil {
		return Resource{}, err
	}

	var webLink string
	if allowNoWebLink {
		webLink, err = f.nullableString("weblink")
	} else {
		webLink, err = f.requireString("weblink")
	}
	if err != nil {
		return Resource{}, err
	}

	links, err := decodeLinks(f)
	if err != nil {
		return Resource{}, err
	}

	return Resource{
		id:      id,
		webLink: webLink,
		links:   links,
		kind:    f.kind,
		t:       t,
	}, nil
}

// getByID fetches <endpoint>/<id> and decodes the data member
func getByID[T any](ctx context.Context, t Transport, kind, id string, decode func(any, Transport) (T, error)) (T, error) {
	var zero T
	if id == "" {
		return zero, fmt.Errorf("%s id is required", kind)
	}

	body, err := t.Get(ctx, endpoints[kind]+"/"+url.PathEscape(id), nil)
	if err != nil {
		return zero, fmt.Errorf("failed to get %s %q: %w", kind, id, err)
	}

	data, err := dataOf(body)
	if err != nil {
		return zero, err
	}
	return decode(data, t)
}

// GetGame fetches a game by id
func GetGame(ctx context.Context, t Transport, id string) (*Game, error) {
	return getByID(ctx, t, KindGame, id, NewGame)
}

// GetCategory fetches a category by id
func GetCategory(ctx context.Context, t Transport, id string) (*Category, error) {
	return getByID(ctx, t, KindCategory, id, NewCategory)
}

// GetRun fetches a run by id
func GetRun(ctx context.Context, t Transport, id string) (*Run, error) {
	return getByID(ctx, t, KindRun, id, NewRun)
}

// GetUser fetches a registered user by id
func GetUser(ctx context.Context, t Transport, id string) (*User, error) {
	return getByID(ctx, t, KindUser, id, NewUser)
}

// GetSeries fetches a series by id
func GetSeries(ctx context.Context, t Transport, id string) (*Series, error) {
	return getByID(ctx, t, KindSeries, id, NewSeries)
}

// GetVariable fetches a variable by id
func GetVariable(ctx context.Context, t Transport, id string) (*Variable, error) {
	return getByID(ctx, t, KindVariable, id, NewVariable)
}
