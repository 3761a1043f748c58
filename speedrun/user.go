package speedrun

import (
	"context"
	"fmt"
	"net/url"
)

// User is a runner or moderator. Guest runners have no account: their ID
// and WebLink are empty and only Name is set.
type User struct {
	Resource

	Name  string
	Guest bool

	Country     string
	CountryCode string
	Region      string
	RegionCode  string

	Twitch        string
	Hitbox        string
	YouTube       string
	Twitter       string
	SpeedRunsLive string
}

// NewUser decodes a user fragment. A fragment without an id decodes to a
// guest.
func NewUser(payload any, t Transport) (*User, error) {
	f, err := newFields(KindUser, payload)
	if err != nil {
		return nil, err
	}

	guest := !f.has("id")
	res, err := decodeResource(f, t, guest)
	if err != nil {
		return nil, err
	}

	u := &User{Resource: res, Guest: guest}
	if guest {
		u.Name, err = f.requireString("name")
	} else {
		var names fields
		if names, err = f.requireObject("names"); err == nil {
			u.Name, err = names.requireString("international")
		}
	}
	if err != nil {
		return nil, err
	}

	// Location and social profiles are routinely incomplete
	u.Country = lookupString(f.m, "location", "country", "names", "international")
	u.CountryCode = lookupString(f.m, "location", "country", "code")
	u.Region = lookupString(f.m, "location", "region", "names", "international")
	u.RegionCode = lookupString(f.m, "location", "region", "code")

	u.Twitch = lookupString(f.m, "twitch", "uri")
	u.Hitbox = lookupString(f.m, "hitbox", "uri")
	u.YouTube = lookupString(f.m, "youtube", "uri")
	u.Twitter = lookupString(f.m, "twitter", "uri")
	u.SpeedRunsLive = lookupString(f.m, "speedrunslive", "uri")

	return u, nil
}

// newGuestUser builds a guest directly from a run's player reference
func newGuestUser(ref playerRef, t Transport) *User {
	var links Links
	if ref.uri != "" {
		links = Links{{Rel: "guest", URI: ref.uri}}
	}
	return &User{
		Resource: Resource{kind: KindUser, links: links, t: t},
		Name:     ref.name,
		Guest:    true,
	}
}

// Runs gets runs submitted by the user
func (u *User) Runs(ctx context.Context, params url.Values) (*Stream[*Run], error) {
	items, err := fetchRelatedList(ctx, u.t, u, "runs", params)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, u.t, NewRun), nil
}

// Games gets the games the user moderates
func (u *User) Games(ctx context.Context) (*Stream[*Game], error) {
	items, err := fetchRelatedList(ctx, u.t, u, "games", nil)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, u.t, NewGame), nil
}

// PersonalBests gets the user's personal bests, each carrying its Place
func (u *User) PersonalBests(ctx context.Context, params url.Values) (*Stream[*Run], error) {
	items, err := fetchRelatedList(ctx, u.t, u, "personal-bests", params)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, u.t, NewPersonalBest), nil
}

// NewPersonalBest decodes a personal-bests entry, {"place": n, "run": {...}},
// into a run carrying its Place
func NewPersonalBest(item any, t Transport) (*Run, error) {
	f, err := newFields(KindRun, item)
	if err != nil {
		return nil, err
	}
	place, err := f.requireNumber("place")
	if err != nil {
		return nil, err
	}
	run, err := f.value("run")
	if err != nil {
		return nil, err
	}
	r, err := newRun(run, t, int(place))
	if err != nil {
		return nil, fmt.Errorf("personal best: %w", err)
	}
	return r, nil
}
