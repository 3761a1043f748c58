package speedrun

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Series groups related games
type Series struct {
	Resource

	Name         string
	Abbreviation string
	// Created is zero when the API does not know the creation time
	Created time.Time
	// Assets maps asset names (logo, icon, ...) to image URIs
	Assets       map[string]string
	ModeratorIDs []string
}

// NewSeries decodes a series fragment
func NewSeries(payload any, t Transport) (*Series, error) {
	f, err := newFields(KindSeries, payload)
	if err != nil {
		return nil, err
	}
	res, err := decodeResource(f, t, false)
	if err != nil {
		return nil, err
	}

	s := &Series{Resource: res}

	names, err := f.requireObject("names")
	if err != nil {
		return nil, err
	}
	if s.Name, err = names.requireString("international"); err != nil {
		return nil, err
	}
	if s.Abbreviation, err = f.requireString("abbreviation"); err != nil {
		return nil, err
	}

	created, err := f.nullableString("created")
	if err != nil {
		return nil, err
	}
	if created != "" {
		if s.Created, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, f.fail("created", fmt.Sprintf("invalid timestamp %q", created))
		}
	}

	if assets := lookupObject(f.m, "assets"); len(assets) > 0 {
		s.Assets = make(map[string]string, len(assets))
		for name := range assets {
			if uri := lookupString(assets, name, "uri"); uri != "" {
				s.Assets[name] = uri
			}
		}
	}

	if s.ModeratorIDs, err = decodeModerators(f); err != nil {
		return nil, err
	}

	return s, nil
}

// decodeModerators accepts the API's {"user id": "role"} map, or a plain
// id list, and returns the ids in a stable order
func decodeModerators(f fields) ([]string, error) {
	v, err := f.value("moderators")
	if err != nil {
		return nil, err
	}

	switch mods := v.(type) {
	case map[string]any:
		ids := make([]string, 0, len(mods))
		for id := range mods {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return ids, nil
	case []any:
		return f.requireStrings("moderators")
	default:
		return nil, f.fail("moderators", "expected object or array, got "+jsonType(v))
	}
}

// Games gets the games in the series
func (s *Series) Games(ctx context.Context) (*Stream[*Game], error) {
	items, err := fetchRelatedList(ctx, s.t, s, "games", nil)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, s.t, NewGame), nil
}

// Moderators gets the series moderators, fetching one user per element
// as the stream is consumed
func (s *Series) Moderators(ctx context.Context) *Stream[*User] {
	i := 0
	return newStream(func() (*User, bool, error) {
		if i >= len(s.ModeratorIDs) {
			return nil, false, nil
		}
		id := s.ModeratorIDs[i]
		i++
		u, err := GetUser(ctx, s.t, id)
		if err != nil {
			return nil, false, err
		}
		return u, true, nil
	})
}
