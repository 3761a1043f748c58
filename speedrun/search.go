package speedrun

import (
	"context"
	"fmt"
	"net/url"
)

// Games searches games. params are passed through, e.g. name (fuzzy),
// abbreviation (exact), released, platform, max.
func (c *Client) Games(ctx context.Context, params url.Values) ([]*Game, error) {
	return search(ctx, c, "games", params, NewGame)
}

// FirstGame returns the first game matching params, or an error matching
// ErrNotFound
func (c *Client) FirstGame(ctx context.Context, params url.Values) (*Game, error) {
	return searchFirst(ctx, c, "games", params, NewGame)
}

// Users searches users. params are passed through, e.g. lookup, name,
// twitch, twitter, max.
func (c *Client) Users(ctx context.Context, params url.Values) ([]*User, error) {
	return search(ctx, c, "users", params, NewUser)
}

// FirstUser returns the first user matching params, or an error matching
// ErrNotFound
func (c *Client) FirstUser(ctx context.Context, params url.Values) (*User, error) {
	return searchFirst(ctx, c, "users", params, NewUser)
}

func search[T any](ctx context.Context, t Transport, endpoint string, params url.Values, decode func(any, Transport) (T, error)) ([]T, error) {
	body, err := t.Get(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", endpoint, err)
	}
	items, err := dataArray(body)
	if err != nil {
		return nil, err
	}
	return decodeStream(items, t, decode).Collect()
}

func searchFirst[T any](ctx context.Context, t Transport, endpoint string, params url.Values, decode func(any, Transport) (T, error)) (T, error) {
	params = cloneParams(params)
	params.Set("max", "1")

	var zero T
	results, err := search(ctx, t, endpoint, params, decode)
	if err != nil {
		return zero, err
	}
	if len(results) == 0 {
		return zero, fmt.Errorf("no %s match %q: %w", endpoint, params.Encode(), ErrNotFound)
	}
	return results[0], nil
}
