package speedrun

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Link is one hypermedia relation of an entity
type Link struct {
	Rel string `json:"rel"`
	URI string `json:"uri"`
}

// Links is the ordered relation list of an entity
type Links []Link

// Resolve returns the URI of the first link named rel
func (l Links) Resolve(rel string) (string, bool) {
	for _, link := range l {
		if link.Rel == rel {
			return link.URI, true
		}
	}
	return "", false
}

func decodeLinks(f fields) (Links, error) {
	if !f.has("links") {
		return nil, nil
	}
	items, err := f.requireArray("links")
	if err != nil {
		return nil, err
	}

	links := make(Links, 0, len(items))
	for i, item := range items {
		lf, err := newFields(f.kind, item)
		if err != nil {
			return nil, f.fail(fmt.Sprintf("links[%d]", i), "expected object")
		}
		lf.path = f.name(fmt.Sprintf("links[%d]", i))

		rel, err := lf.requireString("rel")
		if err != nil {
			return nil, err
		}
		uri, err := lf.requireString("uri")
		if err != nil {
			return nil, err
		}
		links = append(links, Link{Rel: rel, URI: uri})
	}
	return links, nil
}

// resolve returns the target of rel on e, or a RelationError
func resolve(e Entity, rel string) (string, error) {
	uri, ok := e.Links().Resolve(rel)
	if !ok {
		return "", &RelationError{Kind: e.Kind(), ID: e.ID(), Relation: rel}
	}
	return uri, nil
}

// fetchRelated dereferences rel on e with optional query parameters
func fetchRelated(ctx context.Context, t Transport, e Entity, rel string, params url.Values) (map[string]any, error) {
	uri, err := resolve(e, rel)
	if err != nil {
		return nil, err
	}

	body, err := t.GetAbsolute(ctx, uri, params)
	if err != nil {
		return nil, fmt.Errorf("failed to follow %s link of %s %q: %w", rel, e.Kind(), e.ID(), err)
	}
	return body, nil
}

// fetchRelatedData is fetchRelated reduced to the data member
func fetchRelatedData(ctx context.Context, t Transport, e Entity, rel string, params url.Values) (any, error) {
	body, err := fetchRelated(ctx, t, e, rel, params)
	if err != nil {
		return nil, err
	}
	return dataOf(body)
}

// fetchRelatedList is fetchRelatedData for listing relations
func fetchRelatedList(ctx context.Context, t Transport, e Entity, rel string, params url.Values) ([]any, error) {
	body, err := fetchRelated(ctx, t, e, rel, params)
	if err != nil {
		return nil, err
	}
	return dataArray(body)
}

// lastSegment returns the trailing path segment of a URI
func lastSegment(uri string) string {
	uri = strings.TrimRight(uri, "/")
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
