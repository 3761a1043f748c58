// Package speedrun provides a client for the speedrun.com REST API.
//
// The API is hypermedia driven: every entity carries a list of named links
// to related resources. This package decodes responses into typed entities
// (Game, Category, Run, User, Series, Variable) and follows those links on
// demand. Nothing is cached; every navigation call is a fresh request.
//
// # Architecture
//
//   - Client: the HTTP transport and entry point for fetch-by-id and search
//   - Transport: the interface entities use to follow links, for testability
//   - Entities: immutable values decoded from a single response fragment
//   - Stream: lazy, single-pass results of one-to-many relations
//   - Leaderboard and Record: ranked run resolution, including subcategory
//     defaults
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := speedrun.NewClient(logger,
//		speedrun.WithUserAgent("my-app/1.0"),
//		speedrun.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	game, err := client.Game(ctx, "o1y9wo6q")
//	if errors.Is(err, speedrun.ErrNotFound) {
//		// no such game
//	}
//
//	// Current record of the default category, with every subcategory
//	// variable set to its default value
//	wr, err := game.Record(ctx, speedrun.RecordQuery{})
//	if wr == nil && err == nil {
//		// the board is empty
//	}
//
// # Error Handling
//
//   - ErrNotFound: a fetch by id hit a missing resource (404)
//   - ErrRelationNotFound: an entity lacks a link the caller relied on;
//     this is a programming error, not a runtime condition
//   - ErrMalformedResponse: a required field was missing or mistyped
//   - APIError: any other non-2xx response, with the status code
//
// Transport failures are returned wrapped and are never retried.
package speedrun
