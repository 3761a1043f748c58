package speedrun

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gameBoardURI = testBase + "leaderboards/g1/category/c1"

func newBoardGame(t *testing.T, ft *fakeTransport) *Game {
	t.Helper()
	g, err := NewGame(decodeJSON(t, gameJSON("g1",
		"self", testBase+"games/g1",
		"variables", testBase+"games/g1/variables",
		"records", testBase+"games/g1/records",
		"leaderboard", gameBoardURI,
	)), ft)
	require.NoError(t, err)
	return g
}

func newBoardCategory(t *testing.T, ft *fakeTransport) *Category {
	t.Helper()
	c, err := NewCategory(decodeJSON(t, categoryJSON("c1",
		"self", testBase+"categories/c1",
		"game", testBase+"games/g1",
		"variables", testBase+"categories/c1/variables",
		"records", testBase+"categories/c1/records",
		"runs", testBase+"runs?category=c1",
		"leaderboard", gameBoardURI,
	)), ft)
	require.NoError(t, err)
	return c
}

func TestLeaderboardCategory(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(gameBoardURI, envelope(t, leaderboardJSON(
		runJSON("r1", 60, userRefJSON("u1")),
		runJSON("r2", 70, userRefJSON("u2")),
		runJSON("r3", 80, userRefJSON("u3")),
	)))
	c := newBoardCategory(t, ft)

	runs, err := c.Leaderboard(context.Background(), LeaderboardQuery{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "r1", runs[0].ID())
	assert.Equal(t, "r2", runs[1].ID())
	assert.Equal(t, "r3", runs[2].ID())
	assert.Zero(t, runs[0].Place)

	calls := ft.calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].absolute)
	assert.Equal(t, gameBoardURI, calls[0].target)
	assert.Empty(t, calls[0].params.Get("top"), "full board sends no top")
}

func TestLeaderboardTop(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(gameBoardURI, envelope(t, leaderboardJSON(
		runJSON("r1", 60, userRefJSON("u1")),
		runJSON("r2", 70, userRefJSON("u2")),
	)))
	c := newBoardCategory(t, ft)

	caller := url.Values{"var-abc": {"x"}}
	runs, err := Leaderboard(context.Background(), c, LeaderboardQuery{Top: 2, Params: caller})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(runs), 2)
	assert.Equal(t, "r1", runs[0].ID())

	calls := ft.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "2", calls[0].params.Get("top"))
	assert.Equal(t, "x", calls[0].params.Get("var-abc"))
	assert.NotContains(t, caller, "top", "caller params are not modified")
}

func TestLeaderboardGameDefault(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(gameBoardURI, envelope(t, leaderboardJSON(runJSON("r1", 60, userRefJSON("u1")))))
	g := newBoardGame(t, ft)

	runs, err := g.Leaderboard(context.Background(), LeaderboardQuery{})
	require.NoError(t, err)
	require.Len(t, runs, 1)

	calls := ft.calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].absolute)
	assert.Equal(t, gameBoardURI, calls[0].target)
}

func TestLeaderboardGameCategoryOverride(t *testing.T) {
	ft := newFakeTransport()
	ft.serve("leaderboards/g1/category/c7", envelope(t, leaderboardJSON(runJSON("r7", 60, userRefJSON("u1")))))
	g := newBoardGame(t, ft)

	runs, err := g.Leaderboard(context.Background(), LeaderboardQuery{Category: "c7", Top: 1})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r7", runs[0].ID())

	calls := ft.calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].absolute, "override bypasses the leaderboard link")
	assert.Equal(t, "leaderboards/g1/category/c7", calls[0].target)
	assert.Equal(t, "1", calls[0].params.Get("top"))
}

func TestLeaderboardMalformed(t *testing.T) {
	ft := newFakeTransport()
	c := newBoardCategory(t, ft)

	tests := []struct {
		name string
		body string
	}{
		{"no runs member", `{"weblink": "x"}`},
		{"entry without run", `{"runs": [{"place": 1}]}`},
		{"bare run instead of entry", `{"runs": [` + runJSON("r1", 60, userRefJSON("u1")) + `]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft.serve(gameBoardURI, envelope(t, tt.body))
			_, err := c.Leaderboard(context.Background(), LeaderboardQuery{})
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestLeaderboardMissingRelation(t *testing.T) {
	ft := newFakeTransport()
	g, err := NewGame(decodeJSON(t, gameJSON("g1", "self", testBase+"games/g1")), ft)
	require.NoError(t, err)

	_, err = g.Leaderboard(context.Background(), LeaderboardQuery{})
	assert.ErrorIs(t, err, ErrRelationNotFound)
	assert.Empty(t, ft.calls())
}
