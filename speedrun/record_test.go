package speedrun

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// varParams returns only the var-* parameters of a request
func varParams(params url.Values) url.Values {
	out := url.Values{}
	for k, v := range params {
		if strings.HasPrefix(k, "var-") {
			out[k] = v
		}
	}
	return out
}

func TestRecordCategorySubcategories(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBase+"categories/c1/variables", envelope(t, `[`+
		variableJSON("diff", "c1", true, "hard")+`,`+
		variableJSON("plat", "c1", true, "pc")+`,`+
		variableJSON("seed", "c1", false, "set")+`,`+
		variableJSON("nodef", "c1", true, "")+
		`]`))
	ft.serve(gameBoardURI, envelope(t, leaderboardJSON(
		runJSON("r1", 60, userRefJSON("u1")),
	)))
	c := newBoardCategory(t, ft)

	run, err := c.Record(context.Background(), RecordQuery{})
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "r1", run.ID())

	calls := ft.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, testBase+"categories/c1/variables", calls[0].target)

	board := calls[1]
	assert.Equal(t, gameBoardURI, board.target)
	assert.Equal(t, "1", board.params.Get("top"))
	assert.Equal(t, url.Values{
		"var-diff": {"hard"},
		"var-plat": {"pc"},
	}, varParams(board.params))
}

func TestRecordExplicitParamsWin(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBase+"categories/c1/variables", envelope(t, `[`+
		variableJSON("diff", "c1", true, "hard")+`,`+
		variableJSON("plat", "c1", true, "pc")+
		`]`))
	ft.serve(gameBoardURI, envelope(t, leaderboardJSON(runJSON("r1", 60, userRefJSON("u1")))))
	c := newBoardCategory(t, ft)

	caller := url.Values{"var-diff": {"easy"}}
	_, err := c.Record(context.Background(), RecordQuery{Params: caller})
	require.NoError(t, err)

	calls := ft.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, url.Values{
		"var-diff": {"easy"},
		"var-plat": {"pc"},
	}, varParams(calls[1].params))
	assert.Equal(t, url.Values{"var-diff": {"easy"}}, caller, "caller params are not modified")
}

func TestRecordIgnoreSubcategories(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(gameBoardURI, envelope(t, leaderboardJSON(runJSON("r1", 60, userRefJSON("u1")))))
	c := newBoardCategory(t, ft)

	_, err := c.Record(context.Background(), RecordQuery{IgnoreSubcategories: true})
	require.NoError(t, err)

	calls := ft.calls()
	require.Len(t, calls, 1, "variables are not fetched")
	assert.Empty(t, varParams(calls[0].params))
}

func TestRecordEmptyBoard(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBase+"categories/c1/variables", envelope(t, `[]`))
	ft.serve(gameBoardURI, envelope(t, leaderboardJSON()))
	c := newBoardCategory(t, ft)

	run, err := c.Record(context.Background(), RecordQuery{})
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestRecordGameDefaultCategory(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBase+"games/g1/variables", envelope(t, `[`+
		variableJSON("diff", "c1", true, "hard")+`,`+
		variableJSON("other", "c2", true, "x")+`,`+
		variableJSON("global", "", true, "y")+
		`]`))
	ft.serve("leaderboards/g1/category/c1", envelope(t, leaderboardJSON(runJSON("r1", 60, userRefJSON("u1")))))
	g := newBoardGame(t, ft)

	run, err := g.Record(context.Background(), RecordQuery{})
	require.NoError(t, err)
	require.NotNil(t, run)

	calls := ft.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, testBase+"games/g1/variables", calls[0].target)
	assert.Equal(t, "leaderboards/g1/category/c1", calls[1].target)
	assert.Equal(t, url.Values{"var-diff": {"hard"}}, varParams(calls[1].params),
		"only variables of the effective category apply")
}

func TestRecordGameExplicitCategory(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBase+"games/g1/variables", envelope(t, `[`+
		variableJSON("diff", "c1", true, "hard")+`,`+
		variableJSON("other", "c2", true, "x")+
		`]`))
	ft.serve("leaderboards/g1/category/c2", envelope(t, leaderboardJSON()))
	g := newBoardGame(t, ft)

	run, err := g.Record(context.Background(), RecordQuery{Category: "c2"})
	require.NoError(t, err)
	assert.Nil(t, run)

	calls := ft.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "leaderboards/g1/category/c2", calls[1].target)
	assert.Equal(t, url.Values{"var-other": {"x"}}, varParams(calls[1].params))
}

func TestRecordVariablesFailure(t *testing.T) {
	ft := newFakeTransport()
	c := newBoardCategory(t, ft)

	run, err := c.Record(context.Background(), RecordQuery{})
	assert.Nil(t, run)
	assert.ErrorIs(t, err, ErrNotFound, "a failed lookup is an error, unlike an empty board")
}

func TestRecords(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBase+"games/g1/records", envelope(t, `[
		{"category": "c1", "runs": [{"place": 1, "run": `+runJSON("r1", 60, userRefJSON("u1"))+`}]},
		{"category": "c2", "runs": []}
	]`))
	g := newBoardGame(t, ft)

	records, err := g.Records(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Len(t, records["c1"], 1)
	assert.Equal(t, "r1", records["c1"][0].ID())
	assert.Empty(t, records["c2"])

	calls := ft.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "3", calls[0].params.Get("top"))
	assert.Equal(t, "full-game", calls[0].params.Get("scope"))
}

func TestRecordsLevelBoards(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBase+"categories/c1/records", envelope(t, `[
		{"category": "c1", "level": "l1", "runs": [
			{"place": 1, "run": `+runJSON("a1", 60, userRefJSON("u1"))+`},
			{"place": 2, "run": `+runJSON("a2", 70, userRefJSON("u2"))+`}
		]},
		{"category": "c1", "level": "l2", "runs": [
			{"place": 1, "run": `+runJSON("b1", 10, userRefJSON("u1"))+`},
			{"place": 2, "run": `+runJSON("b2", 20, userRefJSON("u2"))+`}
		]}
	]`))
	c := newBoardCategory(t, ft)

	records, err := c.Records(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2, "each level keeps its own board")
	assert.NotContains(t, records, "c1")

	l1 := records[RecordsKey("c1", "l1")]
	require.Len(t, l1, 2)
	assert.Equal(t, "a1", l1[0].ID())
	assert.Equal(t, "a2", l1[1].ID())

	l2 := records[RecordsKey("c1", "l2")]
	require.Len(t, l2, 2)
	assert.Equal(t, "b1", l2[0].ID())
	assert.Equal(t, "b2", l2[1].ID())

	calls := ft.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "2", calls[0].params.Get("top"))
	assert.Empty(t, calls[0].params.Get("scope"), "a category asks for all of its boards")
}

func TestRecordsKey(t *testing.T) {
	assert.Equal(t, "c1", RecordsKey("c1", ""))
	assert.Equal(t, "c1/l1", RecordsKey("c1", "l1"))
}
