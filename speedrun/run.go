package speedrun

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Run statuses
const (
	RunStatusNew      = "new"
	RunStatusVerified = "verified"
	RunStatusRejected = "rejected"
)

// playerRef is one entry of a run's players list: either a registered user
// (id and uri) or a guest identified only by name.
type playerRef struct {
	rel  string
	id   string
	name string
	uri  string
}

func (p playerRef) isGuest() bool {
	return p.id == ""
}

// Run is a single submitted speedrun
type Run struct {
	Resource

	GameID     string
	CategoryID string
	LevelID    string

	// Place is the leaderboard placement. It is only known when the run
	// was returned as part of a personal-bests listing, and 0 otherwise.
	Place int

	Status  string
	Comment string
	// Date is when the run was performed; nil when not recorded
	Date *time.Time
	// Time is the primary timing of the run
	Time   time.Duration
	Videos []string
	Splits string
	// Values maps variable ids to the chosen value ids
	Values map[string]string

	players []playerRef
}

// NewRun decodes a run fragment
func NewRun(payload any, t Transport) (*Run, error) {
	return newRun(payload, t, 0)
}

func newRun(payload any, t Transport, place int) (*Run, error) {
	f, err := newFields(KindRun, payload)
	if err != nil {
		return nil, err
	}
	res, err := decodeResource(f, t, false)
	if err != nil {
		return nil, err
	}

	r := &Run{Resource: res, Place: place}

	if r.players, err = decodePlayerRefs(f); err != nil {
		return nil, err
	}
	if r.GameID, err = f.requireString("game"); err != nil {
		return nil, err
	}
	if r.CategoryID, err = f.requireString("category"); err != nil {
		return nil, err
	}
	if r.LevelID, err = f.nullableString("level"); err != nil {
		return nil, err
	}

	status, err := f.requireObject("status")
	if err != nil {
		return nil, err
	}
	if r.Status, err = status.requireString("status"); err != nil {
		return nil, err
	}
	if r.Comment, err = f.nullableString("comment"); err != nil {
		return nil, err
	}
	if r.Date, err = f.nullableDate("date"); err != nil {
		return nil, err
	}

	times, err := f.requireObject("times")
	if err != nil {
		return nil, err
	}
	seconds, err := times.requireNumber("primary_t")
	if err != nil {
		return nil, err
	}
	r.Time = secondsToDuration(seconds)

	for _, link := range lookupArray(f.m, "videos", "links") {
		if uri := lookupString(link, "uri"); uri != "" {
			r.Videos = append(r.Videos, uri)
		}
	}
	r.Splits = lookupString(f.m, "splits", "uri")

	if values := lookupObject(f.m, "values"); len(values) > 0 {
		r.Values = make(map[string]string, len(values))
		for k, v := range values {
			if s, ok := v.(string); ok {
				r.Values[k] = s
			}
		}
	}

	return r, nil
}

func decodePlayerRefs(f fields) ([]playerRef, error) {
	items, err := f.requireArray("players")
	if err != nil {
		return nil, err
	}

	refs := make([]playerRef, 0, len(items))
	for i, item := range items {
		pf, err := newFields(KindRun, item)
		if err != nil {
			return nil, f.fail(fmt.Sprintf("players[%d]", i), "expected object")
		}
		pf.path = f.name(fmt.Sprintf("players[%d]", i))

		ref := playerRef{}
		if ref.rel, err = pf.nullableString("rel"); err != nil {
			return nil, err
		}
		if ref.id, err = pf.nullableString("id"); err != nil {
			return nil, err
		}
		if ref.isGuest() {
			if ref.name, err = pf.requireString("name"); err != nil {
				return nil, err
			}
			if ref.uri, err = pf.nullableString("uri"); err != nil {
				return nil, err
			}
		} else if ref.uri, err = pf.requireString("uri"); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// PlayerCount returns the number of runners credited on the run
func (r *Run) PlayerCount() int {
	return len(r.players)
}

// IsVerified reports whether the run has been verified by a moderator
func (r *Run) IsVerified() bool {
	return r.Status == RunStatusVerified
}

// FormatTime renders the primary time as H:MM:SS
func (r *Run) FormatTime() string {
	return FormatDuration(r.Time)
}

// Players gets the runners of the run. Registered runners are fetched one
// request at a time as the stream is consumed; guests cost no request.
// Use ResolvePlayers to fetch them concurrently instead.
func (r *Run) Players(ctx context.Context) *Stream[*User] {
	i := 0
	return newStream(func() (*User, bool, error) {
		if i >= len(r.players) {
			return nil, false, nil
		}
		ref := r.players[i]
		i++
		u, err := r.resolvePlayer(ctx, ref)
		if err != nil {
			return nil, false, err
		}
		return u, true, nil
	})
}

// Player gets the first runner listed on the run, or nil if there is none
func (r *Run) Player(ctx context.Context) (*User, error) {
	if len(r.players) == 0 {
		return nil, nil
	}
	return r.resolvePlayer(ctx, r.players[0])
}

func (r *Run) resolvePlayer(ctx context.Context, ref playerRef) (*User, error) {
	if ref.isGuest() {
		return newGuestUser(ref, r.t), nil
	}

	body, err := r.t.GetAbsolute(ctx, ref.uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get player %q of run %q: %w", ref.id, r.id, err)
	}
	data, err := dataOf(body)
	if err != nil {
		return nil, err
	}
	return NewUser(data, r.t)
}

// Game gets the game the run was performed for
func (r *Run) Game(ctx context.Context) (*Game, error) {
	return GetGame(ctx, r.t, r.GameID)
}

// Category gets the category the run was performed under
func (r *Run) Category(ctx context.Context) (*Category, error) {
	return GetCategory(ctx, r.t, r.CategoryID)
}

// Examiner gets the moderator who verified or rejected the run
func (r *Run) Examiner(ctx context.Context) (*User, error) {
	data, err := fetchRelatedData(ctx, r.t, r, "examiner", nil)
	if err != nil {
		return nil, err
	}
	return NewUser(data, r.t)
}

// Platform gets the raw platform object the run was performed on
func (r *Run) Platform(ctx context.Context) (map[string]any, error) {
	return r.rawRelation(ctx, "platform")
}

// Region gets the raw region object of the run's system
func (r *Run) Region(ctx context.Context) (map[string]any, error) {
	return r.rawRelation(ctx, "region")
}

func (r *Run) rawRelation(ctx context.Context, rel string) (map[string]any, error) {
	data, err := fetchRelatedData(ctx, r.t, r, rel, nil)
	if err != nil {
		return nil, err
	}
	m, ok := data.(map[string]any)
	if !ok {
		return nil, &DecodeError{Kind: rel, Field: "data", Reason: "expected object, got " + jsonType(data)}
	}
	return m, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds*1e6)) * time.Microsecond
}

// FormatDuration renders d the way run times are conventionally shown:
// H:MM:SS, with microseconds appended when present and whole days spelled
// out, e.g. 0:01:05, 1:02:03.500000, 1 day, 0:00:00.
func FormatDuration(d time.Duration) string {
	var sign string
	if d < 0 {
		sign = "-"
		d = -d
	}

	micros := int64(d / time.Microsecond)
	days := micros / (86400 * 1e6)
	micros -= days * 86400 * 1e6
	hours := micros / (3600 * 1e6)
	micros -= hours * 3600 * 1e6
	minutes := micros / (60 * 1e6)
	micros -= minutes * 60 * 1e6
	secs := micros / 1e6
	micros -= secs * 1e6

	s := fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	if micros > 0 {
		s += fmt.Sprintf(".%06d", micros)
	}
	if days > 0 {
		unit := "days"
		if days == 1 {
			unit = "day"
		}
		s = fmt.Sprintf("%d %s, %s", days, unit, s)
	}
	return sign + s
}
