package filter

import (
	"time"

	"github.com/s0up4200/srcom/speedrun"
)

// RunInfo is the flat view of a run that filter expressions see
type RunInfo struct {
	ID       string
	Game     string
	Category string
	Level    string
	Place    int
	// Time is the primary time in seconds
	Time     float64
	Date     time.Time
	HasDate  bool
	Status   string
	Verified bool
	Comment  string
	Videos   []string
	HasVideo bool
	Players  int
	Values   map[string]string

	// Run is the source run, nil when RunInfo was built by hand
	Run *speedrun.Run
}

// NewRunInfo builds the filter view of r
func NewRunInfo(r *speedrun.Run) RunInfo {
	info := RunInfo{
		ID:       r.ID(),
		Game:     r.GameID,
		Category: r.CategoryID,
		Level:    r.LevelID,
		Place:    r.Place,
		Time:     r.Time.Seconds(),
		Status:   r.Status,
		Verified: r.IsVerified(),
		Comment:  r.Comment,
		Videos:   r.Videos,
		HasVideo: len(r.Videos) > 0,
		Players:  r.PlayerCount(),
		Values:   r.Values,
		Run:      r,
	}
	if r.Date != nil {
		info.Date = *r.Date
		info.HasDate = true
	}
	return info
}
