package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/s0up4200/srcom/speedrun"
)

// printer writes a result in the configured output format. Table output is
// produced by the caller's table function; json and yaml encode the view.
type printer struct {
	format string
}

func newPrinter(format string) (*printer, error) {
	switch format {
	case "table", "json", "yaml":
		return &printer{format: format}, nil
	default:
		return nil, fmt.Errorf("invalid output format: %s (must be 'table', 'json' or 'yaml')", format)
	}
}

func (p *printer) print(w io.Writer, view any, table func(*tabwriter.Writer)) error {
	switch p.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

// output prints with the printer for the configured format
func output(w io.Writer, view any, table func(*tabwriter.Writer)) error {
	p, err := newPrinter(cfg.Output.Format)
	if err != nil {
		return err
	}
	return p.print(w, view, table)
}

type gameView struct {
	ID           string         `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Abbreviation string         `json:"abbreviation" yaml:"abbreviation"`
	Released     int            `json:"released" yaml:"released"`
	WebLink      string         `json:"weblink" yaml:"weblink"`
	Categories   []categoryView `json:"categories,omitempty" yaml:"categories,omitempty"`
}

type categoryView struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Players string `json:"players" yaml:"players"`
}

type runView struct {
	Place    int      `json:"place,omitempty" yaml:"place,omitempty"`
	ID       string   `json:"id" yaml:"id"`
	Game     string   `json:"game" yaml:"game"`
	Category string   `json:"category" yaml:"category"`
	Time     string   `json:"time" yaml:"time"`
	Seconds  float64  `json:"seconds" yaml:"seconds"`
	Date     string   `json:"date,omitempty" yaml:"date,omitempty"`
	Status   string   `json:"status" yaml:"status"`
	Videos   []string `json:"videos,omitempty" yaml:"videos,omitempty"`
	WebLink  string   `json:"weblink" yaml:"weblink"`
}

type userView struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Guest   bool   `json:"guest,omitempty" yaml:"guest,omitempty"`
	Country string `json:"country,omitempty" yaml:"country,omitempty"`
	Twitch  string `json:"twitch,omitempty" yaml:"twitch,omitempty"`
	YouTube string `json:"youtube,omitempty" yaml:"youtube,omitempty"`
	WebLink string `json:"weblink,omitempty" yaml:"weblink,omitempty"`
}

func newGameView(g *speedrun.Game) gameView {
	return gameView{
		ID:           g.ID(),
		Name:         g.Name,
		Abbreviation: g.Abbreviation,
		Released:     g.Released,
		WebLink:      g.WebLink(),
	}
}

func newCategoryView(c *speedrun.Category) categoryView {
	return categoryView{
		ID:      c.ID(),
		Name:    c.Name,
		Type:    c.Type,
		Players: fmt.Sprintf("%s %d", c.Players.Type, c.Players.Value),
	}
}

func newRunView(r *speedrun.Run) runView {
	v := runView{
		Place:    r.Place,
		ID:       r.ID(),
		Game:     r.GameID,
		Category: r.CategoryID,
		Time:     r.FormatTime(),
		Seconds:  r.Time.Seconds(),
		Status:   r.Status,
		Videos:   r.Videos,
		WebLink:  r.WebLink(),
	}
	if r.Date != nil {
		v.Date = r.Date.Format("2006-01-02")
	}
	return v
}

func newRunViews(runs []*speedrun.Run) []runView {
	views := make([]runView, 0, len(runs))
	for _, r := range runs {
		views = append(views, newRunView(r))
	}
	return views
}

func newUserView(u *speedrun.User) userView {
	return userView{
		ID:      u.ID(),
		Name:    u.Name,
		Guest:   u.Guest,
		Country: u.Country,
		Twitch:  u.Twitch,
		YouTube: u.YouTube,
		WebLink: u.WebLink(),
	}
}

// runTable renders runs with their position in the list when no place is
// known
func runTable(runs []runView) func(*tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "#\tTIME\tDATE\tSTATUS\tRUN")
		for i, r := range runs {
			place := r.Place
			if place == 0 {
				place = i + 1
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", place, r.Time, dash(r.Date), r.Status, r.WebLink)
		}
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// parseVars turns repeated key=value flags into query parameters. Keys
// without a var- prefix are taken as variable ids.
func parseVars(pairs []string) (url.Values, error) {
	params := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid variable %q (want <variable>=<value>)", pair)
		}
		if !strings.HasPrefix(key, "var-") {
			key = "var-" + key
		}
		params.Set(key, value)
	}
	return params, nil
}
