package dashboard

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/anatolykoptev/go_viral/internal/engine/radar"
	"github.com/anatolykoptev/go_viral/internal/viewstate"
	"github.com/gin-gonic/gin"
)

// page is everything a render needs. State is passed in explicitly from the session.
type page struct {
	translator
	Lang         string
	State        viewstate.State
	Keyword      string
	Windows      []windowOption
	Mode         string
	Notice       *notice
	Cards        []card
	Detail       *detail
	HasServerKey bool
}

type notice struct {
	Kind  string
	Level string // ok | warn | error
	Text  string
}

type windowOption struct {
	Name     string
	Label    string
	Hours    int
	Selected bool
}

type card struct {
	ID      string
	Title   string
	URL     string
	Thumb   string
	VPH     int64
	Channel string
	Stats   string
	Date    string
	Hot     bool
	Surging bool
}

type detail struct {
	ID        string
	Title     string
	URL       string
	Thumb     string
	VPH       int64
	Views     string
	Hours     float64
	Channel   string
	TierLabel string
	Summary   string
	Points    []string
	AINote    string
}

func (s *Server) newPage(c *gin.Context, st viewstate.State) *page {
	tr := s.translator(c)
	p := &page{
		translator:   tr,
		Lang:         tr.lang,
		State:        st,
		HasServerKey: s.cfg.HasServerKey,
	}
	w := engine.DefaultWindow
	if st.Search != nil {
		p.Keyword = st.Search.Keyword
		w = st.Search.Window
		for _, v := range st.Search.Result.Videos {
			p.Cards = append(p.Cards, newCard(v, tr))
		}
	}
	p.selectWindow(w)
	return p
}

func (p *page) selectWindow(w engine.Window) {
	p.Windows = p.Windows[:0]
	label := ""
	for _, opt := range engine.Windows {
		o := windowOption{
			Name:     opt.Name,
			Label:    p.T("window_" + opt.Name),
			Hours:    opt.Hours,
			Selected: opt.Hours == w.Hours,
		}
		if o.Selected {
			label = o.Label
		}
		p.Windows = append(p.Windows, o)
	}
	if label == "" {
		label = w.Name
	}
	p.Mode = p.Tf("mode", label)
}

func newCard(v engine.Video, tr translator) card {
	return card{
		ID:      v.ID,
		Title:   engine.TruncateRunes(v.Title, 90, "…"),
		URL:     v.URL(),
		Thumb:   v.Thumbnail,
		VPH:     v.HeatScore,
		Channel: v.ChannelName,
		Stats:   fmt.Sprintf("%s • %s", tr.Tf("total_views", engine.FormatThousands(v.ViewCount)), tr.Tf("hours_ago", engine.RoundHours(v.AgeHours))),
		Date:    tr.Tf("published", v.PublishedAt.Format("2006-01-02")),
		Hot:     v.HeatScore >= 1000,
		Surging: radar.TierOf(v.HeatScore) == radar.TierExplosive,
	}
}

func newDetail(v engine.Video, in radar.Insight, tr translator) *detail {
	return &detail{
		ID:        v.ID,
		Title:     v.Title,
		URL:       v.URL(),
		Thumb:     v.Thumbnail,
		VPH:       v.HeatScore,
		Views:     engine.FormatThousands(v.ViewCount),
		Hours:     engine.RoundHours(v.AgeHours),
		Channel:   v.ChannelName,
		TierLabel: tr.T("tier_" + in.Tier),
		Summary:   in.Summary,
		Points:    in.Points,
		AINote:    in.AINote,
	}
}

// aiNote asks the LLM once per video snapshot and language and reuses the answer until it expires.
func (s *Server) aiNote(ctx context.Context, v engine.Video, in radar.Insight, lang string) string {
	key := noteKey(v, lang)
	if note, ok := s.notes.get(key); ok {
		return note
	}
	note := radar.Enrich(ctx, s.cfg.LLM, v, in, lang).AINote
	if note != "" {
		s.notes.set(key, note)
	}
	return note
}
