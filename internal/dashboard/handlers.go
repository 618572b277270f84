package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/anatolykoptev/go_viral/internal/engine/radar"
	"github.com/anatolykoptev/go_viral/internal/engine/watchlist"
	"github.com/anatolykoptev/go_viral/internal/toolutil"
	"github.com/anatolykoptev/go_viral/internal/viewstate"
	"github.com/gin-gonic/gin"
)

// Index renders whatever screen the session is on.
func (s *Server) Index(c *gin.Context) {
	ctrl := s.existing(c)
	p := s.newPage(c, ctrl.Snapshot())
	if c.Query("saved") == "1" {
		p.Notice = &notice{Kind: "saved", Level: "ok", Text: p.T("saved")}
	}
	s.render(c, http.StatusOK, p)
}

// Search runs the pipeline for the submitted form and shows the ranked cards.
func (s *Server) Search(c *gin.Context) {
	ctrl := s.controller(c)
	engine.IncrDashboardSearches()

	q := engine.RankQuery{
		Credentials: c.PostForm("api_key"),
		Keyword:     c.PostForm("keyword"),
		Window:      engine.ParseWindow(c.PostForm("window")),
	}
	res, err := s.cfg.Ranker.Rank(c.Request.Context(), q)

	tr := s.translator(c)
	var n *notice
	switch {
	case errors.Is(err, engine.ErrMissingCredentials):
		n = &notice{Kind: string(engine.KindMissingInput), Level: "warn", Text: tr.T("missing_key")}
	case errors.Is(err, engine.ErrMissingKeyword):
		n = &notice{Kind: string(engine.KindMissingInput), Level: "warn", Text: tr.T("missing_keyword")}
	case err != nil:
		ctrl.ShowResults(viewstate.Search{Keyword: q.Keyword, Window: q.Window, Result: res})
		n = &notice{Kind: string(engine.KindUpstream), Level: "error", Text: tr.T("upstream")}
	case res.Status == engine.StatusEmpty:
		ctrl.ShowResults(viewstate.Search{Keyword: res.Keyword, Window: q.Window, Result: res})
		n = &notice{Kind: string(engine.StatusEmpty), Level: "warn", Text: tr.T("empty")}
	default:
		ctrl.ShowResults(viewstate.Search{Keyword: res.Keyword, Window: q.Window, Result: res})
		n = &notice{Kind: string(engine.StatusOK), Level: "ok", Text: tr.Tf("found", len(res.Videos))}
	}

	p := s.newPage(c, ctrl.Snapshot())
	p.Notice = n
	if err != nil {
		// echo the rejected input back into the form
		p.Keyword = engine.NormKeyword(q.Keyword)
		p.selectWindow(q.Window)
	}
	s.render(c, http.StatusOK, p)
}

// Analyze switches the session to the detail view of one card.
func (s *Server) Analyze(c *gin.Context) {
	ctrl := s.existing(c)
	_, err := ctrl.Analyze(c.Param("id"))
	if err != nil {
		p := s.newPage(c, ctrl.Snapshot())
		if errors.Is(err, viewstate.ErrNotOnDashboard) {
			p.Notice = &notice{Kind: "leave_detail", Level: "warn", Text: p.T("leave_detail")}
			s.render(c, http.StatusConflict, p)
			return
		}
		p.Notice = &notice{Kind: "stale", Level: "warn", Text: p.T("session_expired")}
		s.render(c, http.StatusNotFound, p)
		return
	}
	s.render(c, http.StatusOK, s.newPage(c, ctrl.Snapshot()))
}

// Back returns the session to the dashboard.
func (s *Server) Back(c *gin.Context) {
	ctrl := s.existing(c)
	ctrl.Back()
	c.Redirect(http.StatusSeeOther, "/?lang="+s.lang(c))
}

// Save stores the selected video in the watchlist.
func (s *Server) Save(c *gin.Context) {
	ctrl := s.existing(c)
	st := ctrl.Snapshot()
	if st.View != viewstate.Detail || st.Selected == nil || st.Selected.ID != c.Param("id") {
		p := s.newPage(c, st)
		p.Notice = &notice{Kind: "stale", Level: "warn", Text: p.T("session_expired")}
		s.render(c, http.StatusNotFound, p)
		return
	}
	if s.cfg.Watchlist == nil {
		p := s.newPage(c, st)
		p.Notice = &notice{Kind: "no_watchlist", Level: "warn", Text: p.T("no_watchlist")}
		s.render(c, http.StatusServiceUnavailable, p)
		return
	}

	keyword := ""
	if st.Search != nil {
		keyword = st.Search.Keyword
	}
	if _, err := s.cfg.Watchlist.Add(c.Request.Context(), watchlist.FromVideo(*st.Selected, keyword)); err != nil {
		p := s.newPage(c, st)
		p.Notice = &notice{Kind: "save_failed", Level: "error", Text: p.T("save_failed")}
		s.render(c, http.StatusInternalServerError, p)
		return
	}
	c.Redirect(http.StatusSeeOther, "/?saved=1&lang="+s.lang(c))
}

// APIRank is the JSON form of the search: GET /api/rank?keyword=..&window=..
// The key comes from the X-API-Key header or the api_key parameter.
func (s *Server) APIRank(c *gin.Context) {
	key := c.GetHeader("X-API-Key")
	if key == "" {
		key = c.Query("api_key")
	}
	res, err := s.cfg.Ranker.Rank(c.Request.Context(), engine.RankQuery{
		Credentials: key,
		Keyword:     c.Query("keyword"),
		Window:      engine.ParseWindow(c.Query("window")),
	})
	if err != nil {
		status := http.StatusBadGateway
		kind := engine.ErrorKindOf(err)
		if kind == engine.KindMissingInput {
			status = http.StatusBadRequest
		}
		msg := engine.ErrUpstream.Error()
		var re *engine.RankError
		if kind == engine.KindMissingInput && errors.As(err, &re) {
			msg = re.Err.Error()
		}
		c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"kind": kind, "message": msg}})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	res.Videos = res.Videos[:toolutil.ClampLimit(limit, len(res.Videos))]
	c.JSON(http.StatusOK, res)
}

// APIWatchlist lists saved shorts.
func (s *Server) APIWatchlist(c *gin.Context) {
	if s.cfg.Watchlist == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "watchlist is not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := s.cfg.Watchlist.List(c.Request.Context(), limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to list watchlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

// APIWatchlistRemove deletes a saved short.
func (s *Server) APIWatchlistRemove(c *gin.Context) {
	if s.cfg.Watchlist == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "watchlist is not configured"})
		return
	}
	removed, err := s.cfg.Watchlist.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to remove"})
		return
	}
	if !removed {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not in watchlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": c.Param("id")})
}

func (s *Server) lang(c *gin.Context) string {
	return toolutil.NormLang(c.Query("lang"), s.cfg.DefaultLang)
}

func (s *Server) translator(c *gin.Context) translator {
	return translator{lang: s.lang(c)}
}

func (s *Server) render(c *gin.Context, status int, p *page) {
	if p.State.View == viewstate.Detail && p.State.Selected != nil {
		p.Detail = s.buildDetail(c, *p.State.Selected, p.translator)
	}
	c.HTML(status, "page", p)
}

func (s *Server) buildDetail(c *gin.Context, v engine.Video, tr translator) *detail {
	in := radar.BuildInsight(v, tr.lang)
	if s.cfg.LLM != nil {
		in.AINote = s.aiNote(c.Request.Context(), v, in, tr.lang)
	}
	return newDetail(v, in, tr)
}
