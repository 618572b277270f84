// Package dashboard serves the radar UI: a control panel, a grid of ranked
// cards and a detail view for one selected short.
package dashboard

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_viral/internal/engine"
	"github.com/anatolykoptev/go_viral/internal/engine/watchlist"
	"github.com/anatolykoptev/go_viral/internal/viewstate"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const sessionCookie = "gv_session"

// Ranker is the pipeline the dashboard drives.
type Ranker interface {
	Rank(ctx context.Context, q engine.RankQuery) (engine.RankResult, error)
}

// Config wires the dashboard's dependencies.
type Config struct {
	Ranker       Ranker
	Watchlist    watchlist.Store // nil disables saving
	LLM          engine.CompleteFunc
	HasServerKey bool
	DefaultLang  string
	SessionTTL   time.Duration
	NoteTTL      time.Duration
	MaxSessions  int
}

// Server owns the gin engine and the session registry.
type Server struct {
	cfg      Config
	sessions *viewstate.Registry
	router   *gin.Engine
	notes    *noteCache
}

// New builds the server and registers its routes.
func New(cfg Config) *Server {
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = "en"
	}
	s := &Server{
		cfg:      cfg,
		sessions: viewstate.NewRegistry(cfg.SessionTTL, cfg.MaxSessions),
		notes:    newNoteCache(cfg.NoteTTL),
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.tmpl")))
	SetupRoutes(r, s)
	s.router = r
	return s
}

// Handler exposes the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go s.sweepLoop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	slog.Info("dashboard: listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sessions.Sweep()
			s.notes.sweep()
		}
	}
}

// SetupRoutes registers all dashboard routes on r.
func SetupRoutes(r *gin.Engine, s *Server) {
	r.GET("/", s.Index)
	r.POST("/search", s.Search)
	r.POST("/analyze/:id", s.Analyze)
	r.POST("/back", s.Back)
	r.POST("/watchlist/:id", s.Save)

	api := r.Group("/api")
	api.GET("/rank", s.APIRank)
	api.GET("/watchlist", s.APIWatchlist)
	api.DELETE("/watchlist/:id", s.APIWatchlistRemove)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, engine.FormatMetrics())
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("dashboard: request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)))
	}
}

// controller resolves (or starts) the caller's session and refreshes its cookie.
func (s *Server) controller(c *gin.Context) *viewstate.Controller {
	id, _ := c.Cookie(sessionCookie)
	id, ctrl := s.sessions.Get(id)
	s.setCookie(c, id)
	return ctrl
}

// existing returns the caller's stored session, or a blank dashboard that is
// never stored when the caller has none. Only a search opens a session.
func (s *Server) existing(c *gin.Context) *viewstate.Controller {
	id, _ := c.Cookie(sessionCookie)
	if ctrl, ok := s.sessions.Lookup(id); ok {
		s.setCookie(c, id)
		return ctrl
	}
	return &viewstate.Controller{}
}

func (s *Server) setCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int((12 * time.Hour).Seconds()), "/", "", false, true)
}
