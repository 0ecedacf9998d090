package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"cardiodash/internal/charts"
	"cardiodash/internal/config"
	"cardiodash/internal/dashboard"
	"cardiodash/internal/resources"
)

//go:embed templates/*.html static
var embeddedFiles embed.FS

// Resources is the memoized dataset and model plus their load state.
type Resources interface {
	resources.Provider
	Status() resources.Status
}

// Deps are the collaborators the server renders with.
type Deps struct {
	Config     *config.Config
	Controller *dashboard.Controller
	Sessions   *dashboard.Sessions
	Resources  Resources
	Charts     *charts.Renderer
}

// Server is the dashboard web server.
type Server struct {
	router     *gin.Engine
	templates  *template.Template
	cfg        *config.Config
	controller *dashboard.Controller
	sessions   *dashboard.Sessions
	resources  Resources
	charts     *charts.Renderer

	backgroundOnce sync.Once
	background     template.CSS
}

// NewServer parses the embedded templates and registers every route.
func NewServer(deps Deps) (*Server, error) {
	if deps.Config == nil || deps.Controller == nil || deps.Sessions == nil || deps.Resources == nil {
		return nil, fmt.Errorf("ui server is missing dependencies")
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	gin.SetMode(deps.Config.Server.GinMode)
	s := &Server{
		router:     gin.New(),
		templates:  templates,
		cfg:        deps.Config,
		controller: deps.Controller,
		sessions:   deps.Sessions,
		resources:  deps.Resources,
		charts:     deps.Charts,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(otelgin.Middleware(s.cfg.Telemetry.ServiceName))
	s.router.Use(accessLog())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		log.Error().Err(err).Msg("[Static] embedded static files unavailable")
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleLanding)

	board := s.router.Group("/dashboard", s.sessionCookie())
	board.GET("", s.handleDashboard)
	board.POST("/sidebar", s.handleToggleSidebar)
	board.POST("/menu", s.handleSelectMenu)
	board.POST("/predict", s.handlePredict)

	s.router.GET("/charts/:name", s.handleChart)

	api := s.router.Group("/api/v1")
	api.POST("/predict", s.handleAPIPredict)
	api.GET("/performance", s.handleAPIPerformance)
}

// Handler is the router behind response compression.
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	log.Info().Str("addr", addr).Msg("[Server] starting dashboard")
	return serve(ctx, &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	})
}

func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", srv.Addr, err)
	}
	log.Info().Str("addr", srv.Addr).Msg("[Server] stopped")
	return nil
}
