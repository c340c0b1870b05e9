// Package web serves the HTML front end and a small JSON API.
package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dpriskorn/WikidataPaperFinder/internal/resolver"
)

//go:embed templates/*.html
var templateFS embed.FS

// Runner resolves one reference text into a finished record.
type Runner interface {
	Resolve(ctx context.Context, referenceText string) *resolver.Record
}

// Server holds the handlers' dependencies.
type Server struct {
	runner Runner
	logger *slog.Logger
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(runner Runner, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{runner: runner, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	RegisterPageRoutes(r, s)
	RegisterAPIRoutes(r, s)
	return r
}

// RegisterPageRoutes registers the HTML pages.
func RegisterPageRoutes(r *gin.Engine, s *Server) {
	r.GET("/", s.handleIndex)
	r.POST("/", s.handleSubmit)
	r.GET("/search", s.handleSearch)
}

// RegisterAPIRoutes registers the JSON endpoints.
func RegisterAPIRoutes(r *gin.Engine, s *Server) {
	r.GET("/health", handleHealth)
	g := r.Group("/api")
	g.GET("/resolve", s.handleResolveJSON)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": "Search", "ReferenceText": ""})
}

func (s *Server) handleSubmit(c *gin.Context) {
	s.renderResolution(c, c.PostForm("reference_text"))
}

func (s *Server) handleSearch(c *gin.Context) {
	s.renderResolution(c, c.Query("reference_text"))
}

func (s *Server) renderResolution(c *gin.Context, referenceText string) {
	referenceText = strings.TrimSpace(referenceText)
	if referenceText == "" {
		c.HTML(http.StatusBadRequest, "index.html", gin.H{
			"Title":         "Search",
			"ReferenceText": "",
			"Error":         "Please enter a reference.",
		})
		return
	}

	rec := s.runner.Resolve(c.Request.Context(), referenceText)
	s.logger.Info("reference resolved", "record", rec.ID, "status", rec.Status, "qid", rec.JournalQID)

	if !resolver.Executed(rec) {
		status := rec.Status
		if status == "" {
			status = "The reference could not be resolved."
		}
		c.HTML(http.StatusUnprocessableEntity, "error.html", gin.H{
			"Title":         "Error",
			"ReferenceText": rec.ReferenceText,
			"Status":        status,
		})
		return
	}

	c.HTML(http.StatusOK, "results.html", newResultsView(rec))
}

func (s *Server) handleResolveJSON(c *gin.Context) {
	referenceText := strings.TrimSpace(c.Query("reference_text"))
	if referenceText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference_text is required"})
		return
	}

	rec := s.runner.Resolve(c.Request.Context(), referenceText)
	c.JSON(http.StatusOK, gin.H{
		"record":     rec,
		"succeeded":  resolver.Succeeded(rec),
		"query_link": resolver.QueryLink(rec),
	})
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
