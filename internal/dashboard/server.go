package dashboard

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/pronews/internal/metrics"
	"github.com/deusflow/pronews/internal/news"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// StatsFunc contributes extra sections to /metrics.
type StatsFunc func() map[string]interface{}

type Server struct {
	engine   *gin.Engine
	pipeline *Pipeline
	taxonomy *news.Taxonomy
	metrics  *metrics.Metrics
	refresh  time.Duration
	extra    map[string]StatsFunc
}

type pageData struct {
	Display        Display
	Options        []news.Category
	Selected       map[news.Category]bool
	UrgentOnly     bool
	RefreshSeconds int
	FilterError    string
}

// NewServer wires the dashboard routes. refresh is the browser
// auto-refresh period.
func NewServer(p *Pipeline, m *metrics.Metrics, refresh time.Duration, extra map[string]StatsFunc) *Server {
	s := &Server{
		engine:   gin.New(),
		pipeline: p,
		taxonomy: p.Classifier().Taxonomy(),
		metrics:  m,
		refresh:  refresh,
		extra:    extra,
	}

	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
	s.engine.SetHTMLTemplate(tmpl)
	s.engine.Use(gin.Recovery())

	s.engine.GET("/", s.handleIndex)
	s.engine.GET("/api/news", s.handleNews)
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", s.handleMetrics)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) options() []news.Category {
	return append(s.taxonomy.Categories(), news.CategoryOther)
}

func (s *Server) handleIndex(c *gin.Context) {
	data := pageData{
		Options:        s.options(),
		RefreshSeconds: int(s.refresh / time.Second),
	}

	filter, err := FilterFromQuery(s.taxonomy, c.Request.URL.Query())
	if err != nil {
		data.FilterError = err.Error()
		filter = DefaultFilter(s.taxonomy)
	}

	data.Display = s.pipeline.ComputeDisplay(c.Request.Context(), filter)
	data.Selected = filter.set()
	data.UrgentOnly = filter.UrgentOnly

	c.HTML(http.StatusOK, "index.html.tmpl", data)
}

func (s *Server) handleNews(c *gin.Context) {
	filter, err := FilterFromQuery(s.taxonomy, c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.pipeline.ComputeDisplay(c.Request.Context(), filter))
}

func (s *Server) handleHealth(c *gin.Context) {
	stats := s.metrics.GetStats()

	status := "ok"
	code := http.StatusOK
	if !s.metrics.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"last_pass":  stats["last_pass_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Server) handleMetrics(c *gin.Context) {
	stats := s.metrics.GetStats()
	for name, fn := range s.extra {
		stats[name] = fn()
	}
	c.JSON(http.StatusOK, stats)
}
