// Package gin serves the classload web form using the gin framework.
package gin

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fwojciec/classload"
	"github.com/gin-gonic/gin"
)

// DefaultScrapeTimeout bounds a scrape started from the web form.
const DefaultScrapeTimeout = 5 * time.Minute

// ShutdownTimeout bounds how long Close waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Server serves the web form, stored run pages and a small JSON API.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *gin.Engine

	// Addr is the bind address, e.g. ":8080".
	Addr string

	// ScrapeTimeout bounds a single scrape. Zero means DefaultScrapeTimeout.
	ScrapeTimeout time.Duration

	Scraper      classload.Scraper
	RunService   classload.RunService
	ReportWriter classload.ReportWriter
	Logger       *slog.Logger
}

// NewServer returns a Server with routes registered. Services must be set
// before the server handles requests.
func NewServer() *Server {
	s := &Server{
		router: gin.New(),
		Logger: slog.New(slog.DiscardHandler),
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.router.SetHTMLTemplate(templates)
	s.router.Use(gin.Recovery(), s.logRequests())

	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/runs", s.handleCreateRun)
	s.router.GET("/runs/:id", s.handleShowRun)
	s.router.GET("/runs/:id/download", s.handleDownloadRun)

	api := s.router.Group("/api")
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)
	api.DELETE("/runs/:id", s.handleDeleteRun)

	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Open starts listening on Addr and serves in a separate goroutine.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("serve", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// logRequests logs one line per request with the server logger.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		s.Logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		)
	}
}

type runForm struct {
	Term     string `form:"term"`
	Subject  string `form:"subject"`
	Category string `form:"category"`
}

type indexPage struct {
	Form  runForm
	Error string
	Runs  []*classload.Run
}

type runPage struct {
	Run     *classload.Run
	Report  *classload.Report
	Columns []string
}

func (s *Server) handleIndex(c *gin.Context) {
	page := indexPage{Form: runForm{Category: classload.DefaultCategory}}
	page.Runs = s.recentRuns(c.Request.Context())
	c.HTML(http.StatusOK, "index.html", page)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCreateRun(c *gin.Context) {
	var form runForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderForm(c, form, classload.Errorf(classload.EINVALID, "invalid form: %v", err))
		return
	}

	cfg := classload.NewRunConfig(form.Term, form.Subject, form.Category, "")
	if err := cfg.Validate(); err != nil {
		s.renderForm(c, form, err)
		return
	}

	timeout := s.ScrapeTimeout
	if timeout <= 0 {
		timeout = DefaultScrapeTimeout
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	report, err := s.Scraper.Scrape(ctx, cfg, nil)
	if err != nil {
		s.Logger.Error("scrape", "cfg", cfg.String(), "err", err)
		c.HTML(http.StatusBadGateway, "error.html", gin.H{
			"Status":  http.StatusBadGateway,
			"Message": "Could not load the class schedule: " + err.Error(),
		})
		return
	}

	run := classload.NewRun(report)
	if err := s.RunService.CreateRun(c.Request.Context(), run); err != nil {
		s.renderError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/runs/"+run.ID)
}

func (s *Server) handleShowRun(c *gin.Context) {
	run, err := s.RunService.FindRunByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "run.html", runPage{
		Run:     run,
		Report:  run.Report(),
		Columns: classload.Columns,
	})
}

func (s *Server) handleDownloadRun(c *gin.Context) {
	run, err := s.RunService.FindRunByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.ReportWriter.WriteReport(&buf, run.Report()); err != nil {
		s.renderError(c, err)
		return
	}

	name := filepath.Base(run.OutputPath)
	if run.OutputPath == "" {
		name = classload.DefaultOutputPath(run.Subject, run.Term)
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) handleListRuns(c *gin.Context) {
	var filter classload.RunFilter
	if v := c.Query("subject"); v != "" {
		filter.Subject = &v
	}
	if v := c.Query("term"); v != "" {
		filter.Term = &v
	}

	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		s.writeError(c, err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		s.writeError(c, err)
		return
	}

	runs, err := s.RunService.FindRuns(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if runs == nil {
		runs = []*classload.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := s.RunService.FindRunByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleDeleteRun(c *gin.Context) {
	if err := s.RunService.DeleteRun(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recentRuns lists the latest runs for the index page. Failures only hide
// the list.
func (s *Server) recentRuns(ctx context.Context) []*classload.Run {
	runs, err := s.RunService.FindRuns(ctx, classload.RunFilter{Limit: 10})
	if err != nil {
		s.Logger.Error("recent runs", "err", err)
		return nil
	}
	return runs
}

func (s *Server) renderForm(c *gin.Context, form runForm, err error) {
	c.HTML(errorStatus(err), "index.html", indexPage{
		Form:  form,
		Error: classload.ErrorMessage(err),
		Runs:  s.recentRuns(c.Request.Context()),
	})
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
	}
	c.HTML(status, "error.html", gin.H{
		"Status":  status,
		"Message": classload.ErrorMessage(err),
	})
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, gin.H{"error": classload.ErrorMessage(err)})
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, classload.Errorf(classload.EINVALID, "invalid %s %q", key, v)
	}
	return n, nil
}

var codes = map[string]int{
	classload.ECONFLICT: http.StatusConflict,
	classload.EINVALID:  http.StatusBadRequest,
	classload.ENOTFOUND: http.StatusNotFound,
	classload.EINTERNAL: http.StatusInternalServerError,
}

// errorStatus maps an application error code to an HTTP status.
func errorStatus(err error) int {
	if status, ok := codes[classload.ErrorCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
