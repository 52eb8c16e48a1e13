package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/dashboard"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/store"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/view"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	msgFeedFailed  = "Could not load reviews from that feed."
	msgChatClosed  = "This chat was replaced by a newer analysis."
	msgNoArchive   = "The report archive is disabled."
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// ReportStore archives finished analyses and reads them back.
type ReportStore interface {
	dashboard.Archive
	GetReport(ctx context.Context, id string) (*store.Report, error)
	ListReports(ctx context.Context, limit int) ([]store.ReportSummary, error)
}

// Importer loads newline separated reviews from a feed URL.
type Importer interface {
	Reviews(ctx context.Context, feedURL string) (string, error)
}

type Deps struct {
	Provider llm.Provider
	Renderer *view.Renderer
	// Reports and Feed are optional.
	Reports     ReportStore
	Feed        Importer
	FeedTimeout time.Duration
	// Zero keeps the registry defaults.
	DashboardIdleTTL time.Duration
	MaxDashboards    int
}

type AnalyzeRequest struct {
	Reviews  string `json:"reviews"`
	Thinking bool   `json:"thinking"`
}

type MessageRequest struct {
	Message string `json:"message"`
}

type ChatOpenRequest struct {
	Open bool `json:"open"`
}

type ImportRequest struct {
	URL string `json:"url"`
}

// SnapshotMessage is pushed over the websocket after every state change.
type SnapshotMessage struct {
	Type   string             `json:"type"`
	State  dashboard.Snapshot `json:"state"`
	Report string             `json:"report"`
	Chat   string             `json:"chat"`
}

type Server struct {
	echo        *echo.Echo
	dashboards  *dashboard.Registry
	renderer    *view.Renderer
	reports     ReportStore
	feed        Importer
	feedTimeout time.Duration
	upgrader    websocket.Upgrader
}

func NewServer(deps Deps) (*Server, error) {
	if deps.Provider == nil {
		return nil, errors.New("server: provider is required")
	}
	if deps.Renderer == nil {
		return nil, errors.New("server: renderer is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover(), middleware.CORS())

	var archive dashboard.Archive
	if deps.Reports != nil {
		archive = deps.Reports
	}

	dashboards := dashboard.NewRegistry(deps.Provider, archive)
	if deps.DashboardIdleTTL > 0 {
		dashboards.IdleTTL = deps.DashboardIdleTTL
	}
	if deps.MaxDashboards > 0 {
		dashboards.MaxDashboards = deps.MaxDashboards
	}

	s := &Server{
		echo:        e,
		dashboards:  dashboards,
		renderer:    deps.Renderer,
		reports:     deps.Reports,
		feed:        deps.Feed,
		feedTimeout: deps.FeedTimeout,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.newDashboard)
	s.echo.GET("/d/:id", s.getPage)
	s.echo.GET("/d/:id/view", s.getReportView)

	api := s.echo.Group("/api")
	api.GET("/dashboards/:id", s.getSnapshot)
	api.POST("/dashboards/:id/analyze", s.analyze)
	api.POST("/dashboards/:id/chat", s.sendMessage)
	api.POST("/dashboards/:id/chat/open", s.setChatOpen)
	api.POST("/dashboards/:id/import", s.importFeed)
	api.GET("/dashboards/:id/ws", s.streamSnapshots)

	api.GET("/reports", s.listReports)
	api.GET("/reports/:id", s.getReport)
}

func (s *Server) dashboard(c echo.Context) (*dashboard.Dashboard, error) {
	d, ok := s.dashboards.Get(c.Param("id"))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Your dashboard was not found")
	}
	return d, nil
}

func (s *Server) newDashboard(c echo.Context) error {
	d := s.dashboards.Create()
	log.Printf("server: dashboard created: id=%s total=%d", d.ID, s.dashboards.Len())
	return c.Redirect(http.StatusFound, "/d/"+d.ID)
}

func (s *Server) getPage(c echo.Context) error {
	d, ok := s.dashboards.Get(c.Param("id"))
	if !ok {
		// unknown ids, e.g. after a restart, get a fresh dashboard
		return c.Redirect(http.StatusFound, "/")
	}

	var buf bytes.Buffer
	if err := s.renderer.Page(&buf, d.Snapshot()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) getReportView(c echo.Context) error {
	d, err := s.dashboard(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.renderer.Report(&buf, d.Snapshot()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (s *Server) getSnapshot(c echo.Context) error {
	d, err := s.dashboard(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.Snapshot())
}

func (s *Server) analyze(c echo.Context) error {
	d, err := s.dashboard(c)
	if err != nil {
		return err
	}

	req := new(AnalyzeRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	res, err := d.Analyze(ctx, req.Reviews, llm.ModeFromThinking(req.Thinking))
	switch {
	case errors.Is(err, llm.ErrEmptyInput):
		return echo.NewHTTPError(http.StatusBadRequest, dashboard.MsgEmptyInput)
	case errors.Is(err, dashboard.ErrBusy):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusBadGateway, dashboard.MsgAnalysisFailed)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) sendMessage(c echo.Context) error {
	d, err := s.dashboard(c)
	if err != nil {
		return err
	}

	req := new(MessageRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	reply, err := d.SendChat(ctx, req.Message)
	if err != nil {
		return chatError(err)
	}
	return c.JSON(http.StatusOK, reply)
}

func chatError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, llm.ErrEmptyInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, llm.ErrNotInitialized), errors.Is(err, dashboard.ErrBusy):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, llm.ErrSessionClosed):
		return echo.NewHTTPError(http.StatusConflict, msgChatClosed)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) setChatOpen(c echo.Context) error {
	d, err := s.dashboard(c)
	if err != nil {
		return err
	}

	req := new(ChatOpenRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := d.SetChatOpen(req.Open); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, d.Snapshot())
}

func (s *Server) importFeed(c echo.Context) error {
	if s.feed == nil {
		return echo.NewHTTPError(http.StatusNotFound, "feed import is disabled")
	}
	d, err := s.dashboard(c)
	if err != nil {
		return err
	}

	req := new(ImportRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if s.feedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.feedTimeout)
		defer cancel()
	}

	reviews, err := s.feed.Reviews(ctx, req.URL)
	if err != nil {
		log.Printf("server: feed import failed: dashboard=%s url=%q err=%v", d.ID, req.URL, err)
		return echo.NewHTTPError(http.StatusBadGateway, msgFeedFailed)
	}
	d.SetInput(reviews)
	return c.JSON(http.StatusOK, map[string]string{"reviews": reviews})
}

func (s *Server) streamSnapshots(c echo.Context) error {
	d, err := s.dashboard(c)
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		return nil
	}
	defer conn.Close()

	updates, cancel := d.Subscribe()
	defer cancel()

	// The client never sends anything; reading only notices the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return nil
			}
		case snap, ok := <-updates:
			if !ok {
				// dashboard evicted
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "dashboard closed"),
					time.Now().Add(wsWriteTimeout))
				return nil
			}
			msg, err := s.snapshotMessage(snap)
			if err != nil {
				log.Printf("server: render snapshot failed: dashboard=%s version=%d err=%v", d.ID, snap.Version, err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return nil
			}
		}
	}
}

func (s *Server) snapshotMessage(snap dashboard.Snapshot) (SnapshotMessage, error) {
	report, chat, err := s.renderer.Fragments(snap)
	if err != nil {
		return SnapshotMessage{}, err
	}
	return SnapshotMessage{Type: "snapshot", State: snap, Report: report, Chat: chat}, nil
}

func (s *Server) listReports(c echo.Context) error {
	if s.reports == nil {
		return echo.NewHTTPError(http.StatusNotFound, msgNoArchive)
	}

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid limit %q", v))
		}
		limit = n
	}

	list, err := s.reports.ListReports(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) getReport(c echo.Context) error {
	if s.reports == nil {
		return echo.NewHTTPError(http.StatusNotFound, msgNoArchive)
	}

	r, err := s.reports.GetReport(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Your report was not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}
