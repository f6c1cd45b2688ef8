// Package http serves the employee-facing pages: the bills list, the new
// bill form, and the receipt endpoints. Controllers are built per request
// with their navigation and alert callbacks wired to the response.
package http

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"sync"

	"billed/internal/containers"
	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/middleware/ratelimit"
	"billed/internal/middleware/security"
	"billed/internal/middleware/trace"
	"billed/internal/session"
	"billed/internal/store"
	"billed/internal/views"
	appweb "billed/web"
)

const maxUploadBytes = 10 << 20

// Config holds the server configuration.
type Config struct {
	Addr        string
	ReceiptsDir string
	RateLimit   ratelimit.Config
}

type Server struct {
	http.Server

	renderer *views.Renderer
	store    store.Client
	sessions session.Store
	pending  *containers.PendingReceipts
	limiter  *ratelimit.Limiter
	logger   *log.Logger
	metrics  *metrics

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(cfg Config, client store.Client, sessions session.Store, logger *log.Logger) (*Server, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(log.Config{Level: log.LevelFromEnv()})
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr: cfg.Addr,
		},
		renderer: renderer,
		store:    client,
		sessions: sessions,
		pending:  containers.NewPendingReceipts(),
		limiter:  ratelimit.NewLimiter(cfg.RateLimit),
		logger:   logger.WithComponent(log.ComponentHTTP),
		metrics:  newMetrics(),
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssets(3600, static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}
	if cfg.ReceiptsDir != "" {
		receipts := http.StripPrefix("/receipts/", http.FileServer(http.Dir(cfg.ReceiptsDir)))
		mux.Handle("/receipts/", receipts)
	}

	mux.HandleFunc("/", s.instrument("/", s.handleRoot))
	mux.HandleFunc("/bills", s.instrument("/bills", s.handleBills))
	mux.HandleFunc("/bills/new", s.instrument("/bills/new", s.handleNewBill))
	mux.HandleFunc("/bills/new/file", s.instrument("/bills/new/file", s.handleChangeFile))
	mux.HandleFunc("/bills/receipt", s.instrument("/bills/receipt", s.handleReceiptModal))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.Handle("/metrics", s.metrics.handler())

	s.Server.Handler = security.Headers(security.DefaultHeadersConfig())(
		trace.Middleware(security.ClientIP, mux))

	return s, nil
}

// Shutdown stops the rate limiter cleanup and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// instrument counts each request by path, method, and response status.
func (s *Server) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)
		s.metrics.requests.WithLabelValues(path, r.Method, strconv.Itoa(rw.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, containers.PathBills, http.StatusSeeOther)
}

// redirect returns a Navigate callback bound to this response.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, done *bool) containers.Navigate {
	return func(pathname string) {
		if done != nil {
			*done = true
		}
		http.Redirect(w, r, pathname, http.StatusSeeOther)
	}
}

func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctrl := containers.NewBills(s.store, s.redirect(w, r, nil), s.logger)
	rows, err := ctrl.GetBills(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		// The page shows the failure message verbatim.
		w.WriteHeader(http.StatusInternalServerError)
		if rerr := s.renderer.Bills(w, views.BillsData{Error: err.Error()}); rerr != nil {
			s.logger.ErrorContext(r.Context(), "Bills error page render failed", log.FieldError, rerr)
		}
		return
	}

	if err := s.renderer.Bills(w, views.BillsData{Rows: rows}); err != nil {
		s.logger.ErrorContext(r.Context(), "Bills page render failed", log.FieldError, err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (s *Server) handleNewBill(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.renderer.NewBill(w, views.NewBillData{}); err != nil {
			s.logger.ErrorContext(r.Context(), "New bill page render failed", log.FieldError, err)
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	case http.MethodPost:
		if !s.limiter.Allow(security.ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}
		s.handleSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSubmit processes the new bill form. A receipt bundled with the
// submit is validated first, exactly like a separate file change would be.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	var alerts []string
	alert := func(msg string) { alerts = append(alerts, msg) }
	var navigated bool
	ctrl := containers.NewNewBill(s.store, s.sessions, s.pending,
		s.redirect(w, r, &navigated), alert, s.logger)

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		if err := ctrl.HandleChangeFile(r.Context(), header.Filename, file); err != nil {
			s.fileChangeError(w, r, err, alerts)
			return
		}
	}

	fields := containers.Fields{
		Type:       r.FormValue("expense-type"),
		Name:       r.FormValue("expense-name"),
		Date:       r.FormValue("datepicker"),
		Amount:     r.FormValue("amount"),
		VAT:        r.FormValue("vat"),
		Pct:        r.FormValue("pct"),
		Commentary: r.FormValue("commentary"),
	}

	err := ctrl.HandleSubmit(r.Context(), fields)
	if err == nil {
		s.metrics.billsSubmitted.Inc()
		if !navigated {
			http.Redirect(w, r, containers.PathBills, http.StatusSeeOther)
		}
		return
	}

	// The user stays on the form. Store failures were already logged with
	// their exact message by the controller.
	status := http.StatusInternalServerError
	if errors.Is(err, containers.ErrNoReceipt) || errors.Is(err, core.ErrInvalidAmount) {
		status = http.StatusUnprocessableEntity
	}
	if errors.Is(err, session.ErrNoUser) {
		http.Error(w, "session expired", http.StatusUnauthorized)
		return
	}
	s.renderNewBill(w, r, status, alerts)
}

func (s *Server) handleChangeFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.limiter.Allow(security.ClientIP(r)) {
		w.Header().Set("Retry-After", "60")
		http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var alerts []string
	alert := func(msg string) { alerts = append(alerts, msg) }
	ctrl := containers.NewNewBill(s.store, s.sessions, s.pending, nil, alert, s.logger)

	if err := ctrl.HandleChangeFile(r.Context(), header.Filename, file); err != nil {
		s.fileChangeError(w, r, err, alerts)
		return
	}
	http.Redirect(w, r, containers.PathNewBill, http.StatusSeeOther)
}

func (s *Server) fileChangeError(w http.ResponseWriter, r *http.Request, err error, alerts []string) {
	switch {
	case errors.Is(err, core.ErrUnsupportedFileType):
		s.metrics.receiptsRejected.Inc()
		s.renderNewBill(w, r, http.StatusUnprocessableEntity, alerts)
	case errors.Is(err, session.ErrNoUser):
		http.Error(w, "session expired", http.StatusUnauthorized)
	default:
		s.renderNewBill(w, r, http.StatusInternalServerError, alerts)
	}
}

func (s *Server) renderNewBill(w http.ResponseWriter, r *http.Request, status int, alerts []string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderer.NewBill(w, views.NewBillData{Alerts: alerts}); err != nil {
		s.logger.ErrorContext(r.Context(), "New bill page render failed", log.FieldError, err)
	}
}

func (s *Server) handleReceiptModal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctrl := containers.NewBills(s.store, nil, s.logger)
	modal := ctrl.HandleClickIconEye(r.URL.Query().Get("url"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Modal(w, modal); err != nil {
		s.logger.ErrorContext(r.Context(), "Receipt modal render failed", log.FieldError, err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}
