package httpserver

// HTTP API over the supply series: JSON endpoints for the data and the
// tooltip lookup, a PNG endpoint for the rendered chart, and the wallet
// directory content.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"zpool-charts/internal/chart/render"
	"zpool-charts/internal/chart/scale"
	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/chart/theme"
	"zpool-charts/internal/content"
	"zpool-charts/internal/export"
	logging "zpool-charts/internal/infra/log"
)

// SeriesSource exposes the chart session's state to the handlers.
type SeriesSource interface {
	State() series.State
	Err() error
	Points() []series.Point
}

// BalanceSource returns the latest known pool balances.
type BalanceSource func() export.BalanceSnapshot

type Config struct {
	Series     SeriesSource
	Balances   BalanceSource
	Wallets    *content.Directory
	RatePerSec int
	Burst      int
}

type Server struct {
	cfg     Config
	router  *mux.Router
	limiter *rate.Limiter
}

func New(cfg Config) *Server {
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RatePerSec * 2
	}
	if cfg.Balances == nil {
		cfg.Balances = func() export.BalanceSnapshot { return export.BalanceSnapshot{} }
	}

	s := &Server{
		cfg:     cfg,
		router:  mux.NewRouter(),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
	}

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/shielded-supply", s.handleSupply).Methods(http.MethodGet)
	api.HandleFunc("/shielded-supply/nearest", s.handleNearest).Methods(http.MethodGet)
	api.HandleFunc("/wallets", s.handleWallets).Methods(http.MethodGet)

	s.router.HandleFunc("/chart/shielded-supply.png", s.handleChartPNG).Methods(http.MethodGet)

	s.router.Use(metricsMiddleware)
	s.router.Use(s.rateLimitMiddleware)
	s.router.Use(accessLogMiddleware)

	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.LogDebug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// readySeries resolves the current series or writes the loading/error
// response and returns false.
func (s *Server) readySeries(w http.ResponseWriter) ([]series.Point, bool) {
	switch s.cfg.Series.State() {
	case series.StateReady:
		return s.cfg.Series.Points(), true
	case series.StateError:
		logging.LogWarn("Serving series request in error state", zap.Error(s.cfg.Series.Err()))
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return nil, false
	default:
		w.Header().Set("Retry-After", "5")
		http.Error(w, "series is still loading", http.StatusServiceUnavailable)
		return nil, false
	}
}

type supplyEntry struct {
	Close  string  `json:"close"`
	Supply float64 `json:"supply"`
}

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	points, ok := s.readySeries(w)
	if !ok {
		return
	}

	out := make([]supplyEntry, 0, len(points))
	for _, p := range points {
		out = append(out, supplyEntry{Close: p.Date.Format(series.CloseLayout), Supply: p.Supply})
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, out)
}

type nearestResponse struct {
	Close  string  `json:"close"`
	Supply float64 `json:"supply"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// handleNearest is the tooltip lookup: a date maps to the temporally
// closest observation plus its chart coordinates for the requested
// dimensions.
func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	points, ok := s.readySeries(w)
	if !ok {
		return
	}

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		http.Error(w, "missing date parameter", http.StatusBadRequest)
		return
	}
	date, err := parseDate(dateParam)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid date %q", dateParam), http.StatusBadRequest)
		return
	}

	dims := render.Measure(intParam(r, "width"), intParam(r, "height"))

	point, found := series.Nearest(points, date)
	if !found {
		http.Error(w, "series is empty", http.StatusNotFound)
		return
	}

	ts := scale.NewTimeScale(points[0].Date, points[len(points)-1].Date, float64(dims.Width))
	ls := scale.NewSupplyScale(series.MaxSupply(points), float64(dims.Height))

	writeJSON(w, http.StatusOK, nearestResponse{
		Close:  point.Date.Format(series.CloseLayout),
		Supply: point.Supply,
		X:      ts.Apply(point.Date),
		Y:      ls.Apply(point.Supply),
	})
}

func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Wallets == nil {
		http.Error(w, "wallet directory not configured", http.StatusNotFound)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, s.cfg.Wallets)
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	points, ok := s.readySeries(w)
	if !ok {
		return
	}

	dims := render.Measure(intParam(r, "width"), intParam(r, "height"))

	var label string
	if poolParam := r.URL.Query().Get("pool"); poolParam != "" {
		pool, err := export.ParsePoolType(poolParam)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		label = export.OverlayLabel(pool, s.cfg.Balances())
	}

	var tooltip *series.Point
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		date, err := parseDate(dateParam)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid date %q", dateParam), http.StatusBadRequest)
			return
		}
		if point, found := series.Nearest(points, date); found {
			tooltip = &point
		}
	}

	dc, err := render.AreaChart(points, render.Options{
		Dims:    dims,
		Theme:   theme.Default(),
		Title:   "Zcash Shielded Supply",
		Label:   label,
		Tooltip: tooltip,
	})
	if err != nil {
		logging.LogError("Failed to render chart", zap.Error(err))
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	chartRenders.Inc()
	w.Header().Set("Content-Type", "image/png")
	if err := dc.EncodePNG(w); err != nil {
		logging.LogError("Failed to encode chart PNG", zap.Error(err))
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(series.CloseLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func intParam(r *http.Request, name string) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
