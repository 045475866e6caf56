package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/civiclab/crimestat/internal/config"
	"github.com/civiclab/crimestat/internal/fetcher"
	"github.com/civiclab/crimestat/internal/metrics"
	"github.com/civiclab/crimestat/internal/snapshot"
)

// apiRouter builds the read-only HTTP API over the snapshot manager.
func apiRouter(mgr *snapshot.Manager, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))
	if cfg.RatePerSecond > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)))
	}

	a := &api{mgr: mgr}

	r.Get("/health", a.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", a.summary)
		r.Get("/years", a.years)
		r.Get("/regions", a.regions)
		r.Get("/metrics", a.metrics)
		r.Get("/diagnostics", a.diagnostics)
		r.Get("/geojson", a.geojson)
	})

	return r
}

// rateLimit rejects requests above the shared token-bucket rate.
func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type api struct {
	mgr *snapshot.Manager
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) summary(w http.ResponseWriter, r *http.Request) {
	s, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	year, ok := yearParam(w, r, latestYear(s.Metrics))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot_id": s.ID,
		"summary":     metrics.Summarize(s.Metrics, year),
	})
}

func (a *api) years(w http.ResponseWriter, r *http.Request) {
	s, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot_id": s.ID,
		"years":       metrics.Years(s.Metrics),
	})
}

func (a *api) regions(w http.ResponseWriter, r *http.Request) {
	s, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot_id": s.ID,
		"regions":     metrics.Regions(s.Metrics),
	})
}

func (a *api) metrics(w http.ResponseWriter, r *http.Request) {
	s, ok := a.snapshot(w, r)
	if !ok {
		return
	}

	rows := s.Metrics
	q := r.URL.Query()

	if q.Get("year") != "" {
		year, ok := yearParam(w, r, 0)
		if !ok {
			return
		}
		if top, err := strconv.Atoi(q.Get("top")); err == nil && top > 0 {
			rows = metrics.TopByRate(rows, year, top)
		} else {
			rows = metrics.FilterYear(rows, year)
		}
	}
	if regions := q["region"]; len(regions) > 0 {
		rows = metrics.FilterRegions(rows, regions)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot_id": s.ID,
		"metrics":     rows,
	})
}

func (a *api) diagnostics(w http.ResponseWriter, r *http.Request) {
	s, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot_id":  s.ID,
		"loaded_at":    s.LoadedAt,
		"geo_name_key": s.GeoNameKey,
		"diagnostics":  s.Diagnostics,
	})
}

func (a *api) geojson(w http.ResponseWriter, r *http.Request) {
	s, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	if err := json.NewEncoder(w).Encode(s.Geo); err != nil {
		zap.L().Error("api: encode geojson", zap.Error(err))
	}
}

// snapshot resolves the current snapshot, writing the error response on
// failure.
func (a *api) snapshot(w http.ResponseWriter, r *http.Request) (*snapshot.Snapshot, bool) {
	s, err := a.mgr.Current(r.Context())
	if err != nil {
		zap.L().Error("api: snapshot", zap.Error(err))
		status := http.StatusInternalServerError
		if fetcher.IsNotFound(err) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return nil, false
	}
	return s, true
}

// yearParam parses the year query parameter, falling back when absent.
func yearParam(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return fallback, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year parameter"})
		return 0, false
	}
	return year, true
}

// latestYear returns the most recent year present, or 0 for an empty table.
func latestYear(rows []metrics.RegionYearMetric) int {
	years := metrics.Years(rows)
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}
