package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/coronalert/internal/alert"
	"github.com/sells-group/coronalert/internal/config"
	"github.com/sells-group/coronalert/internal/entitlement"
	"github.com/sells-group/coronalert/internal/export"
	"github.com/sells-group/coronalert/internal/model"
	"github.com/sells-group/coronalert/internal/proximity"
	"github.com/sells-group/coronalert/pkg/covidapi"
)

var (
	servePort int
	serveTTL  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve alerts, nearest-location lookups and map pins over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeServe); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, gate, err := openGate(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		as := newAlertServer(newService(cfg), gate, serveTTL)
		if err := as.refresh(ctx); err != nil {
			// Keep serving; handlers retry the refresh on demand.
			zap.L().Warn("initial snapshot failed", zap.Error(err))
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           as.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// snapshotFetcher is the part of alert.Service the server uses.
type snapshotFetcher interface {
	Snapshot(ctx context.Context, filters covidapi.Filters) (*alert.Snapshot, error)
}

// alertServer holds the latest snapshot in memory and refreshes it once it is
// older than ttl. Concurrent refreshes share one upstream fetch.
type alertServer struct {
	svc  snapshotFetcher
	gate entitlement.Gate
	ttl  time.Duration
	now  func() time.Time

	flight  singleflight.Group
	mu      sync.RWMutex
	snap    *alert.Snapshot
	fetched time.Time
}

func newAlertServer(svc snapshotFetcher, gate entitlement.Gate, ttl time.Duration) *alertServer {
	return &alertServer{svc: svc, gate: gate, ttl: ttl, now: time.Now}
}

func (s *alertServer) refresh(ctx context.Context) error {
	_, err, _ := s.flight.Do("snapshot", func() (any, error) {
		return s.fetchSnapshot(ctx)
	})
	return err
}

func (s *alertServer) fetchSnapshot(ctx context.Context) (*alert.Snapshot, error) {
	snap, err := s.svc.Snapshot(ctx, covidapi.Filters{})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if snap.RegionsErr != nil && s.snap != nil && s.snap.RegionsErr == nil {
		// Keep the last good regions list.
		zap.L().Warn("regions refresh failed, keeping previous list", zap.Error(snap.RegionsErr))
		kept := *snap
		kept.Regions, kept.RegionsErr = s.snap.Regions, nil
		snap = &kept
	}
	s.snap = snap
	s.fetched = s.now()
	s.mu.Unlock()

	zap.L().Info("snapshot refreshed",
		zap.Int("records", len(snap.Result.Records)),
		zap.Int("regions", len(snap.Regions)),
		zap.Bool("regions_ok", snap.RegionsErr == nil),
	)
	return snap, nil
}

// current returns a fresh enough snapshot, refreshing when missing or stale.
func (s *alertServer) current(ctx context.Context) (*alert.Snapshot, error) {
	s.mu.RLock()
	snap, fetched := s.snap, s.fetched
	s.mu.RUnlock()

	if snap != nil && (s.ttl <= 0 || s.now().Sub(fetched) < s.ttl) {
		return snap, nil
	}
	v, err, shared := s.flight.Do("snapshot", func() (any, error) {
		return s.fetchSnapshot(ctx)
	})
	if err != nil {
		if snap != nil {
			zap.L().Warn("serving stale snapshot", zap.Error(err))
			return snap, nil
		}
		return nil, err
	}
	if shared {
		zap.L().Debug("joined in-flight snapshot refresh")
	}
	return v.(*alert.Snapshot), nil
}

func (s *alertServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/alerts", s.handleAlerts)
	r.Get("/regions", s.handleRegions)
	r.Get("/nearest", s.handleNearest)
	r.Get("/annotations.geojson", s.handleGeoJSON)
	r.Post("/entitlement", s.handleGrant)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFetchError maps a failed refresh to a gateway status.
func writeFetchError(w http.ResponseWriter, err error) {
	zap.L().Error("snapshot unavailable", zap.Error(err))
	if alert.IsDecode(err) {
		writeError(w, http.StatusBadGateway, "upstream returned an unexpected response")
		return
	}
	writeError(w, http.StatusServiceUnavailable, "upstream unavailable")
}

func (s *alertServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *alertServer) handleAlerts(w http.ResponseWriter, r *http.Request) {
	snap, err := s.current(r.Context())
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fetched_at": snap.Result.FetchedAt,
		"count":      len(snap.Result.Records),
		"alerts":     export.Rows(snap.Result.Records),
	})
}

func (s *alertServer) handleRegions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.current(r.Context())
	if err != nil {
		writeFetchError(w, err)
		return
	}
	if snap.RegionsErr != nil {
		writeFetchError(w, snap.RegionsErr)
		return
	}
	writeJSON(w, http.StatusOK, snap.Regions)
}

type nearestResponse struct {
	Selection  model.Selection          `json:"selection"`
	Entitled   bool                     `json:"entitled"`
	Location   model.LocationAnnotation `json:"location"`
	RiskColor  string                   `json:"risk_color"`
	Restricted []export.Row             `json:"restricted,omitempty"`
}

func (s *alertServer) handleNearest(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "lat and lon must be valid coordinates")
		return
	}

	snap, err := s.current(r.Context())
	if err != nil {
		writeFetchError(w, err)
		return
	}

	records := snap.Result.Records
	entitled := s.gate.IsEntitled(r.Context())
	sel, err := proximity.Resolve(model.NewPoint(lat, lon), records, entitled)
	if errors.Is(err, proximity.ErrEmptyResultSet) {
		writeError(w, http.StatusNotFound, "no location data available")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	idx := sel.VisibleIndex()
	resp := nearestResponse{
		Selection: sel,
		Entitled:  entitled,
		Location:  snap.Result.Annotations[idx],
		RiskColor: colorFor(records[idx].RiskLevel().SubBand),
	}
	if sel.IsRestricted() {
		subset := make([]model.LocationRecord, 0, len(sel.Restricted))
		for _, i := range sel.Restricted {
			subset = append(subset, records[i])
		}
		resp.Restricted = export.Rows(subset)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *alertServer) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	snap, err := s.current(r.Context())
	if err != nil {
		writeFetchError(w, err)
		return
	}
	data, err := export.GeoJSON(model.FilterAnnotations(snap.Result.Annotations, r.URL.Query().Get("q")), colorFor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *alertServer) handleGrant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if err := s.gate.Grant(r.Context(), req.TransactionID); err != nil {
		zap.L().Error("grant entitlement failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not record entitlement")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"entitled": s.gate.IsEntitled(r.Context())})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().DurationVar(&serveTTL, "refresh", 15*time.Minute, "refetch reports when the snapshot is older than this")
	rootCmd.AddCommand(serveCmd)
}
