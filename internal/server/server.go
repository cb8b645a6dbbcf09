package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"phishguard/internal/detection"
	"phishguard/internal/features"
	"phishguard/internal/metrics"
	"phishguard/internal/policy"
)

// Feed answers whether a URL belongs to a known phishing domain.
type Feed interface {
	Listed(rawURL string) bool
}

// Server wraps HTTP and gRPC servers
type Server struct {
	detector *detection.Detector
	policy   *policy.Engine
	feed     Feed
	cfg      *Config
	logger   *slog.Logger
	router   *mux.Router
	grpcSrv  *grpc.Server
}

func New(det *detection.Detector, pol *policy.Engine, feed Feed, cfg *Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{detector: det, policy: pol, feed: feed, cfg: cfg, logger: logger, router: mux.NewRouter()}
	s.routes()
	s.grpcSrv = grpc.NewServer()
	registerPhishGuardServer(s.grpcSrv, &phishGuardService{srv: s})
	return s
}

func (s *Server) routes() {
	s.router.Use(s.countRequests)
	s.router.HandleFunc("/v1/predict", s.handlePredict).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/features", s.handleFeatures).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

func (s *Server) Router() http.Handler { return s.router }

// MetricsHandler serves the Prometheus registry.
func MetricsHandler() http.Handler {
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.Handler())
	return m
}

// URLRequest is the body accepted by the HTTP endpoints.
type URLRequest struct {
	URL string `json:"url"`
}

// PredictResponse is a detection result plus the policy decision.
type PredictResponse struct {
	detection.Result
	Listed   bool            `json:"listed"`
	Decision policy.Decision `json:"decision"`
}

// FeaturesResponse lists the extracted features in map and vector form.
type FeaturesResponse struct {
	URL      string            `json:"url"`
	Features features.Features `json:"features"`
	Names    []string          `json:"names"`
	Vector   []float64         `json:"vector"`
}

func (s *Server) evaluate(ctx context.Context, rawURL string) PredictResponse {
	res := s.detector.Predict(ctx, rawURL)
	listed := s.feed != nil && s.feed.Listed(rawURL)
	return PredictResponse{
		Result:   res,
		Listed:   listed,
		Decision: s.policy.Decide(res, listed),
	}
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}

	resp := s.evaluate(r.Context(), req.URL)

	status := http.StatusOK
	switch err := resp.Err(); {
	case errors.Is(err, detection.ErrModelNotLoaded):
		status = http.StatusServiceUnavailable
	case err != nil:
		status = http.StatusUnprocessableEntity
	}
	s.logger.Debug("predict", "url", req.URL, "action", resp.Decision.Action, "status", status)
	writeJSON(w, status, resp)
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}

	names := s.detector.FeatureNames()
	f := features.Extract(req.URL)
	vec, err := features.Vector(f, names)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, FeaturesResponse{URL: req.URL, Features: f, Names: names, Vector: vec})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"model_loaded": s.detector.Loaded(),
	})
}

func decodeURLRequest(w http.ResponseWriter, r *http.Request) (URLRequest, bool) {
	var req URLRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return req, false
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

// Run serves HTTP, gRPC and metrics until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	metricsSrv := &http.Server{Addr: s.cfg.MetricsAddr, Handler: MetricsHandler(), ReadHeaderTimeout: 5 * time.Second}

	ln, err := net.Listen("tcp", s.cfg.GRPCAddr)
	if err != nil {
		return err
	}

	return runAll(ctx, s.logger,
		serveHTTP("http", httpSrv),
		serveHTTP("metrics", metricsSrv),
		component{
			name:  "grpc",
			serve: func() error { return s.ServeGRPC(ln) },
			stop:  func(context.Context) { s.grpcSrv.GracefulStop() },
		},
	)
}
