package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/norshop/postnord-rates/internal/telemetry"
	"github.com/norshop/postnord-rates/pkg/carrier"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const requestIDHeader = "X-Request-Id"

// Server is the HTTP server exposing the rate-quote API to the checkout.
type Server struct {
	port    int
	carrier carrier.Carrier
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, c carrier.Carrier, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{
		port:    cfg.Port,
		carrier: c,
		logger:  logger,
		metrics: metrics,
	}
}

// Handler builds the HTTP routing for the service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/rates", s.handleRates)

	return r
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// rateRequestBody is the checkout-facing quote request. Street may span
// multiple lines, as entered at checkout.
type rateRequestBody struct {
	Street      string  `json:"street"`
	PostalCode  string  `json:"postalCode"`
	City        string  `json:"city"`
	CountryCode string  `json:"countryCode"`
	WeightKg    float64 `json:"weightKg"`
}

type rateLine struct {
	CarrierTitle string          `json:"carrierTitle"`
	MethodCode   string          `json:"methodCode"`
	MethodTitle  string          `json:"methodTitle"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
}

type ratesResponse struct {
	Carrier string     `json:"carrier"`
	Options []rateLine `json:"options"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleRates quotes the carrier for one checkout request. Carrier failures
// never surface to the shopper: the response is always 200 with however many
// options survived, possibly none.
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body rateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{Error: "Invalid JSON: " + err.Error()})
		return
	}

	req := &carrier.RateRequest{
		Street:      body.Street,
		PostalCode:  body.PostalCode,
		City:        body.City,
		CountryCode: body.CountryCode,
		WeightKg:    body.WeightKg,
	}

	start := time.Now()
	options, err := s.carrier.Quote(r.Context(), req)
	duration := time.Since(start).Seconds()

	status := "ok"
	if err != nil {
		status = "failed"
		class := carrier.ClassOf(err)
		s.metrics.RecordFailure(s.carrier.Code(), string(class))
		s.logger.Ctx(r.Context()).Warn("Carrier quote failed",
			zap.String("carrier", s.carrier.Code()),
			zap.String("failure_class", string(class)),
			zap.Error(err),
		)
		options = nil
	} else if len(options) == 0 {
		status = "empty"
	}
	s.metrics.RecordQuote(s.carrier.Code(), status, duration)

	lines := make([]rateLine, 0, len(options))
	for _, opt := range options {
		lines = append(lines, rateLine{
			CarrierTitle: opt.CarrierTitle,
			MethodCode:   opt.MethodCode,
			MethodTitle:  opt.MethodTitle,
			Price:        opt.Price,
			Cost:         opt.Cost,
		})
	}

	json.NewEncoder(w).Encode(ratesResponse{
		Carrier: s.carrier.Code(),
		Options: lines,
	})
}

// requestID tags every request with an identifier, generating one when the
// caller did not supply it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)
		next.ServeHTTP(w, r)
	})
}
