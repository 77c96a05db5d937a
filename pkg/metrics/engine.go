// Package metrics expone contadores e histogramas Prometheus del motor de órdenes e inventario.
// Todos los métodos aceptan receptor nil (métricas deshabilitadas).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados normalizados para la etiqueta "outcome".
const (
	OutcomeOK                = "ok"
	OutcomeInvalid           = "invalid"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeStockRace         = "stock_race"
	OutcomeInvariant         = "invariant_violation"
	OutcomeLockConflict      = "lock_conflict"
	OutcomeError             = "error"
)

// EngineMetrics métricas de checkout y ajustes de stock.
type EngineMetrics struct {
	checkouts        *prometheus.CounterVec
	checkoutDuration *prometheus.HistogramVec
	adjustments      *prometheus.CounterVec
	unitsSold        prometheus.Counter
	httpRequests     *prometheus.CounterVec
}

// NewEngineMetrics registra las métricas en reg. reg nil devuelve un recolector inerte.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_checkouts_total",
		Help: "Checkouts processed by outcome.",
	}, []string{"outcome"})
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "retail_checkout_duration_seconds",
		Help:    "Checkout latency in seconds, transaction included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_stock_adjustments_total",
		Help: "Manual stock adjustments by reason and outcome.",
	}, []string{"reason", "outcome"})
	unitsSold := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "retail_units_sold_total",
		Help: "Units decremented by committed orders.",
	})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(checkouts, checkoutDuration, adjustments, unitsSold, httpRequests)
	return &EngineMetrics{
		checkouts:        checkouts,
		checkoutDuration: checkoutDuration,
		adjustments:      adjustments,
		unitsSold:        unitsSold,
		httpRequests:     httpRequests,
	}
}

// ObserveCheckout registra un checkout terminado.
func (m *EngineMetrics) ObserveCheckout(outcome string, d time.Duration) {
	if m == nil || m.checkouts == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.checkouts.WithLabelValues(outcome).Inc()
	m.checkoutDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// AddUnitsSold suma unidades vendidas de una orden confirmada.
func (m *EngineMetrics) AddUnitsSold(units int64) {
	if m == nil || m.unitsSold == nil || units <= 0 {
		return
	}
	m.unitsSold.Add(float64(units))
}

// IncAdjustment registra un ajuste manual.
func (m *EngineMetrics) IncAdjustment(reason, outcome string) {
	if m == nil || m.adjustments == nil {
		return
	}
	m.adjustments.WithLabelValues(normalizeLabel(reason), normalizeLabel(outcome)).Inc()
}

// IncHTTPRequest cuenta una petición HTTP. route es la plantilla (/api/orders/:id), no la URL.
func (m *EngineMetrics) IncHTTPRequest(method, route, status string) {
	if m == nil || m.httpRequests == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, normalizeLabel(route), status).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
