package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder recebe as observações de negócio dos serviços.
type Recorder interface {
	// ObserveTransition registra uma tentativa de transição de troca e seu resultado
	// ("changed", "noop" ou a categoria do erro).
	ObserveTransition(ctx context.Context, from, to, outcome string, duration time.Duration)
	// ObserveStockMovement registra um movimento aplicado ao ledger de estoque.
	ObserveStockMovement(ctx context.Context, kind string, delta int)
}

// PrometheusRecorder implementa Recorder com um registry próprio.
type PrometheusRecorder struct {
	registry      *prometheus.Registry
	transitions   *prometheus.CounterVec
	transitionDur *prometheus.HistogramVec
	movements     *prometheus.CounterVec
	units         *prometheus.CounterVec
}

// NewPrometheusRecorder cria os coletores e os registra, junto com os coletores de processo e do runtime Go.
func NewPrometheusRecorder(namespace string) *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	r := &PrometheusRecorder{
		registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_transitions_total",
			Help:      "Tentativas de transição de status de trocas, por resultado.",
		}, []string{"from", "to", "outcome"}),
		transitionDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exchange_transition_duration_seconds",
			Help:      "Duração do handler de transição de status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"to"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Movimentos aplicados ao ledger de estoque.",
		}, []string{"kind"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_moved_total",
			Help:      "Unidades movimentadas no ledger de estoque (valor absoluto).",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		r.transitions, r.transitionDur, r.movements, r.units,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *PrometheusRecorder) ObserveTransition(_ context.Context, from, to, outcome string, duration time.Duration) {
	r.transitions.WithLabelValues(from, to, outcome).Inc()
	r.transitionDur.WithLabelValues(to).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) ObserveStockMovement(_ context.Context, kind string, delta int) {
	if delta < 0 {
		delta = -delta
	}
	r.movements.WithLabelValues(kind).Inc()
	r.units.WithLabelValues(kind).Add(float64(delta))
}

// Handler expõe o registry no formato de exposição do Prometheus.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry devolve o registry usado pelo recorder.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// Nop descarta todas as observações.
type Nop struct{}

func (Nop) ObserveTransition(context.Context, string, string, string, time.Duration) {}
func (Nop) ObserveStockMovement(context.Context, string, int)                        {}
