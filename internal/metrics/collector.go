package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector gathers pipeline and plugin lifecycle metrics. All methods
// are safe to call on a nil receiver, so callers never have to guard
// the "metrics disabled" case.
type Collector struct {
	filterApplications *prometheus.CounterVec
	actionDispatches   *prometheus.CounterVec
	pipelineErrors     *prometheus.CounterVec

	pluginsInstalled prometheus.Gauge
	pluginsEnabled   prometheus.Gauge

	logger *zap.Logger
}

// NewCollector creates a metrics collector registered against reg.
// A nil registerer falls back to the default prometheus registry.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.filterApplications = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_applications_total",
			Help:      "Total number of filter pipeline folds",
		},
		[]string{"filter"},
	)

	c.actionDispatches = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_dispatches_total",
			Help:      "Total number of action pipeline dispatches",
		},
		[]string{"action"},
	)

	c.pipelineErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_errors_total",
			Help:      "Total number of failed pipeline callbacks",
		},
		[]string{"kind", "name"},
	)

	c.pluginsInstalled = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plugins_installed",
			Help:      "Number of installed plugins",
		},
	)

	c.pluginsEnabled = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plugins_enabled",
			Help:      "Number of enabled plugins",
		},
	)

	c.logger.Debug("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// FilterApplied records one fold of the named filter pipeline.
func (c *Collector) FilterApplied(name string) {
	if c == nil {
		return
	}
	c.filterApplications.WithLabelValues(name).Inc()
}

// ActionDispatched records one dispatch of the named action pipeline.
func (c *Collector) ActionDispatched(name string) {
	if c == nil {
		return
	}
	c.actionDispatches.WithLabelValues(name).Inc()
}

// PipelineError records a failed callback. kind is "filter" or "action".
func (c *Collector) PipelineError(kind, name string) {
	if c == nil {
		return
	}
	c.pipelineErrors.WithLabelValues(kind, name).Inc()
}

// PluginInstalled increments the installed plugin gauge.
func (c *Collector) PluginInstalled() {
	if c == nil {
		return
	}
	c.pluginsInstalled.Inc()
}

// PluginEnabled increments the enabled plugin gauge.
func (c *Collector) PluginEnabled() {
	if c == nil {
		return
	}
	c.pluginsEnabled.Inc()
}

// PluginDisabled decrements the enabled plugin gauge.
func (c *Collector) PluginDisabled() {
	if c == nil {
		return
	}
	c.pluginsEnabled.Dec()
}
