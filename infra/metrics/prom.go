package metrics

import (
	"strconv"

	coremetrics "github.com/pjaos/chargeplan/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records planning and proxy events in Prometheus metrics.
type PromSink struct {
	plans    *prometheus.CounterVec
	planCost prometheus.Histogram
	proxy    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewPromSink registers the metrics on the default Prometheus
// registerer. The Prometheus server is started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chargeplan_plans_total",
		Help: "Total number of charge schedules computed",
	}, []string{"device_id", "under_delivered"})
	planCost := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chargeplan_plan_cost",
		Help:    "Total cost of computed schedules in currency units",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
	proxy := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chargeplan_proxy_calls_total",
		Help: "Total number of device proxy calls",
	}, []string{"op", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chargeplan_proxy_latency_seconds",
		Help:    "Device proxy round-trip latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	if err := reg.Register(plans); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			plans = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(planCost); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			planCost = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(proxy); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			proxy = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{plans: plans, planCost: planCost, proxy: proxy, latency: latency}, nil
}

// RecordPlan counts the computed schedule and observes its cost.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(ev.DeviceID, strconv.FormatBool(ev.UnderDelivered)).Inc()
	s.planCost.Observe(ev.Cost)
	return nil
}

// RecordProxyCall counts the proxy call and observes its latency.
func (s *PromSink) RecordProxyCall(ev coremetrics.ProxyEvent) error {
	outcome := "ok"
	if ev.Error != "" {
		outcome = "error"
	}
	s.proxy.WithLabelValues(ev.Op, outcome).Inc()
	s.latency.WithLabelValues(ev.Op).Observe(ev.Latency.Seconds())
	return nil
}
