package pdjl

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a point-in-time snapshot of a Session's counters.
type Metrics struct {
	PacketsSent        uint64
	PacketsReceived    uint64
	ParseErrors        uint64
	SendErrors         uint64
	CallbackExceptions uint64
}

// sessionMetrics holds the live atomic counters backing a Session plus a
// private prometheus registry mirroring them, so a process embedding
// multiple Sessions can expose each one's counters without colliding on
// the default global registry.
type sessionMetrics struct {
	packetsSent        atomic.Uint64
	packetsReceived    atomic.Uint64
	parseErrors        atomic.Uint64
	sendErrors         atomic.Uint64
	callbackExceptions atomic.Uint64

	registry *prometheus.Registry
	counters *prometheus.CounterVec
}

func newSessionMetrics(deviceName string) *sessionMetrics {
	reg := prometheus.NewRegistry()
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pdjl",
		Name:      "events_total",
		Help:      "Pro DJ Link session event counts by kind.",
		ConstLabels: prometheus.Labels{
			"device": deviceName,
		},
	}, []string{"kind"})
	reg.MustRegister(cv)

	return &sessionMetrics{registry: reg, counters: cv}
}

// Registry exposes the private prometheus registry backing this session's
// metrics, for embedding into an HTTP /metrics handler.
func (m *sessionMetrics) Registry() *prometheus.Registry { return m.registry }

func (m *sessionMetrics) incPacketsSent() {
	m.packetsSent.Add(1)
	m.counters.WithLabelValues("packets_sent").Inc()
}

func (m *sessionMetrics) incPacketsReceived() {
	m.packetsReceived.Add(1)
	m.counters.WithLabelValues("packets_received").Inc()
}

func (m *sessionMetrics) incParseErrors() {
	m.parseErrors.Add(1)
	m.counters.WithLabelValues("parse_errors").Inc()
}

func (m *sessionMetrics) incSendErrors() {
	m.sendErrors.Add(1)
	m.counters.WithLabelValues("send_errors").Inc()
}

func (m *sessionMetrics) incCallbackExceptions() {
	m.callbackExceptions.Add(1)
	m.counters.WithLabelValues("callback_exceptions").Inc()
}

func (m *sessionMetrics) snapshot() Metrics {
	return Metrics{
		PacketsSent:        m.packetsSent.Load(),
		PacketsReceived:    m.packetsReceived.Load(),
		ParseErrors:        m.parseErrors.Load(),
		SendErrors:         m.sendErrors.Load(),
		CallbackExceptions: m.callbackExceptions.Load(),
	}
}
