package metrics

import "github.com/prometheus/client_golang/prometheus"

// TurnMetrics exposes counters/histograms for the dialogue loop.
type TurnMetrics struct {
	turnsTotal       *prometheus.CounterVec
	sessionsStarted  prometheus.Counter
	transcribeTime   prometheus.Histogram
	synthesizeTime   prometheus.Histogram
	emptyTranscripts prometheus.Counter
}

func NewTurnMetrics(reg prometheus.Registerer) *TurnMetrics {
	m := &TurnMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voiceassistant",
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Total dialogue turns by intent and status",
		}, []string{"intent", "status"}),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voiceassistant",
			Subsystem: "dialogue",
			Name:      "sessions_started_total",
			Help:      "Total conversations started",
		}),
		transcribeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voiceassistant",
			Subsystem: "speech",
			Name:      "transcribe_seconds",
			Help:      "Latency of speech-to-text calls",
			Buckets:   prometheus.DefBuckets,
		}),
		synthesizeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voiceassistant",
			Subsystem: "speech",
			Name:      "synthesize_seconds",
			Help:      "Latency of text-to-speech calls",
			Buckets:   prometheus.DefBuckets,
		}),
		emptyTranscripts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voiceassistant",
			Subsystem: "speech",
			Name:      "empty_transcripts_total",
			Help:      "Turns where transcription produced no text",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.sessionsStarted, m.transcribeTime, m.synthesizeTime, m.emptyTranscripts)
	return m
}

func (m *TurnMetrics) ObserveTurn(intent, status string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent, status).Inc()
}

func (m *TurnMetrics) ObserveSessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}

func (m *TurnMetrics) ObserveTranscribe(seconds float64) {
	if m == nil {
		return
	}
	m.transcribeTime.Observe(seconds)
}

func (m *TurnMetrics) ObserveSynthesize(seconds float64) {
	if m == nil {
		return
	}
	m.synthesizeTime.Observe(seconds)
}

func (m *TurnMetrics) ObserveEmptyTranscript() {
	if m == nil {
		return
	}
	m.emptyTranscripts.Inc()
}
