// Package metrics defines the Prometheus instrumentation for the voice core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics exposed by the voice command core.
type Metrics struct {
	// Audio front end
	FramesProcessed prometheus.Counter
	VoiceFrames     prometheus.Counter

	// Segmentation
	SegmentsEmitted prometheus.Counter
	SegmentDuration prometheus.Histogram
	ForcedFlushes   prometheus.Counter

	// Dispatch queue
	QueueDepth     prometheus.Gauge
	ItemsDropped   prometheus.Counter
	DispatchErrors prometheus.Counter
	DispatchTime   prometheus.Histogram

	// Transcription
	TranscriptEvents prometheus.Counter
	FinalTranscripts prometheus.Counter

	// Interpretation
	IntentsResolved *prometheus.CounterVec
	IntentsRejected prometheus.Counter
}

// New creates and registers all metrics on the given registerer. Passing nil
// registers on the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		FramesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_frames_processed_total",
			Help: "Total number of audio frames run through the VAD front end",
		}),
		VoiceFrames: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_frames_voiced_total",
			Help: "Total number of frames classified as speech",
		}),
		SegmentsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_segments_emitted_total",
			Help: "Total number of audio segments emitted by the assembler",
		}),
		SegmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_segment_duration_seconds",
			Help:    "Duration of emitted audio segments",
			Buckets: prometheus.LinearBuckets(0.5, 0.5, 20),
		}),
		ForcedFlushes: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_segment_forced_flushes_total",
			Help: "Total number of segments flushed by the max-duration cap or an explicit stop",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voice_dispatch_queue_depth",
			Help: "Current number of items waiting in the dispatch queue",
		}),
		ItemsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_dispatch_items_dropped_total",
			Help: "Total number of queued items dropped to bound staleness",
		}),
		DispatchErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_dispatch_errors_total",
			Help: "Total number of failed outbound dispatch requests",
		}),
		DispatchTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_dispatch_duration_seconds",
			Help:    "Round-trip time of outbound dispatch requests",
			Buckets: prometheus.DefBuckets,
		}),
		TranscriptEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_transcript_events_total",
			Help: "Total number of transcript events received from the transcription service",
		}),
		FinalTranscripts: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_transcripts_final_total",
			Help: "Total number of committed or final transcript events",
		}),
		IntentsResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_intents_resolved_total",
			Help: "Total number of interpreted intents by kind",
		}, []string{"kind"}),
		IntentsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_intents_rejected_total",
			Help: "Total number of utterances no parser claimed",
		}),
	}
}
