package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus instruments for the question bank.
type Metrics struct {
	// Upload metrics
	UploadsAccepted prometheus.Counter
	UploadsRejected prometheus.Counter

	// Assembly metrics
	AssembliesSucceeded prometheus.Counter
	AssembliesFailed    prometheus.Counter
	AssemblyDuration    prometheus.Histogram
	OutputAudioSeconds  prometheus.Histogram

	// Delivery metrics
	Downloads      prometheus.Counter
	DownloadMisses prometheus.Counter
}

// New registers all metrics on the given registerer. Pass a fresh
// prometheus.NewRegistry() in tests to avoid default-registry clashes.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UploadsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "listenbank_uploads_accepted_total",
			Help: "Uploads that passed validation and were stored",
		}),
		UploadsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "listenbank_uploads_rejected_total",
			Help: "Uploads rejected by validation",
		}),
		AssembliesSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "listenbank_assemblies_succeeded_total",
			Help: "Assembly requests that produced an output file",
		}),
		AssembliesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "listenbank_assemblies_failed_total",
			Help: "Assembly requests that failed",
		}),
		AssemblyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "listenbank_assembly_duration_seconds",
			Help:    "Wall time spent assembling one output track",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		OutputAudioSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "listenbank_output_audio_seconds",
			Help:    "Playback duration of generated tracks",
			Buckets: prometheus.LinearBuckets(30, 60, 10),
		}),
		Downloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "listenbank_downloads_total",
			Help: "Generated tracks served for download",
		}),
		DownloadMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "listenbank_download_misses_total",
			Help: "Download requests for unknown filenames",
		}),
	}
}
