package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

var (
	FramesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wmap",
		Name:      "frames_total",
		Help:      "Total number of 802.11 frames pulled from the active source",
	})

	BeaconsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wmap",
		Name:      "beacons_total",
		Help:      "Total number of beacon frames seen",
	})

	DataFramesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wmap",
		Name:      "data_frames_total",
		Help:      "Total number of data/QoS-data frames seen",
	})

	EncryptionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wmap",
		Name:      "encryption_total",
		Help:      "Beacons observed per encryption class",
	}, []string{"class"})

	EAPOLTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wmap",
		Name:      "eapol_total",
		Help:      "Total number of SNAP-decoded frames carrying an EAPOL ethertype",
	})

	DecryptTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wmap",
		Name:      "decrypt_total",
		Help:      "Decryption attempts by outcome",
	}, []string{"outcome"})

	APCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wmap",
		Name:      "ap_count",
		Help:      "Current number of distinct access points in the observation store",
	})

	ClientCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wmap",
		Name:      "client_count",
		Help:      "Current number of distinct client stations in the observation store",
	})

	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// Idempotent: safe to call multiple times.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.MustRegister(
			FramesTotal, BeaconsTotal, DataFramesTotal,
			EncryptionTotal, EAPOLTotal, DecryptTotal,
			APCount, ClientCount,
		)
	})
}

// StatsObserver mirrors a domain.Stats snapshot onto the monotonic counters.
// Prometheus counters must only move forward, so this tracks the last
// observed value per field and adds only the delta.
type StatsObserver struct {
	mu   sync.Mutex
	last domain.Snapshot
}

func (o *StatsObserver) Observe(snap domain.Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()

	FramesTotal.Add(float64(snap.Packets - o.last.Packets))
	BeaconsTotal.Add(float64(snap.Beacons - o.last.Beacons))
	DataFramesTotal.Add(float64(snap.DataFrames - o.last.DataFrames))
	EAPOLTotal.Add(float64(snap.EAPOL - o.last.EAPOL))

	EncryptionTotal.WithLabelValues("none").Add(float64(snap.Unencrypted - o.last.Unencrypted))
	EncryptionTotal.WithLabelValues("wep").Add(float64(snap.WEP - o.last.WEP))
	EncryptionTotal.WithLabelValues("wpa").Add(float64(snap.WPA - o.last.WPA))

	DecryptTotal.WithLabelValues("success").Add(float64(snap.Decrypted - o.last.Decrypted))
	DecryptTotal.WithLabelValues("failed").Add(float64(snap.FailedDecrypt - o.last.FailedDecrypt))

	o.last = snap
}
