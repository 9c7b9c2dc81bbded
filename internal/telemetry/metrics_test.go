package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

func TestStatsObserverAddsOnlyDeltas(t *testing.T) {
	InitMetrics()
	var o StatsObserver

	before := testutil.ToFloat64(BeaconsTotal)
	o.Observe(domain.Snapshot{Packets: 10, Beacons: 3})
	afterFirst := testutil.ToFloat64(BeaconsTotal)
	assert.Equal(t, float64(3), afterFirst-before, "expected beacons to increase by 3")

	o.Observe(domain.Snapshot{Packets: 10, Beacons: 3})
	afterSecond := testutil.ToFloat64(BeaconsTotal)
	assert.Equal(t, afterFirst, afterSecond, "expected no change on a repeated identical snapshot")

	o.Observe(domain.Snapshot{Packets: 20, Beacons: 5})
	afterThird := testutil.ToFloat64(BeaconsTotal)
	assert.Equal(t, float64(2), afterThird-afterSecond, "expected beacons to increase by 2")
}
