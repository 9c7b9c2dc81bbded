package webapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wmap/internal/domain"
	"github.com/lcalzada-xor/wmap/internal/store"
)

func TestHandleStatsReturnsSnapshot(t *testing.T) {
	stats := &domain.Stats{}
	stats.IncBeacons()
	s := NewServer(store.New(), stats)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var snap domain.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.EqualValues(t, 1, snap.Beacons)
}

func TestHandleAPsReturnsStoreContents(t *testing.T) {
	s := store.New()
	mac, _ := domain.MACFromString("aa:bb:cc:dd:ee:ff")
	s.FindAP(domain.MACToUint64(mac), 1, -40, domain.Fix{}, false)

	srv := NewServer(s, &domain.Stats{})
	req := httptest.NewRequest(http.MethodGet, "/aps", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var aps []store.APEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&aps))
	assert.Len(t, aps, 1)
}
