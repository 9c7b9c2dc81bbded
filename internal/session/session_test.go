package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wmap/internal/domain"
	"github.com/lcalzada-xor/wmap/internal/store"
)

func TestSnapshotPersistsAPsAndClients(t *testing.T) {
	src := store.New()
	mac, _ := domain.MACFromString("aa:bb:cc:dd:ee:ff")
	bssid := domain.MACToUint64(mac)
	ap := src.FindAP(bssid, 100, -40, domain.Fix{}, false)
	ap.Lock()
	ap.SSID = "TestNet"
	ap.Unlock()

	clientMac, _ := domain.MACFromString("11:22:33:44:55:66")
	src.FindClient(domain.MACToUint64(clientMac), 100, -50, domain.Fix{}, false, true, ap)

	dbPath := filepath.Join(t.TempDir(), "session.db")
	sess, err := Open(dbPath)
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.Snapshot(context.Background(), src))

	var apCount, clientCount int64
	sess.db.Model(&APModel{}).Count(&apCount)
	sess.db.Model(&ClientModel{}).Count(&clientCount)
	assert.EqualValues(t, 1, apCount, "expected 1 persisted AP")
	assert.EqualValues(t, 1, clientCount, "expected 1 persisted client")

	// Re-running Snapshot with the same state should upsert, not duplicate.
	require.NoError(t, sess.Snapshot(context.Background(), src))
	sess.db.Model(&APModel{}).Count(&apCount)
	assert.EqualValues(t, 1, apCount, "expected upsert to keep AP count at 1")
}
