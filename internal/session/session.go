// Package session persists periodic snapshots of the observation store to
// SQLite via GORM (SPEC_FULL.md §7). It only writes: nothing in this
// package reads the snapshots back into a store or into the exporters.
//
// Grounded in the teacher's internal/adapters/storage/sqlite.go (GORM +
// modernc/mattn sqlite driver, WAL pragma tuning, upsert-by-primary-key),
// adapted from its device/vulnerability model pair to an AP/Client model
// pair matching domain.AP/domain.Client.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/lcalzada-xor/wmap/internal/store"
)

// APModel is the GORM row for one access point snapshot.
type APModel struct {
	BSSID       uint64 `gorm:"primaryKey"`
	MAC         string
	SSID        string
	Channel     uint8
	Encryption  string
	WPS         bool
	FirstSeen   int64
	LastSeen    int64
	LastSignal  int32
	BestSignal  int32
	BestLat     float64
	BestLong    float64
	BestAlt     float64
	HaveBestFix bool
	ClientCount uint32
	DataCount   uint32
}

// ClientModel is the GORM row for one client station snapshot.
type ClientModel struct {
	MAC             string `gorm:"primaryKey"`
	AssociatedBSSID uint64
	FirstSeen       int64
	LastSeen        int64
	LastSignal      int32
	BestSignal      int32
	BestLat         float64
	BestLong        float64
	BestAlt         float64
	HaveBestFix     bool
}

// Store wraps a GORM/SQLite handle used purely for periodic snapshotting;
// it never participates in the hot ingest path.
type Store struct {
	db *gorm.DB
}

// Open creates (or reuses) the SQLite file at path and migrates the
// AP/Client snapshot schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&APModel{}, &ClientModel{}); err != nil {
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA busy_timeout=5000;")
	db.Exec("PRAGMA synchronous=NORMAL;")

	return &Store{db: db}, nil
}

// Snapshot upserts the full current AP/Client state from src. Each call is
// stamped with a fresh run ID purely for log correlation; it plays no part
// in the upsert key, which remains the AP/client's own MAC.
func (s *Store) Snapshot(ctx context.Context, src *store.Store) error {
	runID := uuid.New().String()

	aps := src.AllAPs()
	apModels := make([]APModel, len(aps))
	for i, ap := range aps {
		apModels[i] = APModel{
			BSSID: ap.BSSID, MAC: ap.MAC, SSID: ap.SSID, Channel: ap.Channel,
			Encryption: ap.Encryption, WPS: ap.WPS, FirstSeen: ap.FirstSeen, LastSeen: ap.LastSeen,
			LastSignal: ap.LastSignal, BestSignal: ap.BestSignal,
			BestLat: ap.BestFix.Latitude, BestLong: ap.BestFix.Longitude, BestAlt: ap.BestFix.Altitude,
			HaveBestFix: ap.HaveBestFix, ClientCount: ap.ClientCount, DataCount: ap.DataCount,
		}
	}

	clients := src.AllClients()
	clientModels := make([]ClientModel, len(clients))
	for i, c := range clients {
		clientModels[i] = ClientModel{
			MAC: c.MAC, AssociatedBSSID: c.AssociatedBSSID, FirstSeen: c.FirstSeen, LastSeen: c.LastSeen,
			LastSignal: c.LastSignal, BestSignal: c.BestSignal,
			BestLat: c.BestFix.Latitude, BestLong: c.BestFix.Longitude, BestAlt: c.BestFix.Altitude,
			HaveBestFix: c.HaveBestFix,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(apModels) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(apModels, 100).Error; err != nil {
				return err
			}
		}
		if len(clientModels) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(clientModels, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Warn("session snapshot failed", "run_id", runID, "error", err)
		return err
	}
	slog.Info("session snapshot", "run_id", runID, "ap_count", len(apModels), "client_count", len(clientModels))
	return nil
}

// RunPeriodic calls Snapshot every interval until ctx is canceled.
func (s *Store) RunPeriodic(ctx context.Context, src *store.Store, interval time.Duration, onErr func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Snapshot(ctx, src); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
