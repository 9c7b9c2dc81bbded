package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

// WriteClientCSV writes one row per observed client station.
func (w *Writer) WriteClientCSV(startTime time.Time) error {
	f, err := os.Create(w.path("_clients.csv", startTime))
	if err != nil {
		return fmt.Errorf("export: clients: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()
	if err := cw.Write([]string{"MAC", "AssociatedBSSID", "FirstSeen", "LastSeen", "LastSignal", "BestSignal", "Lat", "Long", "Alt"}); err != nil {
		return err
	}

	for _, c := range w.Store.AllClients() {
		assoc := ""
		if c.AssociatedBSSID != 0 {
			assoc = domain.MACString(uint64ToMAC(c.AssociatedBSSID))
		}
		row := []string{
			c.MAC, assoc,
			time.Unix(c.FirstSeen, 0).Format("2006-01-02 15:04:05"),
			time.Unix(c.LastSeen, 0).Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", c.LastSignal),
			fmt.Sprintf("%d", c.BestSignal),
			fmt.Sprintf("%.6f", c.BestFix.Latitude),
			fmt.Sprintf("%.6f", c.BestFix.Longitude),
			fmt.Sprintf("%.2f", c.BestFix.Altitude),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: clients: %w", err)
		}
	}
	return nil
}

// WriteProbeCSV writes one row per probed SSID, with a semicolon-joined
// list of client MACs that probed for it.
func (w *Writer) WriteProbeCSV(startTime time.Time) error {
	f, err := os.Create(w.path("_probes.csv", startTime))
	if err != nil {
		return fmt.Errorf("export: probes: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()
	if err := cw.Write([]string{"SSID", "ClientMACs"}); err != nil {
		return err
	}

	for ssid, macs := range w.Store.AllProbedNetworks() {
		list := ""
		for i, mac := range macs {
			if i > 0 {
				list += ";"
			}
			list += domain.MACString(uint64ToMAC(mac))
		}
		if err := cw.Write([]string{ssid, list}); err != nil {
			return fmt.Errorf("export: probes: %w", err)
		}
	}
	return nil
}

// WriteAPClientsCSV writes one row per (AP, client) association, excluding
// the broadcast/zero MAC.
func (w *Writer) WriteAPClientsCSV(startTime time.Time) error {
	f, err := os.Create(w.path("_apclients.csv", startTime))
	if err != nil {
		return fmt.Errorf("export: apclients: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()
	if err := cw.Write([]string{"APMac", "APSSID", "ClientMac"}); err != nil {
		return err
	}

	aps := make(map[uint64]struct {
		mac, ssid string
	})
	for _, ap := range w.Store.AllAPs() {
		aps[ap.BSSID] = struct{ mac, ssid string }{ap.MAC, ap.SSID}
	}

	for _, c := range w.Store.AllClients() {
		if c.AssociatedBSSID == 0 || c.MAC == "00:00:00:00:00:00" {
			continue
		}
		ap, ok := aps[c.AssociatedBSSID]
		if !ok {
			continue
		}
		if err := cw.Write([]string{ap.mac, ap.ssid, c.MAC}); err != nil {
			return fmt.Errorf("export: apclients: %w", err)
		}
	}
	return nil
}

func uint64ToMAC(v uint64) [6]byte {
	var mac [6]byte
	mac[0] = byte(v >> 40)
	mac[1] = byte(v >> 32)
	mac[2] = byte(v >> 24)
	mac[3] = byte(v >> 16)
	mac[4] = byte(v >> 8)
	mac[5] = byte(v)
	return mac
}
