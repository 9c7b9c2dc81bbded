package config

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"os"

	"github.com/lcalzada-xor/wmap/internal/domain"
)

// xmlKey mirrors one <key> element: type is "wep" (bssid+hex) or "wpa"
// (ssid+passphrase).
type xmlKey struct {
	Type       string `xml:"type,attr"`
	BSSID      string `xml:"bssid,attr"`
	Hex        string `xml:"hex,attr"`
	SSID       string `xml:"ssid,attr"`
	Passphrase string `xml:"passphrase,attr"`
}

type xmlOutput struct {
	Dir string `xml:"dir,attr"`
}

type xmlExport struct {
	Wigle     bool `xml:"wigle,attr"`
	KML       bool `xml:"kml,attr"`
	Clients   bool `xml:"clients,attr"`
	Probes    bool `xml:"probes,attr"`
	APClients bool `xml:"apclients,attr"`
	Pcap      bool `xml:"pcap,attr"`
	PDF       bool `xml:"pdf,attr"`
}

type xmlDocument struct {
	XMLName xml.Name  `xml:"wmap"`
	Keys    []xmlKey  `xml:"keys>key"`
	Output  xmlOutput `xml:"output"`
	Export  xmlExport `xml:"export"`
}

// Export reports which of the seven exporters are enabled.
type Export struct {
	Wigle     bool
	KML       bool
	Clients   bool
	Probes    bool
	APClients bool
	Pcap      bool
	PDF       bool
}

// Config is the parsed XML configuration surface: an ordered key list (in
// domain.Key form, ready for the decrypter gateway), an output directory
// and the exporter-enable booleans.
type Config struct {
	Keys      []domain.Key
	OutputDir string
	Export    Export
}

// Load reads and validates path, matching spec.md §7 category 3: any
// config error is a single fatal diagnostic, not a partial/best-effort
// configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := &Config{
		OutputDir: doc.Output.Dir,
		Export: Export{
			Wigle:     doc.Export.Wigle,
			KML:       doc.Export.KML,
			Clients:   doc.Export.Clients,
			Probes:    doc.Export.Probes,
			APClients: doc.Export.APClients,
			Pcap:      doc.Export.Pcap,
			PDF:       doc.Export.PDF,
		},
	}

	for i, k := range doc.Keys {
		switch domain.KeyType(k.Type) {
		case domain.KeyTypeWEP:
			raw, err := hex.DecodeString(k.Hex)
			if err != nil {
				return nil, fmt.Errorf("config: key %d: invalid WEP hex: %w", i, err)
			}
			switch len(raw) {
			case 5, 13, 16:
			default:
				return nil, fmt.Errorf("config: key %d: WEP key must decode to 5, 13 or 16 bytes, got %d", i, len(raw))
			}
			mac, err := domain.MACFromString(k.BSSID)
			if err != nil {
				return nil, fmt.Errorf("config: key %d: %w", i, err)
			}
			cfg.Keys = append(cfg.Keys, domain.Key{
				Type:  domain.KeyTypeWEP,
				BSSID: domain.MACToUint64(mac),
				Bytes: raw,
			})
		case domain.KeyTypeWPA:
			if k.SSID == "" || k.Passphrase == "" {
				return nil, fmt.Errorf("config: key %d: wpa key requires ssid and passphrase", i)
			}
			cfg.Keys = append(cfg.Keys, domain.Key{
				Type:       domain.KeyTypeWPA,
				SSID:       k.SSID,
				Passphrase: k.Passphrase,
			})
		default:
			return nil, fmt.Errorf("config: key %d: unknown key type %q", i, k.Type)
		}
	}

	return cfg, nil
}
