package export

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/lcalzada-xor/wmap/internal/store"
)

// kmlBucket groups APs by encryption class for the split _open/_wep/_wpa
// KML files, each with a distinct placemark icon color.
type kmlBucket struct {
	suffix    string
	iconColor string
	match     func(encryption string) bool
}

// Colors are KML's AABBGGRR order.
var kmlBuckets = []kmlBucket{
	{"_open.kml", "ffff0000", func(e string) bool { return e == "" || e == "None" }},                 // blue
	{"_wep.kml", "ffff00ff", func(e string) bool { return e == "WEP" }},                               // pink
	{"_wpa.kml", "ff00ff00", func(e string) bool { return e != "" && e != "None" && e != "WEP" }},     // green
}

// WriteKML writes the three encryption-split KML files. Only APs with a
// best-fix longitude magnitude greater than 1.0 are included, matching the
// source system's "don't plot the null-island default fix" guard.
func (w *Writer) WriteKML(startTime time.Time) error {
	aps := w.Store.AllAPs()
	for _, bucket := range kmlBuckets {
		if err := w.writeKMLBucket(bucket, aps, startTime); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeKMLBucket(bucket kmlBucket, aps []store.APEntry, startTime time.Time) error {
	f, err := os.Create(w.path(bucket.suffix, startTime))
	if err != nil {
		return fmt.Errorf("export: kml: %w", err)
	}
	defer f.Close()

	fmt.Fprint(f, `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
<Style id="apIcon"><IconStyle><color>`)
	fmt.Fprint(f, bucket.iconColor)
	fmt.Fprint(f, `</color></IconStyle></Style>
`)

	for _, ap := range aps {
		if !bucket.match(ap.Encryption) || !ap.HaveBestFix {
			continue
		}
		if math.Abs(ap.BestFix.Longitude) <= 1.0 {
			continue
		}
		fmt.Fprintf(f, `<Placemark>
<name>%s</name>
<description>%s</description>
<styleUrl>#apIcon</styleUrl>
<Point><coordinates>%.6f,%.6f,%.2f</coordinates></Point>
</Placemark>
`, ap.SSID, ap.MAC, ap.BestFix.Longitude, ap.BestFix.Latitude, ap.BestFix.Altitude)
	}

	fmt.Fprint(f, "</Document>\n</kml>\n")
	return nil
}
