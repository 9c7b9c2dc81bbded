package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// WritePDFSummary renders an executive-summary PDF: overall counters, an
// encryption-type histogram, and the SSIDs with the most bound clients.
//
// Grounded in the teacher's internal/adapters/reporting/pdf_exporter.go
// (section-by-section gofpdf layout, color-coded stat blocks), adapted
// from a vulnerability-report shape to an observation-snapshot shape.
func (w *Writer) WritePDFSummary(startTime time.Time, snapshotTotalPackets uint32) error {
	aps := w.Store.AllAPs()
	clients := w.Store.AllClients()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 14, "Wireless Observation Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Capture started: %s", startTime.Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Overview", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 7, fmt.Sprintf("Access points observed: %d", len(aps)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Client stations observed: %d", len(clients)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Packets processed: %d", snapshotTotalPackets), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	histogram := map[string]int{}
	for _, ap := range aps {
		label := ap.Encryption
		if label == "" {
			label = "None"
		}
		histogram[label]++
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Encryption Types", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)
	labels := make([]string, 0, len(histogram))
	for label := range histogram {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		pdf.CellFormat(0, 7, fmt.Sprintf("%s: %d", label, histogram[label]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	type ssidCount struct {
		ssid  string
		count int
	}
	counts := map[string]int{}
	for _, ap := range aps {
		counts[ap.SSID] += int(ap.ClientCount)
	}
	top := make([]ssidCount, 0, len(counts))
	for ssid, c := range counts {
		top = append(top, ssidCount{ssid, c})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].count > top[j].count })
	if len(top) > 10 {
		top = top[:10]
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Top SSIDs by Client Count", "", 1, "L", false, 0, "")
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(140, 8, "SSID", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Clients", "1", 1, "C", true, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, entry := range top {
		ssid := entry.ssid
		if ssid == "" {
			ssid = "(hidden)"
		}
		pdf.CellFormat(140, 7, ssid, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%d", entry.count), "1", 1, "C", false, 0, "")
	}

	path := w.path("_summary.pdf", startTime)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	return nil
}
