package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/mittwerk/assetgo/internal/models"
	"github.com/skip2/go-qrcode"
)

// LabelConfig holds the grid layout for label sheet generation
type LabelConfig struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	MarginTop  float64 `json:"marginTop"`
	MarginLeft float64 `json:"marginLeft"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
}

// DefaultLabelConfig is a 3x8 sheet on A4, the usual label stock
var DefaultLabelConfig = LabelConfig{
	Cols:       3,
	Rows:       8,
	MarginTop:  10,
	MarginLeft: 7,
	GapX:       3,
	GapY:       3,
}

// labelCode is the content encoded into an asset's QR label. The scan path
// resolves by inventory number, so that is what goes on the sticker; serial
// is the fallback for assets without one.
func labelCode(a *models.Asset) string {
	if a.InventoryNumber != "" {
		return a.InventoryNumber
	}
	return a.SerialNumber
}

// GenerateLabelPNG renders a single QR label for an asset
func GenerateLabelPNG(a *models.Asset) ([]byte, error) {
	code := labelCode(a)
	if code == "" {
		return nil, fmt.Errorf("asset %d has neither inventory nor serial number", a.ID)
	}
	return qrcode.Encode(code, qrcode.Medium, 256)
}

// GenerateLabelSheetPDF creates a printable A4 sheet of QR labels
func GenerateLabelSheetPDF(assets []models.Asset, cfg LabelConfig) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	// A4 dimensions
	pageWidth, pageHeight := 210.0, 297.0

	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY

	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)

	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	for i := range assets {
		a := &assets[i]
		code := labelCode(a)
		if code == "" {
			continue
		}

		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols

		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		qrPng, err := qrcode.Encode(code, qrcode.Medium, 256)
		if err != nil {
			return nil, err
		}

		imgName := fmt.Sprintf("qr_%d", i)
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		_ = pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(qrPng))

		// QR centered, 70% of label height
		qrSize := labelH * 0.7
		if qrSize > labelW {
			qrSize = labelW * 0.9
		}
		qrX := x + (labelW-qrSize)/2
		qrY := y + (labelH-qrSize)/2 - 2

		pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, imgOptions, 0, "")

		pdf.SetXY(x, y+labelH-6)
		pdf.SetFontSize(8)
		pdf.CellFormat(labelW, 5, code, "", 0, "C", false, 0, "")

		pdf.SetXY(x, y+1)
		pdf.SetFontSize(6)
		pdf.CellFormat(labelW, 3, a.Name, "", 0, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateSessionReportPDF renders the verification protocol of a session:
// the counters and a device table with the check state of every roster entry.
func GenerateSessionReportPDF(session *models.InventorySession, roster []models.SessionDevice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	translator := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, translator("Inventurprotokoll: "+session.Name), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, translator(fmt.Sprintf("Status: %s", session.Status.Label())), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%d / %d (%d%%)",
		session.CheckedDevices, session.TotalDevices, session.Progress), "", 1, "L", false, 0, "")
	if session.ForceCompleted {
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(0, 6, translator("Erzwungen abgeschlossen"), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	// Table header
	colW := []float64{35, 55, 35, 35, 20}
	header := []string{"Inventarnr.", "Name", "Seriennr.", "Standort", "Geprüft"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(colW[i], 7, translator(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, d := range roster {
		mark := "-"
		if d.Checked {
			mark = "x"
		}
		pdf.CellFormat(colW[0], 6, translator(d.InventoryNumber), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 6, translator(d.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 6, translator(d.SerialNumber), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 6, translator(d.Location), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[4], 6, mark, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
