package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/crmforge/orderbench/internal/workbench"
)

// SheetConfig holds the grid layout for the barcode sheet
type SheetConfig struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	MarginTop  float64 `json:"marginTop"`
	MarginLeft float64 `json:"marginLeft"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
}

// DefaultSheetConfig fits standard 2x7 label paper
func DefaultSheetConfig() SheetConfig {
	return SheetConfig{Cols: 2, Rows: 7, MarginTop: 10, MarginLeft: 8, GapX: 4, GapY: 3}
}

// SheetLabel is one barcode tile on the sheet
type SheetLabel struct {
	Caption string
	Detail  string
	PNG     []byte
}

// GenerateSheetPDF lays the labels out on A4 pages in a fixed grid,
// one barcode image per tile with its caption underneath.
func GenerateSheetPDF(cfg SheetConfig, labels []SheetLabel) ([]byte, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels to print")
	}
	if cfg.Cols <= 0 {
		cfg.Cols = 2
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 7
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	pageWidth, pageHeight := 210.0, 297.0

	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY

	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)

	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols

		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		imgName := fmt.Sprintf("barcode_%d", i)
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		reader := bytes.NewReader(label.PNG)
		_ = pdf.RegisterImageOptionsReader(imgName, imgOptions, reader)

		// Barcode fills the upper band, captions stack below
		imgH := labelH * 0.55
		imgW := labelW * 0.9
		imgX := x + (labelW-imgW)/2
		imgY := y + 2

		pdf.ImageOptions(imgName, imgX, imgY, imgW, imgH, false, imgOptions, 0, "")

		pdf.SetXY(x, y+labelH-9)
		pdf.SetFontSize(8)
		pdf.CellFormat(labelW, 4, label.Caption, "", 0, "C", false, 0, "")

		if label.Detail != "" {
			pdf.SetXY(x, y+labelH-5)
			pdf.SetFontSize(6)
			pdf.CellFormat(labelW, 3, label.Detail, "", 0, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateInvoicePDF renders a simple invoice for the order, one table
// row per line item. This backs the invoice link on the workbench.
func GenerateInvoicePDF(header workbench.OrderHeader, rows []workbench.Row) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Invoice %s", header.Number))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Account: %s", header.AccountName))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(80, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var total float64
	for _, row := range rows {
		amount := float64(row.Quantity) * row.UnitPrice
		total += amount
		pdf.CellFormat(80, 8, row.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", row.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", row.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(140, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", total), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
