package printer

import (
	"bytes"
	"testing"

	"github.com/crmforge/orderbench/internal/render"
	"github.com/crmforge/orderbench/internal/workbench"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	var e render.Engine
	data, err := e.Render("SO-100-Widget-1", nil, render.DefaultOptions())
	if err != nil {
		t.Fatalf("render fixture: %v", err)
	}
	return data
}

func TestGenerateSheetPDF(t *testing.T) {
	png := testPNG(t)
	labels := []SheetLabel{
		{Caption: "SO-100-Widget-1", Detail: "A-01", PNG: png},
		{Caption: "SO-100-Gadget-2", Detail: "B-07", PNG: png},
	}

	data, err := GenerateSheetPDF(DefaultSheetConfig(), labels)
	if err != nil {
		t.Fatalf("sheet: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}

	if _, err := GenerateSheetPDF(DefaultSheetConfig(), nil); err == nil {
		t.Error("empty sheet accepted")
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	header := workbench.OrderHeader{ID: "1", Number: "SO-100", AccountName: "Acme"}
	rows := []workbench.Row{
		{ID: "li-1", ProductName: "Widget", Quantity: 2, UnitPrice: 9.5},
		{ID: "li-2", ProductName: "Gadget", Quantity: 1, UnitPrice: 25},
	}

	data, err := GenerateInvoicePDF(header, rows)
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}
