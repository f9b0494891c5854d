package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/crmforge/orderbench/internal/render"
	"github.com/crmforge/orderbench/internal/services/printer"
)

// printSheet returns a PDF grid of the current order's generated
// barcodes, one tile per row.
func (r *Router) printSheet(w http.ResponseWriter, req *http.Request) {
	snap := r.store.Snapshot()
	if snap.OrderID == "" {
		respondError(w, http.StatusBadRequest, "No order selected")
		return
	}

	// Plain loads omit the image payload; fetch the stored copies once.
	lines, err := r.source.LinesWithBarcodes(req.Context(), snap.OrderID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch stored barcodes")
		return
	}
	stored := make(map[string]string, len(lines))
	for _, l := range lines {
		stored[l.ID] = l.Image
	}

	var labels []printer.SheetLabel
	for _, row := range snap.Rows {
		if !row.BarcodeGenerated {
			continue
		}
		image := row.BarcodeImage
		if image == "" {
			image = stored[row.ID]
		}
		if image == "" {
			continue
		}
		pngData, err := render.DecodeDataURL(image)
		if err != nil {
			respondError(w, http.StatusInternalServerError, fmt.Sprintf("Stored image for row %s is not decodable", row.ID))
			return
		}
		labels = append(labels, printer.SheetLabel{
			Caption: fmt.Sprintf("%s / %s", row.OrderNumber, row.ProductName),
			Detail:  row.WarehouseLocation,
			PNG:     pngData,
		})
	}

	pdfBytes, err := printer.GenerateSheetPDF(printer.DefaultSheetConfig(), labels)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to generate sheet: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"barcodes_%s.pdf\"", snap.OrderID))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Write(pdfBytes)
}

// orderInvoice builds and returns the order's invoice PDF
func (r *Router) orderInvoice(w http.ResponseWriter, req *http.Request) {
	orderID := mux.Vars(req)["id"]

	header, err := r.source.OrderHeader(req.Context(), orderID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to load order")
		return
	}
	rows, err := r.source.OrderLines(req.Context(), orderID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to load order lines")
		return
	}

	pdfBytes, err := printer.GenerateInvoicePDF(header, rows)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate invoice: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"invoice_%s.pdf\"", header.Number))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Write(pdfBytes)
}
