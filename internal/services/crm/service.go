package crm

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/crmforge/orderbench/internal/workbench"
)

const (
	orderModel = "sale.order"
	lineModel  = "sale.order.line"

	// Custom fields carrying the workbench payload on the platform
	fieldBarcodeImage     = "x_barcode_image"
	fieldBarcodeGenerated = "x_barcode_generated"
	fieldLocation         = "x_warehouse_location"
	fieldOrderBarcode     = "x_order_barcode"
)

// Config holds platform connection settings
type Config struct {
	URL      string
	Database string
	Username string
	Password string
}

// Service is the workbench's view of the order platform. It implements
// workbench.Source over the XML-RPC client.
type Service struct {
	client *Client
}

// NewService builds a service and authenticates against the platform
func NewService(cfg Config) (*Service, error) {
	client := NewClient(cfg.URL, cfg.Database, cfg.Username, cfg.Password)
	uid, err := client.Authenticate()
	if err != nil {
		return nil, err
	}
	log.Printf("📡 Connected to order platform as uid %d", uid)
	return &Service{client: client}, nil
}

type orderRecord struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Partner Relation `json:"partner_id"`
	Barcode Text     `json:"x_order_barcode"`
}

type lineRecord struct {
	ID        int64    `json:"id"`
	Order     Relation `json:"order_id"`
	Product   Relation `json:"product_id"`
	Quantity  float64  `json:"product_uom_qty"`
	UnitPrice float64  `json:"price_unit"`
	Location  Text     `json:"x_warehouse_location"`
	Generated bool     `json:"x_barcode_generated"`
	Image     Text     `json:"x_barcode_image"`
}

// RecentOrders returns the latest non-cancelled orders for the selector
func (s *Service) RecentOrders(ctx context.Context) ([]workbench.OrderOption, error) {
	domain := []interface{}{
		[]interface{}{"state", "!=", "cancel"},
	}
	var records []orderRecord
	err := s.client.SearchRead(orderModel, domain, []string{"name", "partner_id"}, 10, 0, &records)
	if err != nil {
		return nil, err
	}

	options := make([]workbench.OrderOption, 0, len(records))
	for _, rec := range records {
		label := rec.Name
		if rec.Partner.Set() {
			label = fmt.Sprintf("%s — %s", rec.Name, rec.Partner.Name)
		}
		options = append(options, workbench.OrderOption{
			ID:    strconv.FormatInt(rec.ID, 10),
			Label: label,
		})
	}
	return options, nil
}

// OrderHeader fetches the order-level record behind a selection
func (s *Service) OrderHeader(ctx context.Context, orderID string) (workbench.OrderHeader, error) {
	id, err := parseID(orderID)
	if err != nil {
		return workbench.OrderHeader{}, err
	}
	var records []orderRecord
	if err := s.client.Read(orderModel, []int64{id}, []string{"name", "partner_id", fieldOrderBarcode}, &records); err != nil {
		return workbench.OrderHeader{}, err
	}
	if len(records) == 0 {
		return workbench.OrderHeader{}, fmt.Errorf("order %s not found", orderID)
	}
	rec := records[0]
	return workbench.OrderHeader{
		ID:          orderID,
		Number:      rec.Name,
		AccountName: rec.Partner.Name,
		Barcode:     rec.Barcode.String(),
	}, nil
}

// OrderLines fetches the line items of an order, reshaped into rows.
// The stored image payload is deliberately not requested here; rows
// carry only the generated flag until a with-barcodes fetch.
func (s *Service) OrderLines(ctx context.Context, orderID string) ([]workbench.Row, error) {
	id, err := parseID(orderID)
	if err != nil {
		return nil, err
	}
	domain := []interface{}{
		[]interface{}{"order_id", "=", id},
	}
	fields := []string{"order_id", "product_id", "product_uom_qty", "price_unit", fieldLocation, fieldBarcodeGenerated}
	var records []lineRecord
	if err := s.client.SearchRead(lineModel, domain, fields, 0, 0, &records); err != nil {
		return nil, err
	}

	rows := make([]workbench.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, workbench.Row{
			ID:                strconv.FormatInt(rec.ID, 10),
			OrderNumber:       rec.Order.Name,
			ProductName:       rec.Product.Name,
			Quantity:          int(rec.Quantity),
			UnitPrice:         rec.UnitPrice,
			WarehouseLocation: rec.Location.String(),
			BarcodeGenerated:  rec.Generated,
		})
	}
	return rows, nil
}

// LinesWithBarcodes fetches the stored image and location per line
func (s *Service) LinesWithBarcodes(ctx context.Context, orderID string) ([]workbench.BarcodeLine, error) {
	id, err := parseID(orderID)
	if err != nil {
		return nil, err
	}
	domain := []interface{}{
		[]interface{}{"order_id", "=", id},
	}
	fields := []string{fieldBarcodeImage, fieldLocation}
	var records []lineRecord
	if err := s.client.SearchRead(lineModel, domain, fields, 0, 0, &records); err != nil {
		return nil, err
	}

	lines := make([]workbench.BarcodeLine, 0, len(records))
	for _, rec := range records {
		lines = append(lines, workbench.BarcodeLine{
			ID:       strconv.FormatInt(rec.ID, 10),
			Image:    rec.Image.String(),
			Location: rec.Location.String(),
		})
	}
	return lines, nil
}

// PersistBarcode writes the image and location back to a line item.
// The platform stores them together, which is why location-only saves
// re-send the existing image.
func (s *Service) PersistBarcode(ctx context.Context, rowID, image, location string) error {
	id, err := parseID(rowID)
	if err != nil {
		return err
	}
	return s.client.Write(lineModel, []int64{id}, map[string]interface{}{
		fieldBarcodeImage:     image,
		fieldLocation:         location,
		fieldBarcodeGenerated: true,
	})
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q", id)
	}
	return n, nil
}
