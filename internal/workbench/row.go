package workbench

import "context"

// GenState tracks where a row sits in the generation lifecycle.
// GeneratedOptimistic is UI-only: the image has been rendered and the
// persist call issued, but the platform has not confirmed it yet.
// GeneratedConfirmed is only ever assigned from a fresh source load.
type GenState int

const (
	NotGenerated GenState = iota
	GeneratedOptimistic
	GeneratedConfirmed
)

// Row is one order line item as displayed and tracked in the workbench
type Row struct {
	ID                string  `json:"id"`
	OrderNumber       string  `json:"orderNumber"`
	ProductName       string  `json:"productName"`
	Quantity          int     `json:"quantity"`
	UnitPrice         float64 `json:"unitPrice"`
	WarehouseLocation string  `json:"warehouseLocation"`
	BarcodeGenerated  bool    `json:"barcodeGenerated"`

	// BarcodeImage is a data-URL PNG. Empty until generation or until a
	// with-barcodes fetch supplies the stored payload.
	BarcodeImage string `json:"barcodeImage,omitempty"`

	State GenState `json:"-"`
}

// StatusToken returns the icon/class token the row list renders with
func (r Row) StatusToken() string {
	if r.BarcodeGenerated {
		return "generated"
	}
	return "pending"
}

// GenerateDisabled reports whether the generate action is disabled
func (r Row) GenerateDisabled() bool {
	return r.BarcodeGenerated
}

// OrderOption is one entry in the order selector dropdown
type OrderOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// OrderHeader is the order-level record behind the selector
type OrderHeader struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	AccountName string `json:"accountName"`
	Barcode     string `json:"barcode,omitempty"`
}

// BarcodeLine is the reduced with-barcodes projection of a line item
type BarcodeLine struct {
	ID       string
	Image    string
	Location string
}

// Source is the remote order platform the workbench reads from and
// writes to. Implementations issue RPC calls; the workbench never
// talks to the wire itself.
type Source interface {
	RecentOrders(ctx context.Context) ([]OrderOption, error)
	OrderHeader(ctx context.Context, orderID string) (OrderHeader, error)
	OrderLines(ctx context.Context, orderID string) ([]Row, error)
	LinesWithBarcodes(ctx context.Context, orderID string) ([]BarcodeLine, error)
	PersistBarcode(ctx context.Context, rowID, image, location string) error
}

// Severity levels for user-facing notifications
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a fire-and-forget toast shown to the user
type Notification struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier delivers notifications to whoever is watching
type Notifier interface {
	Notify(n Notification)
}

// NopNotifier drops all notifications
type NopNotifier struct{}

func (NopNotifier) Notify(Notification) {}
