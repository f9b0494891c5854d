package workbench

import "fmt"

// Tier selects which collection a batch generation runs over
type Tier string

const (
	TierOrder    Tier = "order"
	TierProduct  Tier = "product"
	TierLineItem Tier = "line-item"
)

// ValidTier reports whether t names a known batch tier
func ValidTier(t Tier) bool {
	switch t {
	case TierOrder, TierProduct, TierLineItem:
		return true
	}
	return false
}

// ComposeRowContent builds the canonical payload encoded for a single
// row. The same inputs always yield the same string; the stored image
// and any re-render must agree.
func ComposeRowContent(orderNumber, productName, rowID string) string {
	return fmt.Sprintf("%s-%s-%s", orderNumber, productName, rowID)
}

// SurfaceKey names the render target for a row or batch item so
// repeated generations land on the same surface.
func SurfaceKey(tier Tier, id string) string {
	return string(tier) + "-" + id
}
