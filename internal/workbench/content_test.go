package workbench

import "testing"

func TestComposeRowContentDeterministic(t *testing.T) {
	first := ComposeRowContent("SO-100", "Widget", "abc123")
	for i := 0; i < 5; i++ {
		if got := ComposeRowContent("SO-100", "Widget", "abc123"); got != first {
			t.Fatalf("composition not deterministic: %q vs %q", got, first)
		}
	}
	if first != "SO-100-Widget-abc123" {
		t.Errorf("unexpected content: %q", first)
	}
}

func TestSurfaceKeyPerTier(t *testing.T) {
	tests := []struct {
		tier Tier
		id   string
		want string
	}{
		{TierOrder, "42", "order-42"},
		{TierProduct, "Widget", "product-Widget"},
		{TierLineItem, "abc123", "line-item-abc123"},
	}
	for _, tt := range tests {
		if got := SurfaceKey(tt.tier, tt.id); got != tt.want {
			t.Errorf("SurfaceKey(%s, %s) = %q, want %q", tt.tier, tt.id, got, tt.want)
		}
	}
}

func TestValidTier(t *testing.T) {
	for _, tier := range []Tier{TierOrder, TierProduct, TierLineItem} {
		if !ValidTier(tier) {
			t.Errorf("%s should be valid", tier)
		}
	}
	if ValidTier(Tier("warehouse")) {
		t.Error("unknown tier accepted")
	}
}
