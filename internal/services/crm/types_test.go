package crm

import (
	"encoding/json"
	"testing"
)

func TestTextHandlesFalseForEmpty(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"A-01"`, "A-01"},
		{`false`, ""},
		{`""`, ""},
	}
	for _, tt := range tests {
		var v Text
		if err := json.Unmarshal([]byte(tt.raw), &v); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if v.String() != tt.want {
			t.Errorf("Text(%s) = %q, want %q", tt.raw, v, tt.want)
		}
	}
}

func TestRelationUnmarshal(t *testing.T) {
	var r Relation
	if err := json.Unmarshal([]byte(`[42, "SO-100"]`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.ID != 42 || r.Name != "SO-100" || !r.Set() {
		t.Errorf("relation = %+v", r)
	}

	var empty Relation
	if err := json.Unmarshal([]byte(`false`), &empty); err != nil {
		t.Fatalf("unmarshal false: %v", err)
	}
	if empty.Set() {
		t.Errorf("false should decode as unset, got %+v", empty)
	}
}

func TestLineRecordDecode(t *testing.T) {
	raw := []map[string]interface{}{
		{
			"id":                   7.0,
			"order_id":             []interface{}{3.0, "SO-100"},
			"product_id":           []interface{}{11.0, "Widget"},
			"product_uom_qty":      2.0,
			"price_unit":           9.5,
			"x_warehouse_location": false,
			"x_barcode_generated":  false,
		},
	}
	var records []lineRecord
	if err := decodeInto(raw, &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d", len(records))
	}
	rec := records[0]
	if rec.ID != 7 || rec.Order.Name != "SO-100" || rec.Product.Name != "Widget" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Location != "" || rec.Generated {
		t.Errorf("unset fields mishandled: %+v", rec)
	}
}
