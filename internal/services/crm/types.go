package crm

import (
	"encoding/json"
	"errors"
)

// Text handles the platform's dynamic typing: empty text fields come
// back as boolean false instead of an empty string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		// false means unset
		if b {
			*t = "true"
		} else {
			*t = ""
		}
		return nil
	}
	return errors.New("crm.Text: cannot unmarshal value into string")
}

func (t Text) String() string { return string(t) }

// Relation is a many2one field: [id, display name] when set, false
// when empty.
type Relation struct {
	ID   int64
	Name string
}

func (r *Relation) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*r = Relation{}
		return nil
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return errors.New("crm.Relation: neither false nor [id, name]")
	}
	if len(pair) > 0 {
		var id float64
		if err := json.Unmarshal(pair[0], &id); err != nil {
			return err
		}
		r.ID = int64(id)
	}
	if len(pair) > 1 {
		if err := json.Unmarshal(pair[1], &r.Name); err != nil {
			return err
		}
	}
	return nil
}

// Set reports whether the relation points at a record
func (r Relation) Set() bool { return r.ID != 0 }
