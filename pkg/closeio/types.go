package closeio

import (
	"encoding/json"
	"sort"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Custom field types accepted by Close.
const (
	FieldTypeDate   = "date"
	FieldTypeNumber = "number"
	FieldTypeText   = "text"
)

// Address is a postal address attached to a lead.
type Address struct {
	Label    string `json:"label,omitempty"`
	Address1 string `json:"address_1,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Zipcode  string `json:"zipcode,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Lead is a company record. Custom field values live under dynamic
// "custom.<field id>" keys and are read through Custom.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Addresses []Address `json:"addresses"`

	raw []byte
}

// UnmarshalJSON decodes the fixed fields and keeps the document for Custom.
func (l *Lead) UnmarshalJSON(b []byte) error {
	type plain Lead
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*l = Lead(p)
	l.raw = append([]byte(nil), b...)
	return nil
}

// Custom returns the value of the lead custom field with the given ID.
// The result does not Exist when the lead has no value for the field.
func (l Lead) Custom(fieldID string) gjson.Result {
	if len(l.raw) == 0 {
		return gjson.Result{}
	}
	return gjson.GetBytes(l.raw, customPath(fieldID))
}

// HasCustom reports whether the lead carries a non-null value for fieldID.
func (l Lead) HasCustom(fieldID string) bool {
	v := l.Custom(fieldID)
	return v.Exists() && v.Type != gjson.Null
}

// LeadCreate is the request body for POST /lead/.
type LeadCreate struct {
	Name      string
	Addresses []Address
	// Custom maps custom field IDs to values. A nil value is sent as null.
	Custom map[string]any
}

// MarshalJSON writes the fixed fields then sets each "custom.<id>" key.
func (r LeadCreate) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(struct {
		Name      string    `json:"name"`
		Addresses []Address `json:"addresses,omitempty"`
	}{r.Name, r.Addresses})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(r.Custom))
	for id := range r.Custom {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		body, err = sjson.SetBytes(body, customPath(id), r.Custom[id])
		if err != nil {
			return nil, eris.Wrapf(err, "closeio: set custom field %s", id)
		}
	}
	return body, nil
}

// customPath builds the gjson/sjson path of a "custom.<id>" key. The dot is
// part of the key, not a path separator.
func customPath(fieldID string) string {
	var b strings.Builder
	b.WriteString(`custom\.`)
	for _, r := range fieldID {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Email is an email address on a contact.
type Email struct {
	Email string `json:"email"`
	Type  string `json:"type,omitempty"`
}

// Phone is a phone number on a contact.
type Phone struct {
	Phone string `json:"phone"`
	Type  string `json:"type,omitempty"`
}

// Contact is a person linked to a lead.
type Contact struct {
	ID     string  `json:"id"`
	LeadID string  `json:"lead_id"`
	Name   string  `json:"name"`
	Emails []Email `json:"emails"`
	Phones []Phone `json:"phones"`
}

// ContactCreate is the request body for POST /contact/.
type ContactCreate struct {
	LeadID string  `json:"lead_id"`
	Name   string  `json:"name,omitempty"`
	Emails []Email `json:"emails,omitempty"`
	Phones []Phone `json:"phones,omitempty"`
}

// CustomField describes a lead custom field.
type CustomField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// CustomFieldCreate is the request body for POST /custom_field/lead/.
type CustomFieldCreate struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
