package partner

import "strings"

// Address is a postal address value object
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// IsEmpty reports whether no field is set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Trimmed returns a copy with surrounding whitespace removed from every field
func (a Address) Trimmed() Address {
	return Address{
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

// String formats the address on one line, skipping empty parts
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (a Address) validate() error {
	if len(a.Line1) > 255 || len(a.Line2) > 255 {
		return errInvalidAddress("Address line cannot exceed 255 characters")
	}
	if len(a.City) > 100 || len(a.State) > 100 || len(a.Country) > 100 {
		return errInvalidAddress("City, state and country cannot exceed 100 characters")
	}
	if len(a.PostalCode) > 20 {
		return errInvalidAddress("Postal code cannot exceed 20 characters")
	}
	return nil
}
