package config

import (
	"fmt"
	"strings"
	"time"
)

// NumberingPolicy decides how invoice numbers advance across documents.
type NumberingPolicy string

const (
	// NumberingSequential gives each document the next number.
	NumberingSequential NumberingPolicy = "sequential"

	// NumberingConstant gives every document the start number.
	NumberingConstant NumberingPolicy = "constant"
)

// GroupOrder decides the order recipients are processed in.
type GroupOrder string

const (
	// OrderFirstSeen keeps the order each recipient first appears in the input.
	OrderFirstSeen GroupOrder = "first_seen"

	// OrderSorted sorts recipients by identity, byte-wise ascending.
	OrderSorted GroupOrder = "sorted"
)

// dateLayouts are accepted for invoice dates, ISO first.
var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

// Settings is the configuration of one generation run. It is passed by value
// and never modified once the run starts.
type Settings struct {
	CompanyName  string
	AddressLine1 string
	AddressLine2 string

	InvoiceDate        time.Time
	InvoiceNumberStart int

	Numbering  NumberingPolicy
	GroupOrder GroupOrder
}

// Validate checks the invariants a run relies on.
func (s Settings) Validate() error {
	if s.InvoiceNumberStart < 1 {
		return fmt.Errorf("starting invoice number must be at least 1, got %d", s.InvoiceNumberStart)
	}
	if s.InvoiceDate.IsZero() {
		return fmt.Errorf("invoice date is required")
	}
	if _, err := ParseNumbering(string(s.Numbering)); err != nil {
		return err
	}
	if _, err := ParseGroupOrder(string(s.GroupOrder)); err != nil {
		return err
	}
	return nil
}

// ParseNumbering maps a configuration string to a NumberingPolicy.
// Empty selects NumberingSequential.
func ParseNumbering(s string) (NumberingPolicy, error) {
	switch NumberingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", NumberingSequential:
		return NumberingSequential, nil
	case NumberingConstant:
		return NumberingConstant, nil
	default:
		return "", fmt.Errorf("unknown numbering policy %q (want %q or %q)", s, NumberingSequential, NumberingConstant)
	}
}

// ParseGroupOrder maps a configuration string to a GroupOrder.
// Empty selects OrderFirstSeen.
func ParseGroupOrder(s string) (GroupOrder, error) {
	switch GroupOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderFirstSeen:
		return OrderFirstSeen, nil
	case OrderSorted:
		return OrderSorted, nil
	default:
		return "", fmt.Errorf("unknown group order %q (want %q or %q)", s, OrderFirstSeen, OrderSorted)
	}
}

// ParseDate parses an invoice date in YYYY-MM-DD, DD-MM-YYYY or DD/MM/YYYY form.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid invoice date %q (want YYYY-MM-DD)", s)
}
