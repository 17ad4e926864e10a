// Package policy maps policy-check statuses to their badge presentation.
package policy

import (
	"strings"
)

// Status is the outcome of a compensation policy check.
type Status int

// Status values. statusCount must stay last.
const (
	StatusPass Status = iota
	StatusWarning
	StatusViolation
	StatusNotEvaluated
	statusCount
)

// Variant is the visual treatment of a badge.
type Variant string

// Badge variants.
const (
	VariantDefault     Variant = "default"
	VariantSecondary   Variant = "secondary"
	VariantDestructive Variant = "destructive"
	VariantOutline     Variant = "outline"
	VariantSuccess     Variant = "success"
	VariantWarning     Variant = "warning"
)

// Chip is the label/variant pair shown for a status.
type Chip struct {
	Label   string  `json:"label"`
	Variant Variant `json:"variant"`
}

var statusNames = [statusCount]string{
	StatusPass:         "pass",
	StatusWarning:      "warning",
	StatusViolation:    "violation",
	StatusNotEvaluated: "not_evaluated",
}

var chips = [...]Chip{
	StatusPass:         {Label: "Within policy", Variant: VariantSuccess},
	StatusWarning:      {Label: "Review", Variant: VariantWarning},
	StatusViolation:    {Label: "Out of policy", Variant: VariantDestructive},
	StatusNotEvaluated: {Label: "Not checked", Variant: VariantOutline},
}

// Both directions fail to compile when chips and the status list disagree.
var (
	_ [len(chips) - int(statusCount)]struct{}
	_ [int(statusCount) - len(chips)]struct{}
)

// String returns the wire name of s.
func (s Status) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText encodes s by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Valid reports whether s is a declared status.
func (s Status) Valid() bool {
	return s >= 0 && s < statusCount
}

// ParseStatus parses a wire name (case-insensitive; '-' and '_' are interchangeable).
func ParseStatus(s string) (Status, bool) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range statusNames {
		if name == s {
			return Status(i), true
		}
	}
	return 0, false
}

// AllStatuses returns every status in declaration order.
func AllStatuses() []Status {
	out := make([]Status, 0, statusCount)
	for s := StatusPass; s < statusCount; s++ {
		out = append(out, s)
	}
	return out
}

// ChipFor returns the chip for s. It panics on an undeclared status.
func ChipFor(s Status) Chip {
	if !s.Valid() {
		panic("policy: no chip for status " + s.String())
	}
	return chips[s]
}

// Entry pairs a status with its chip.
type Entry struct {
	Status Status `json:"status"`
	Chip   Chip   `json:"chip"`
}

// Entries returns every status with its chip in declaration order.
func Entries() []Entry {
	out := make([]Entry, 0, statusCount)
	for _, s := range AllStatuses() {
		out = append(out, Entry{Status: s, Chip: chips[s]})
	}
	return out
}
