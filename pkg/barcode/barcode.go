package barcode

import (
	"fmt"
	"strings"
	"time"
)

// Physical labels follow TYPE-YY-NNNNN, optionally suffixed with a short
// serial fragment when a manufacturer serial is known: TYPE-YY-NNNNN-SUFX.

const (
	// DefaultType is used for categories with no mapping (or no category at all).
	DefaultType = "MS"
	// DefaultYear is used when the acquisition date is unknown.
	DefaultYear = "00"
)

// typeCodes maps a normalized category name to its two-letter label code.
var typeCodes = map[string]string{
	"camera":   "CM",
	"lens":     "LN",
	"lighting": "LT",
	"audio":    "AU",
	"tripod":   "TR",
	"drone":    "DR",
	"monitor":  "MN",
	"computer": "CP",
	"storage":  "ST",
	"cable":    "CB",
}

func normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// TypeCode returns the two-letter code for a category name, falling back to
// DefaultType for unmapped or blank categories.
func TypeCode(category string) string {
	if c, ok := typeCodes[normalize(category)]; ok {
		return c
	}
	return DefaultType
}

// YearCode returns the two-digit acquisition year, or DefaultYear when the
// date is unknown.
func YearCode(acquired *time.Time) string {
	if acquired == nil || acquired.IsZero() {
		return DefaultYear
	}
	return fmt.Sprintf("%02d", acquired.Year()%100)
}

// Prefix returns the TYPE-YY bucket a unit's sequence number is assigned in.
func Prefix(category string, acquired *time.Time) string {
	return TypeCode(category) + "-" + YearCode(acquired)
}

// SerialSuffix derives a short disambiguating label suffix from a
// manufacturer serial: the last four alphanumeric characters, uppercased.
// Empty serials yield no suffix.
func SerialSuffix(serial string) string {
	var keep []rune
	for _, r := range serial {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			keep = append(keep, r)
		}
	}
	if len(keep) == 0 {
		return ""
	}
	if len(keep) > 4 {
		keep = keep[len(keep)-4:]
	}
	return strings.ToUpper(string(keep))
}

// Generate builds a barcode for one unit. seq is the unit's sequence number
// within its TYPE-YY bucket (callers assign consecutive numbers when
// creating several identical units at once). A non-empty serial appends a
// suffix so otherwise-identical labels stay distinguishable.
func Generate(category string, acquired *time.Time, seq int, serial string) string {
	code := fmt.Sprintf("%s-%05d", Prefix(category, acquired), seq)
	if sfx := SerialSuffix(serial); sfx != "" {
		code += "-" + sfx
	}
	return code
}

// Sequence extracts the NNNNN component from a stored barcode, returning
// false when the barcode does not follow the TYPE-YY-NNNNN layout.
func Sequence(stored string) (int, bool) {
	parts := strings.Split(stored, "-")
	if len(parts) < 3 {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(parts[2], "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}

// Rederive recomputes the barcode a unit should carry after its category or
// acquisition date changed, keeping the sequence number already printed on
// the label. When the stored barcode has no parseable sequence the result is
// the stored value itself (nothing to re-derive from).
func Rederive(category string, acquired *time.Time, serial string, stored string) string {
	seq, ok := Sequence(stored)
	if !ok {
		return stored
	}
	return Generate(category, acquired, seq, serial)
}
