// Package units converts between the contracts' fixed-point integer
// representation and human-readable decimal values. Conversion goes through
// exact decimal strings so that values representable in the configured number
// of fractional digits round-trip without binary-float loss.
package units

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/DinosaurDerek/rocketlink/internal/domain/entity"
)

// DefaultDecimals is the fixed-point scale used by Chainlink-style USD feeds
// and by the PriceMonitor contract.
const DefaultDecimals = 8

// FormatUnits renders a raw fixed-point integer as an exact decimal string.
// Example: raw=1234500000, decimals=8 => "12.345".
func FormatUnits(raw *big.Int, decimals uint8) string {
	if raw == nil {
		return "0"
	}
	if decimals == 0 {
		return raw.String()
	}

	sign := ""
	abs := new(big.Int).Abs(raw)
	if raw.Sign() < 0 {
		sign = "-"
	}

	digits := abs.String()
	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}

	split := len(digits) - int(decimals)
	intPart := digits[:split]
	fracPart := strings.TrimRight(digits[split:], "0")

	if fracPart == "" {
		return sign + intPart
	}
	return sign + intPart + "." + fracPart
}

// ToDisplay converts a raw fixed-point integer to a float for display.
func ToDisplay(raw *big.Int, decimals uint8) float64 {
	f, err := strconv.ParseFloat(FormatUnits(raw, decimals), 64)
	if err != nil {
		// FormatUnits output is always a valid decimal literal.
		return 0
	}
	return f
}

// ParseUnits converts a user-supplied decimal string to the raw fixed-point
// integer submitted on chain. Empty, non-numeric and negative input fails
// with entity.ErrInvalidAmount, as does a fractional part longer than the
// fixed-point scale.
func ParseUnits(display string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(display)
	if s == "" {
		return nil, fmt.Errorf("%w: empty value", entity.ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("%w: negative value %q", entity.ErrInvalidAmount, display)
	}
	s = strings.TrimPrefix(s, "+")

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("%w: %q is not a number", entity.ErrInvalidAmount, display)
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return nil, fmt.Errorf("%w: %q is not a number", entity.ErrInvalidAmount, display)
	}
	if len(fracPart) > int(decimals) {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits", entity.ErrInvalidAmount, display, decimals)
	}

	fracPart += strings.Repeat("0", int(decimals)-len(fracPart))
	raw, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a number", entity.ErrInvalidAmount, display)
	}
	return raw, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
