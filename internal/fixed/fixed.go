// Package fixed provides the scaled-integer money domain used across the
// simulation. All monetary values held by the portfolio, sizing and fill
// pipeline are Price values; floats exist only at component boundaries.
package fixed

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places carried by a Price.
const Scale = 7

// Multiplier converts between display floats and scaled integers.
const Multiplier = 1e7

const maxParseable = float64(math.MaxInt64) / Multiplier

// Price is a monetary amount scaled by 10^Scale.
type Price int64

// Parse converts a display-domain value into the scaled integer domain.
// NaN, infinities and values outside the representable range are errors.
func Parse(v float64) (Price, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("fixed: cannot parse %v", v)
	}
	if v > maxParseable || v < -maxParseable {
		return 0, fmt.Errorf("fixed: value %v out of range", v)
	}
	return Price(math.Round(v * Multiplier)), nil
}

// MustParse is Parse for values known valid at compile time.
func MustParse(v float64) Price {
	p, err := Parse(v)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseDecimal converts an exact decimal string into a Price. Values with
// more than Scale decimal places are rejected rather than truncated.
func ParseDecimal(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("fixed: invalid decimal %q: %w", s, err)
	}
	shifted := d.Shift(Scale)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("fixed: %q exceeds %d decimal places", s, Scale)
	}
	if !shifted.BigInt().IsInt64() {
		return 0, fmt.Errorf("fixed: value %q out of range", s)
	}
	return Price(shifted.IntPart()), nil
}

// Display converts a Price back to the display domain. Display is the exact
// inverse of Parse for every value within the supported precision.
func Display(p Price) float64 {
	return float64(p) / Multiplier
}

// Display is the method form of the package function.
func (p Price) Display() float64 { return Display(p) }

// String renders the price with full precision without going through floats.
func (p Price) String() string {
	return string(p.AppendString(nil))
}

// AppendString appends the decimal rendering of p to buf.
func (p Price) AppendString(buf []byte) []byte {
	return appendScaledInt(buf, int64(p), Scale)
}

func appendScaledInt(buf []byte, value int64, scale int) []byte {
	if scale <= 0 {
		return strconv.AppendInt(buf, value, 10)
	}

	neg := value < 0
	u := uint64(value)
	if neg {
		u = uint64(^value) + 1
	}

	var tmp [32]byte
	digits := strconv.AppendUint(tmp[:0], u, 10)

	if neg {
		buf = append(buf, '-')
	}

	if len(digits) <= scale {
		buf = append(buf, '0', '.')
		for i := 0; i < scale-len(digits); i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, digits...)
		return buf
	}

	idx := len(digits) - scale
	buf = append(buf, digits[:idx]...)
	buf = append(buf, '.')
	buf = append(buf, digits[idx:]...)
	return buf
}

// MulShares multiplies a per-share price by a signed share count, staying in
// the integer domain.
func MulShares(p Price, shares int64) Price {
	return p * Price(shares)
}
