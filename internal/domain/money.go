package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// maxMinorUnits is the largest amount a draft can hold.
var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// AmountInput is the result of normalizing raw amount text.
// Text is what the input field shows; MinorUnits is the stored amount (cents).
type AmountInput struct {
	Text       string
	MinorUnits int64
}

// FormatMinorUnits renders cents as grouped currency units with two decimals
// (200000 -> "2,000.00").
func FormatMinorUnits(minorUnits int64) string {
	return FormatDecimal(decimal.New(minorUnits, -2), 2)
}

// FormatCurrency renders cents with a dollar sign (200000 -> "$2,000.00").
func FormatCurrency(minorUnits int64) string {
	return "$" + FormatMinorUnits(minorUnits)
}

// FormatDecimal renders a currency-unit amount with thousands separators and
// a fixed number of fractional digits.
func FormatDecimal(amount decimal.Decimal, places int32) string {
	fixed := amount.StringFixed(places)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	integerPart, fractionalPart, hasPoint := strings.Cut(fixed, ".")
	grouped := groupThousands(integerPart)
	if !hasPoint {
		return sign + grouped
	}
	return sign + grouped + "." + fractionalPart
}

// SanitizeAmountInput normalizes text as the user types it.
// Everything except digits and the first decimal point is dropped (digits
// after extra points are merged into the fractional part), the fractional
// part is cut to two digits, and the integer part is regrouped with commas.
// A dangling "." or a one-digit fraction is kept so typing is not disturbed.
// Trailing integer digits that would push the amount past the int64 range
// are dropped.
func SanitizeAmountInput(raw string) AmountInput {
	integerPart, fractionalPart, hasPoint := splitAmount(raw)

	amount := minorUnits(integerPart, fractionalPart)
	for amount.GreaterThan(maxMinorUnits) && integerPart != "" {
		integerPart = integerPart[:len(integerPart)-1]
		amount = minorUnits(integerPart, fractionalPart)
	}

	text := groupThousands(integerPart)
	if hasPoint {
		text += "." + fractionalPart
	}

	return AmountInput{
		Text:       text,
		MinorUnits: amount.IntPart(),
	}
}

// CommitAmountInput normalizes text when editing ends (blur, Enter, Escape).
// The stored amount is identical to SanitizeAmountInput; the text is the
// canonical two-decimal form, so "12.5" becomes "12.50" and "12." becomes "12.00".
func CommitAmountInput(raw string) AmountInput {
	typed := SanitizeAmountInput(raw)
	return AmountInput{
		Text:       FormatMinorUnits(typed.MinorUnits),
		MinorUnits: typed.MinorUnits,
	}
}

// ParseMinorUnits returns the cents value of amount text in any form
// produced by the formatters above.
func ParseMinorUnits(text string) int64 {
	return SanitizeAmountInput(text).MinorUnits
}

func splitAmount(raw string) (integerPart, fractionalPart string, hasPoint bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	integerPart, rest, hasPoint := strings.Cut(cleaned, ".")
	if hasPoint {
		fractionalPart = strings.ReplaceAll(rest, ".", "")
		if len(fractionalPart) > 2 {
			fractionalPart = fractionalPart[:2]
		}
	}

	if trimmed := strings.TrimLeft(integerPart, "0"); trimmed != "" || integerPart == "" {
		integerPart = trimmed
	} else {
		integerPart = "0"
	}

	return integerPart, fractionalPart, hasPoint
}

func minorUnits(integerPart, fractionalPart string) decimal.Decimal {
	whole := decimal.Zero
	if integerPart != "" {
		whole = decimal.RequireFromString(integerPart)
	}

	cents := decimal.Zero
	if fractionalPart != "" {
		cents = decimal.RequireFromString(fractionalPart + strings.Repeat("0", 2-len(fractionalPart)))
	}

	return whole.Mul(decimal.NewFromInt(100)).Add(cents)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
