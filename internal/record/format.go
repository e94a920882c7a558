package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/openformat/internal/layout"
)

// formatField converts v to exactly f.Width characters.
func formatField(code string, f layout.FieldSpec, v any, present bool) (string, error) {
	if !present || v == nil {
		if f.Default != "" {
			v = f.Default
		} else {
			v = nil
		}
	}

	var (
		s   string
		err error
	)
	switch f.Kind {
	case layout.Text:
		s, err = textValue(v)
	case layout.Numeric:
		s, err = numericValue(f, v)
	case layout.Date:
		s, err = clockValue(f, v, "20060102")
	case layout.Time:
		s, err = clockValue(f, v, "1504")
	case layout.Amount:
		s, err = amountValue(f, v)
	default:
		err = fmt.Errorf("unsupported field kind %s", f.Kind)
	}
	if err != nil {
		return "", &InvalidValueError{Code: code, Field: f.Name, Value: v, Reason: err.Error()}
	}

	n := utf8.RuneCountInString(s)
	if n > f.Width {
		return "", &FieldOverflowError{Code: code, Field: f.Name, Width: f.Width, Length: n, Value: s}
	}
	return pad(s, n, f), nil
}

func pad(s string, n int, f layout.FieldSpec) string {
	if n == f.Width {
		return s
	}
	fill := strings.Repeat(string(f.Pad), f.Width-n)
	if f.Justify == layout.Right {
		return fill + s
	}
	return s + fill
}

func textValue(v any) (string, error) {
	var s string
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		s = x
	case fmt.Stringer:
		s = x.String()
	case bool:
		s = flag(x)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		s = fmt.Sprintf("%d", x)
	default:
		return "", fmt.Errorf("unsupported type %T for a text field", v)
	}
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("not valid UTF-8")
	}
	if strings.ContainsAny(s, "\r\n") {
		return "", fmt.Errorf("line breaks are not allowed inside a field")
	}
	return s, nil
}

func numericValue(f layout.FieldSpec, v any) (string, error) {
	if v == nil {
		return "", nil
	}
	if b, ok := v.(bool); ok {
		return flag(b), nil
	}
	if s, ok := v.(string); ok && f.Decimals == 0 {
		s = strings.TrimSpace(s)
		if !digitsOnly(s) {
			return "", fmt.Errorf("numeric fields accept digits only")
		}
		return s, nil
	}
	scaled, err := scale(v, f.Decimals)
	if err != nil {
		return "", err
	}
	if scaled < 0 {
		return "", fmt.Errorf("numeric fields are unsigned")
	}
	return strconv.FormatInt(scaled, 10), nil
}

func clockValue(f layout.FieldSpec, v any, format string) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case time.Time:
		if x.IsZero() {
			return "", nil
		}
		return x.Format(format), nil
	case string:
		x = strings.TrimSpace(x)
		if !digitsOnly(x) {
			return "", fmt.Errorf("expected %d digits", f.Width)
		}
		if x != "" && len(x) != f.Width {
			return "", fmt.Errorf("expected %d digits, got %d", f.Width, len(x))
		}
		return x, nil
	default:
		return numericValue(f, v)
	}
}

func amountValue(f layout.FieldSpec, v any) (string, error) {
	var scaled int64
	if v != nil {
		var err error
		if scaled, err = scale(v, f.Decimals); err != nil {
			return "", err
		}
	}
	sign := "+"
	if scaled < 0 {
		sign = "-"
		scaled = -scaled
	}
	digits := strconv.FormatInt(scaled, 10)
	if len(digits) < f.Width-1 {
		digits = strings.Repeat("0", f.Width-1-len(digits)) + digits
	}
	return sign + digits, nil
}

// scale converts v to an integer count of 10^-decimals units.
func scale(v any, decimals int) (int64, error) {
	factor := int64(math.Pow10(decimals))
	switch x := v.(type) {
	case int:
		return scaleInt(int64(x), factor)
	case int8:
		return scaleInt(int64(x), factor)
	case int16:
		return scaleInt(int64(x), factor)
	case int32:
		return scaleInt(int64(x), factor)
	case int64:
		return scaleInt(x, factor)
	case uint:
		return scaleUint(uint64(x), factor)
	case uint8:
		return scaleUint(uint64(x), factor)
	case uint16:
		return scaleUint(uint64(x), factor)
	case uint32:
		return scaleUint(uint64(x), factor)
	case uint64:
		return scaleUint(x, factor)
	case float32:
		return scaleFloat(float64(x), factor)
	case float64:
		return scaleFloat(x, factor)
	case string:
		return parseDecimal(x, decimals)
	default:
		return 0, fmt.Errorf("unsupported type %T for a numeric field", v)
	}
}

func scaleInt(x, factor int64) (int64, error) {
	if x > math.MaxInt64/factor || x < math.MinInt64/factor {
		return 0, fmt.Errorf("value out of range")
	}
	return x * factor, nil
}

func scaleUint(x uint64, factor int64) (int64, error) {
	if x > uint64(math.MaxInt64/factor) {
		return 0, fmt.Errorf("value out of range")
	}
	return int64(x) * factor, nil
}

func scaleFloat(x float64, factor int64) (int64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("value is not finite")
	}
	r := math.Round(x * float64(factor))
	if math.Abs(r) > math.MaxInt64/2 {
		return 0, fmt.Errorf("value out of range")
	}
	return int64(r), nil
}

// parseDecimal reads "[+-]digits[.digits]" without going through floating point.
func parseDecimal(s string, decimals int) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("no digits")
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, fmt.Errorf("%q is not a decimal number", s)
	}
	if len(frac) > decimals {
		return 0, fmt.Errorf("%q has more than %d decimal places", s, decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))
	n, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value out of range")
	}
	if neg {
		n = -n
	}
	return n, nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
