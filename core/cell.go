package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCell renders a cell value as grid text. Integral floats render
// without a fractional part so 1, 1.0 and "1" share one text form.
func FormatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// LooseEqual compares two cells the way a spreadsheet compares them: when
// both sides are numeric (or numeric text) they compare as numbers,
// otherwise their text forms are compared. Blank text against a number
// counts as 0.
func LooseEqual(a, b any) bool {
	af, aok := numeric(a)
	bf, bok := numeric(b)
	switch {
	case aok && bok:
		return af == bf
	case aok && blank(b) && !isText(a):
		return af == 0
	case bok && blank(a) && !isText(b):
		return bf == 0
	}
	return FormatCell(a) == FormatCell(b)
}

func blank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func isText(v any) bool {
	_, ok := v.(string)
	return ok
}

func numeric(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NormalizeCell converts decoded JSON values to grid cell types: integral
// numbers become int, other numbers float64.
func NormalizeCell(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int(v)
		}
		return v
	default:
		return v
	}
}

// ParseCell infers a cell value from text: integers, floats and booleans are
// converted, anything else stays a string.
func ParseCell(s string) any {
	if s == "" {
		return ""
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strings.ContainsAny(s, ".eE") {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	return s
}
