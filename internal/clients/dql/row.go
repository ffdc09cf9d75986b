package dql

import (
	"encoding/json"
	"strconv"
)

// Row is one result record returned by the query engine: a flat mapping from
// field name to a dynamic scalar. Field names may contain literal dots
// ("service.name", "db.system") and must be addressed by exact key, not by
// nested-path traversal.
type Row map[string]any

// Str returns the string value for key, or "" when the field is missing or
// not a string-like scalar.
func (r Row) Str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}

// StrOr returns the string value for key, or fallback when missing/empty.
func (r Row) StrOr(key, fallback string) string {
	if s := r.Str(key); s != "" {
		return s
	}
	return fallback
}

// Num returns the numeric value for key coerced to float64. Missing fields,
// nulls and non-numeric values all coerce to 0 so derived statistics never
// see NaN.
func (r Row) Num(key string) float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Int returns the numeric value for key truncated to int64, 0 on any miss.
func (r Row) Int(key string) int64 {
	return int64(r.Num(key))
}

// Has reports whether the field is present and non-null.
func (r Row) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}
