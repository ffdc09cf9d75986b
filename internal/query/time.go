// Package query builds pipeline expressions for the analytics query engine
// from caller-owned filter state. All builders are pure functions; every
// user-controlled value is escaped before interpolation and every timeframe
// endpoint goes through FormatTimeValue so relative-time handling cannot
// diverge between call sites.
package query

import (
	"regexp"
	"strings"
)

// TraceWindowExpr is the fixed half-width of the span query window around an
// order timestamp.
const TraceWindowExpr = "5m"

// relativeTimeExpr matches the only relative expressions allowed to pass
// into query text unquoted: now() with at most one signed offset unit.
// Anything else a caller sends is treated as an absolute instant and quoted,
// so a crafted endpoint cannot smuggle pipeline stages after a bare now().
var relativeTimeExpr = regexp.MustCompile(`^now\(\)([+-]\d+[smhdw])?$`)

// FormatTimeValue normalizes one timeframe endpoint into query syntax.
// A bare "now" becomes the function call "now()"; relative expressions such
// as "now-2h" keep their offset suffix ("now()-2h", unquoted) provided the
// suffix is a single signed duration unit; everything else is treated as an
// absolute instant and quoted as a string literal. Empty input defaults to
// now().
func FormatTimeValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, `"'`)

	if v == "" || v == "now" {
		return "now()"
	}

	expr := v
	if strings.HasPrefix(v, "now-") || strings.HasPrefix(v, "now+") {
		expr = "now()" + v[len("now"):]
	}
	if relativeTimeExpr.MatchString(expr) {
		return expr
	}
	return `"` + EscapeValue(v) + `"`
}

// TraceWindow returns the from/to expressions for trace queries: the order's
// own timestamp plus/minus the fixed window. An empty timestamp falls back
// to the trailing window ending now.
func TraceWindow(timestamp string) (from, to string) {
	if strings.TrimSpace(timestamp) == "" {
		return "now()-" + TraceWindowExpr, "now()"
	}
	ts := `"` + EscapeValue(timestamp) + `"`
	return ts + " - " + TraceWindowExpr, ts + " + " + TraceWindowExpr
}
