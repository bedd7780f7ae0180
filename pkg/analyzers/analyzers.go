// Package analyzers holds the optional enrichment analyzers that attach to
// an intelligence report. Heuristic analyzers are pure functions; LLM-backed
// analyzers degrade to a neutral report on any failure so that a single
// broken collaborator never sinks the whole report.
package analyzers

import (
	"encoding/json"
	"strconv"
	"strings"
)

// tradeInEligible lists the categories with an active trade-in and used
// market in Nigeria. Analyzers that reason about resale or trade-in value
// short-circuit to their neutral report for anything else.
var tradeInEligible = map[string]bool{
	"phone":      true,
	"laptop":     true,
	"tablet":     true,
	"gaming":     true,
	"smartwatch": true,
	"camera":     true,
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// asFloat coerces loosely typed model output into a float. Models sometimes
// emit numbers as strings; anything unparseable counts as zero.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// formatAmount renders a naira amount with thousands separators and no
// decimals, e.g. 1234000 -> "1,234,000".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
