package web

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kpdgayao/vivita-inventory/ledger"
	"github.com/kpdgayao/vivita-inventory/models"
)

var statusLabels = map[ledger.StockStatus]string{
	ledger.StatusOutOfStock: "Out of stock",
	ledger.StatusLow:        "Low",
	ledger.StatusNormal:     "Normal",
	ledger.StatusHigh:       "Overstocked",
}

// TemplateFuncs returns the helpers available to every page
func TemplateFuncs(currency string, loc *time.Location) map[string]any {
	if loc == nil {
		loc = time.UTC
	}
	return map[string]any{
		"formatDate": func(v any) string {
			return formatTime(v, loc, "Jan 02, 2006 15:04")
		},
		"formatDateYMD": func(v any) string {
			return formatTime(v, loc, "2006-01-02")
		},
		"formatDateInput": func(v any) string {
			return formatTime(v, loc, "2006-01-02T15:04")
		},
		"formatCurrency": func(d decimal.Decimal) string {
			return FormatCurrency(currency, d)
		},
		"formatNumber": func(n int64) string {
			return groupThousands(strconv.FormatInt(n, 10))
		},
		"formatDuration": func(d time.Duration) string {
			if d < time.Millisecond {
				return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1000)
			}
			return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1000000)
		},
		"json": func(v any) string {
			b, err := json.Marshal(v)
			if err != nil {
				return "{}"
			}
			return string(b)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"label": func(v any) string {
			switch t := v.(type) {
			case models.Category:
				return t.Label()
			case models.TransactionType:
				return t.Label()
			case ledger.StockStatus:
				return statusLabels[t]
			default:
				return fmt.Sprint(v)
			}
		},
		"stockStatus": func(item models.Item) ledger.StockStatus {
			return ledger.Status(item)
		},
		"statusClass": func(s ledger.StockStatus) string {
			switch s {
			case ledger.StatusOutOfStock:
				return "danger"
			case ledger.StatusLow:
				return "warning"
			case ledger.StatusHigh:
				return "info"
			default:
				return "success"
			}
		},
		"isInflow": ledger.IsInflow,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"derefInt": func(n *int64) string {
			if n == nil {
				return ""
			}
			return strconv.FormatInt(*n, 10)
		},
	}
}

func formatTime(v any, loc *time.Location, layout string) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.In(loc).Format(layout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.In(loc).Format(layout)
	default:
		return ""
	}
}

// FormatCurrency renders d as "₱1,234.50"
func FormatCurrency(symbol string, d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	out := symbol + groupThousands(whole) + "." + frac
	if d.Round(2).IsNegative() {
		return "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
