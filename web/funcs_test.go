package web

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kpdgayao/vivita-inventory/ledger"
	"github.com/kpdgayao/vivita-inventory/models"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"0":          "₱0.00",
		"12.5":       "₱12.50",
		"999.999":    "₱1,000.00",
		"1234567.5":  "₱1,234,567.50",
		"-2500":      "-₱2,500.00",
		"100000.004": "₱100,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency("₱", decimal.RequireFromString(in)), in)
	}
}

func TestTemplateFuncs(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	funcs := TemplateFuncs("₱", manila)

	at := time.Date(2024, 6, 15, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, "Jun 15, 2024 10:30", funcs["formatDate"].(func(any) string)(at))
	assert.Equal(t, "2024-06-15", funcs["formatDateYMD"].(func(any) string)(&at))
	assert.Equal(t, "", funcs["formatDate"].(func(any) string)((*time.Time)(nil)))
	assert.Equal(t, "12,345", funcs["formatNumber"].(func(int64) string)(12345))
	assert.Equal(t, "-1,000", funcs["formatNumber"].(func(int64) string)(-1000))

	label := funcs["label"].(func(any) string)
	assert.Equal(t, "Out of stock", label(ledger.StatusOutOfStock))
	assert.Equal(t, "Transfer In", label(models.TransactionTransferIn))
	assert.Equal(t, "Arts And Crafts", label(models.CategoryArts))
	assert.Equal(t, "warning", funcs["statusClass"].(func(ledger.StockStatus) string)(ledger.StatusLow))
}
