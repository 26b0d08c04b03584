package repository

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kpdgayao/vivita-inventory/models"
)

var nonLetters = regexp.MustCompile(`[^A-Z]`)

// SKUPrefix is the CAT-NAM part of a generated SKU
func SKUPrefix(category models.Category, name string) string {
	cat := nonLetters.ReplaceAllString(strings.ToUpper(string(category)), "")
	nam := nonLetters.ReplaceAllString(strings.ToUpper(name), "")
	return fmt.Sprintf("%s-%s", head(cat, 3), head(nam, 3))
}

// GenerateSKU returns prefix-NNN one past the highest existing number for
// the same prefix.
func GenerateSKU(category models.Category, name string, existing []string) string {
	prefix := SKUPrefix(category, name)
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `-?(\d+)`)
	highest := 0
	for _, sku := range existing {
		m := pattern.FindStringSubmatch(sku)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, highest+1)
}

func head(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
