// Package money renders Colombian peso amounts the way users expect them:
// thousands separated with dots, no decimals.
package money

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// Format renders 100000 as "100.000".
func Format(amount int64) string {
	return strings.ReplaceAll(humanize.Comma(amount), ",", ".")
}
