// Package renderer formats the reports of the pft tool as markdown.
package renderer

import (
	"database/sql"
	"strconv"

	"github.com/etnz/folio"
)

// missing is printed in place of an unknown value.
const missing = "n/a"

func quantity(q float64) string { return strconv.FormatFloat(q, 'f', -1, 64) }

func money(v float64, cur string) string { return folio.M(v, cur).String() }

func signedMoney(v float64, cur string) string { return folio.M(v, cur).SignedString() }

func percent(v float64) string { return folio.Percent(v).SignedString() }

// nullMoney formats an optional amount.
func nullMoney(v sql.NullFloat64, cur string) string {
	if !v.Valid {
		return missing
	}
	return money(v.Float64, cur)
}

func nullSignedMoney(v sql.NullFloat64, cur string) string {
	if !v.Valid {
		return missing
	}
	return signedMoney(v.Float64, cur)
}

func nullPercent(v sql.NullFloat64) string {
	if !v.Valid {
		return missing
	}
	return percent(v.Float64)
}
