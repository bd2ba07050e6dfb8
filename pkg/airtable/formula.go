package airtable

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// FieldEquals builds a filterByFormula expression matching rows whose field
// equals value, e.g. {External ID}='abc'.
func FieldEquals(field, value string) string {
	return "{" + field + "}=" + quote(value)
}

// quote renders s as a formula string literal.
func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

// ListAll follows the offset cursor and returns every record matching
// formula.
func ListAll(ctx context.Context, c Client, formula string) ([]Record, error) {
	var all []Record
	params := ListParams{FilterByFormula: formula}
	for {
		page, err := c.ListRecords(ctx, params)
		if err != nil {
			return nil, eris.Wrap(err, "airtable: list all")
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		params.Offset = page.Offset
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
