// Package model defines the core domain models used throughout the application.
package model

// Input table column names.
const (
	ColumnID        = "id"
	ColumnProductID = "product_id"
	ColumnLabel     = "label"
	ColumnText      = "text"
)

// InputColumns lists the columns every input table must carry, in canonical order.
var InputColumns = []string{ColumnID, ColumnProductID, ColumnLabel, ColumnText}

// Review is a single customer review as loaded from the input table.
type Review struct {
	// Extra holds any non-standard input columns so they survive to the output table.
	// A product_id or label cell that is not an integer is also kept here verbatim,
	// and ProductID or Label is left at zero.
	Extra     map[string]string
	ID        string
	Text      string
	ProductID int
	Label     int
}

// Value returns the raw string value of a column, looking at the standard
// fields first and then at Extra. A product_id or label cell kept verbatim
// in Extra wins over the zero it parsed to.
func (r Review) Value(column string) string {
	switch column {
	case ColumnID:
		return r.ID
	case ColumnProductID, ColumnLabel:
		if raw, ok := r.Extra[column]; ok {
			return raw
		}
		if column == ColumnProductID {
			return itoa(r.ProductID)
		}
		return itoa(r.Label)
	case ColumnText:
		return r.Text
	default:
		return r.Extra[column]
	}
}
