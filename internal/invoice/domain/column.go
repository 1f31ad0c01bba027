package domain

// ValueType classifies what a table column holds and drives both cell
// alignment and default seeding for custom fields.
type ValueType string

const (
	TypeText     ValueType = "text"
	TypeNumber   ValueType = "number"
	TypeCurrency ValueType = "currency"
)

// Numeric reports whether values of this type are right-aligned numbers.
func (t ValueType) Numeric() bool {
	return t == TypeNumber || t == TypeCurrency
}

// ColumnDefinition describes one item-table column. Key is unique within a
// column set and, for the four built-in columns, matches a LineItem field;
// any other key resolves through LineItem.CustomFields. Order values are
// kept dense 0..n-1 by the column operations.
type ColumnDefinition struct {
	ID       string    `json:"id"`
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Type     ValueType `json:"type"`
	Required bool      `json:"required"`
	Order    int       `json:"order"`
	Width    string    `json:"width,omitempty"`
}
