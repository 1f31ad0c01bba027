// Package column manages the dynamic column set of the invoice item table
// and keeps line items synchronized with it. It is the single authority for
// translating a column key into a typed item value.
package column

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/weehong/resetrix-invoice/internal/invoice/domain"
)

var (
	ErrKeyRequired    = errors.New("column_key_required")
	ErrKeyFormat      = errors.New("column_key_format")
	ErrKeyReserved    = errors.New("column_key_reserved")
	ErrKeyDuplicate   = errors.New("column_key_duplicate")
	ErrColumnRequired = errors.New("column_required")
	ErrColumnNotFound = errors.New("column_not_found")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// reservedKeys may not be used for custom columns. The four built-in keys
// map to LineItem fields; "id" is reserved to keep item serialization safe.
var reservedKeys = map[string]bool{
	"id":          true,
	"description": true,
	"quantity":    true,
	"unitPrice":   true,
	"total":       true,
}

// builtinKeys are the column keys that resolve to LineItem fields rather
// than CustomFields.
var builtinKeys = map[string]bool{
	"description": true,
	"quantity":    true,
	"unitPrice":   true,
	"total":       true,
}

// IsBuiltin reports whether key maps to a LineItem field.
func IsBuiltin(key string) bool { return builtinKeys[key] }

// Defaults returns the canonical four built-in columns in fixed order.
func Defaults() []domain.ColumnDefinition {
	return []domain.ColumnDefinition{
		{ID: "desc", Key: "description", Label: "Description", Type: domain.TypeText, Required: true, Order: 0},
		{ID: "qty", Key: "quantity", Label: "Quantity", Type: domain.TypeNumber, Required: true, Order: 1},
		{ID: "rate", Key: "unitPrice", Label: "Rate", Type: domain.TypeCurrency, Required: true, Order: 2},
		{ID: "total", Key: "total", Label: "Total", Type: domain.TypeCurrency, Required: false, Order: 3},
	}
}

// Sorted returns a copy of columns in rendering order: Order ascending,
// ties broken by slice position. Callers holding deserialized records must
// not assume slice order agrees with Order values.
func Sorted(columns []domain.ColumnDefinition) []domain.ColumnDefinition {
	out := append([]domain.ColumnDefinition(nil), columns...)
	sortByOrder(out)
	return out
}

// Proposal is the caller-supplied part of a new column; ID and Order are
// assigned by Add.
type Proposal struct {
	Key      string
	Label    string
	Type     domain.ValueType
	Required bool
	Width    string
}

// Add appends a new column with a fresh ID and an Order one past the
// current maximum, returning the list sorted by Order.
func Add(columns []domain.ColumnDefinition, proposal Proposal) ([]domain.ColumnDefinition, error) {
	if err := ValidateKey(proposal.Key, columns, ""); err != nil {
		return nil, err
	}

	maxOrder := -1
	for _, col := range columns {
		if col.Order > maxOrder {
			maxOrder = col.Order
		}
	}

	out := append(append([]domain.ColumnDefinition(nil), columns...), domain.ColumnDefinition{
		ID:       newColumnID(),
		Key:      strings.TrimSpace(proposal.Key),
		Label:    proposal.Label,
		Type:     proposal.Type,
		Required: proposal.Required,
		Order:    maxOrder + 1,
		Width:    proposal.Width,
	})
	sortByOrder(out)
	return out, nil
}

// Remove deletes the column with the given ID and renumbers the remaining
// orders to a dense 0..n-1 sequence. Required columns are refused and the
// input list is returned unchanged.
func Remove(columns []domain.ColumnDefinition, id string) ([]domain.ColumnDefinition, error) {
	idx := indexByID(columns, id)
	if idx < 0 {
		return columns, ErrColumnNotFound
	}
	if columns[idx].Required {
		return columns, ErrColumnRequired
	}

	out := make([]domain.ColumnDefinition, 0, len(columns)-1)
	for i, col := range columns {
		if i != idx {
			out = append(out, col)
		}
	}
	sortByOrder(out)
	renumber(out)
	return out, nil
}

// Patch holds the mutable fields of a column update. Nil fields are left
// untouched.
type Patch struct {
	Key      *string
	Label    *string
	Type     *domain.ValueType
	Required *bool
	Width    *string
}

// Update applies a patch to the column with the given ID. A key change is
// re-validated against the other columns.
func Update(columns []domain.ColumnDefinition, id string, patch Patch) ([]domain.ColumnDefinition, error) {
	idx := indexByID(columns, id)
	if idx < 0 {
		return columns, ErrColumnNotFound
	}
	if patch.Key != nil {
		if err := ValidateKey(*patch.Key, columns, id); err != nil {
			return columns, err
		}
	}

	out := append([]domain.ColumnDefinition(nil), columns...)
	col := &out[idx]
	if patch.Key != nil {
		col.Key = strings.TrimSpace(*patch.Key)
	}
	if patch.Label != nil {
		col.Label = *patch.Label
	}
	if patch.Type != nil {
		col.Type = *patch.Type
	}
	if patch.Required != nil {
		col.Required = *patch.Required
	}
	if patch.Width != nil {
		col.Width = *patch.Width
	}
	sortByOrder(out)
	return out, nil
}

// Reorder moves the column at fromIndex (in Order sequence) to toIndex and
// renumbers. Out-of-range indexes leave the list unchanged.
func Reorder(columns []domain.ColumnDefinition, fromIndex, toIndex int) []domain.ColumnDefinition {
	out := append([]domain.ColumnDefinition(nil), columns...)
	sortByOrder(out)
	if fromIndex < 0 || fromIndex >= len(out) || toIndex < 0 || toIndex >= len(out) {
		return out
	}

	moved := out[fromIndex]
	out = append(out[:fromIndex], out[fromIndex+1:]...)
	out = append(out[:toIndex], append([]domain.ColumnDefinition{moved}, out[toIndex:]...)...)
	renumber(out)
	return out
}

// ValidateKey checks format, reservation and uniqueness of a column key.
// excludeID skips the column being edited from the uniqueness check.
func ValidateKey(key string, columns []domain.ColumnDefinition, excludeID string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ErrKeyRequired
	}
	if !keyPattern.MatchString(trimmed) {
		return ErrKeyFormat
	}
	if reservedKeys[trimmed] {
		return ErrKeyReserved
	}
	for _, col := range columns {
		if col.Key == trimmed && col.ID != excludeID {
			return ErrKeyDuplicate
		}
	}
	return nil
}

// SyncItems reconciles item custom fields with a column-set change: entries
// for removed custom columns are deleted and entries for added ones are
// seeded with a type-appropriate default. Items whose custom-field map ends
// up empty have it dropped entirely to keep serialized records compact.
func SyncItems(items []domain.LineItem, oldColumns, newColumns []domain.ColumnDefinition) []domain.LineItem {
	oldKeys := customKeys(oldColumns)
	newKeys := customKeys(newColumns)

	var removed []string
	for _, key := range oldKeys {
		if !contains(newKeys, key) {
			removed = append(removed, key)
		}
	}
	var added []string
	for _, key := range newKeys {
		if !contains(oldKeys, key) {
			added = append(added, key)
		}
	}

	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		updated := item
		fields := make(map[string]any, len(item.CustomFields)+len(added))
		for k, v := range item.CustomFields {
			fields[k] = v
		}
		for _, key := range removed {
			delete(fields, key)
		}
		for _, key := range added {
			fields[key] = defaultValue(findByKey(newColumns, key).Type)
		}
		if len(fields) == 0 {
			updated.CustomFields = nil
		} else {
			updated.CustomFields = fields
		}
		out[i] = updated
	}
	return out
}

// Conform prunes custom-field entries whose key no longer matches a defined
// custom column and seeds defaults for defined custom columns missing from
// an item. Used by the pipeline's normalize stage.
func Conform(items []domain.LineItem, columns []domain.ColumnDefinition) []domain.LineItem {
	keys := customKeys(columns)

	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		updated := item
		fields := make(map[string]any, len(keys))
		for _, key := range keys {
			if value, ok := item.CustomFields[key]; ok {
				fields[key] = value
			} else {
				fields[key] = defaultValue(findByKey(columns, key).Type)
			}
		}
		if len(fields) == 0 {
			updated.CustomFields = nil
		} else {
			updated.CustomFields = fields
		}
		out[i] = updated
	}
	return out
}

// Value resolves a column's value from an item: built-in keys read LineItem
// fields, everything else goes through CustomFields with a typed default.
func Value(item domain.LineItem, col domain.ColumnDefinition) any {
	switch col.Key {
	case "description":
		return item.Description
	case "quantity":
		return item.Quantity
	case "unitPrice":
		return item.UnitPrice
	case "total":
		return item.Total
	}
	if value, ok := item.CustomFields[col.Key]; ok {
		return value
	}
	return defaultValue(col.Type)
}

// SetValue writes a column's value into a copy of the item.
func SetValue(item domain.LineItem, col domain.ColumnDefinition, value any) domain.LineItem {
	switch col.Key {
	case "description":
		item.Description, _ = value.(string)
		return item
	case "quantity":
		item.Quantity = asNumber(value)
		return item
	case "unitPrice":
		item.UnitPrice = asNumber(value)
		return item
	case "total":
		item.Total = asNumber(value)
		return item
	}

	fields := make(map[string]any, len(item.CustomFields)+1)
	for k, v := range item.CustomFields {
		fields[k] = v
	}
	fields[col.Key] = value
	item.CustomFields = fields
	return item
}

func newColumnID() string { return "col_" + uuid.NewString() }

func defaultValue(t domain.ValueType) any {
	if t.Numeric() {
		return float64(0)
	}
	return ""
}

func asNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func customKeys(columns []domain.ColumnDefinition) []string {
	keys := make([]string, 0, len(columns))
	for _, col := range columns {
		if !IsBuiltin(col.Key) {
			keys = append(keys, col.Key)
		}
	}
	return keys
}

func findByKey(columns []domain.ColumnDefinition, key string) domain.ColumnDefinition {
	for _, col := range columns {
		if col.Key == key {
			return col
		}
	}
	return domain.ColumnDefinition{}
}

func indexByID(columns []domain.ColumnDefinition, id string) int {
	for i, col := range columns {
		if col.ID == id {
			return i
		}
	}
	return -1
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func sortByOrder(columns []domain.ColumnDefinition) {
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Order < columns[j].Order })
}

func renumber(columns []domain.ColumnDefinition) {
	for i := range columns {
		columns[i].Order = i
	}
}
