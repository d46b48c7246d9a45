package models

import "fmt"

// UserField is a configured custom profile attribute definition.
type UserField struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	FieldType  string `db:"field_type" json:"field_type"`
	Searchable bool   `db:"searchable" json:"searchable"`
}

// StorageKey returns the key under which values for this field are stored
// in the sparse user_custom_fields table.
func (f UserField) StorageKey() string {
	return UserFieldKey(f.ID)
}

// UserFieldKey maps a field id to its user_custom_fields storage key.
func UserFieldKey(id int64) string {
	return fmt.Sprintf("user_field_%d", id)
}

// UserFieldOption is one configured selectable value for a field.
type UserFieldOption struct {
	ID          int64  `db:"id" json:"id"`
	UserFieldID int64  `db:"user_field_id" json:"user_field_id"`
	Value       string `db:"value" json:"value"`
}
