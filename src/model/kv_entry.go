package model

import "time"

// KVEntry backs the SQL flavour of the key-value store: one row per
// (namespace, key) holding an opaque JSON document.
type KVEntry struct {
	Namespace string    `gorm:"primaryKey;size:100" json:"namespace"`
	Key       string    `gorm:"primaryKey;size:100;column:entry_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
