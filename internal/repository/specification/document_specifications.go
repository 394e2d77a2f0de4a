package specification

import "gorm.io/gorm"

// ByCollection filters study documents by their named collection
type ByCollection struct {
	Collection string
}

func (s ByCollection) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("collection = ?", s.Collection)
}

// ByFieldValue filters on a key inside the jsonb payload (text comparison)
type ByFieldValue struct {
	Key   string
	Value string
}

func (s ByFieldValue) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("fields ->> ? = ?", s.Key, s.Value)
}
