package specification

import "gorm.io/gorm"

// ByMetadataType filters memory records by their metadata category
type ByMetadataType struct {
	MetadataType string
}

func (s ByMetadataType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("metadata_type = ?", s.MetadataType)
}

// PendingEmbedding selects memory records the consumer has not embedded yet
type PendingEmbedding struct{}

func (s PendingEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedded = ?", false)
}
