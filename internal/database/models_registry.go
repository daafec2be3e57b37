package database

import "toolkit/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for AutoMigrate: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Resource{},
		&models.Submission{},
		&models.Like{},
		&models.Comment{},
	}
}

// PersistentTables lists every table the models above own, join tables included.
func PersistentTables() []string {
	return []string{"users", "categories", "tags", "resources", "resource_tags", "submissions", "likes", "comments"}
}
