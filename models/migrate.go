package models

import "gorm.io/gorm"

// AutoMigrate creates or extends the user, post and followers tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Post{}, &Follow{})
}
