package model

import "time"

// File holds the metadata of an uploaded image. The actual bytes live in
// whatever storage backend was configured when the file was stored.
type File struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Original file name before turning it into a storage key
	Name string `json:"name"`

	// Key the object is stored under. Random to allow different users
	// to upload files with the same name
	Path string `gorm:"uniqueIndex;not null" json:"path"`

	URL string `json:"url"`

	CreatedAt time.Time `json:"-"`
}
