package models

import "gorm.io/gorm"

type File struct {
	Base
	Path      string  `gorm:"not null;uniqueIndex" json:"path"`
	URL       string  `json:"url"`
	Name      string  `gorm:"not null" json:"name"`
	Size      int64   `gorm:"not null" json:"size"`
	Type      string  `gorm:"not null" json:"type"`
	UserID    *string `gorm:"type:uuid;index" json:"userId,omitempty"`
	User      *User   `json:"user,omitempty"`
	SignedURL string  `gorm:"-" json:"signedUrl,omitempty"`
}

func (f *File) AfterFind(tx *gorm.DB) error {
	url, err := signFile(tx.Statement.Context, f.Path)
	if err != nil {
		log.Warn("Failed to sign URL for %s: %v", f.Path, err)
		return nil
	}
	f.SignedURL = url
	return nil
}
