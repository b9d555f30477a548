package models

import "time"

// CV is the metadata record for a user's uploaded résumé PDF.
type CV struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	FileName   string    `db:"file_name" json:"file_name"`
	StorageKey string    `db:"storage_key" json:"-"`
	SizeBytes  int64     `db:"size_bytes" json:"size_bytes"`
	MimeType   string    `db:"mime_type" json:"mime_type"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}
