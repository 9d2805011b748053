package models

import "time"

// DiaryEntry holds one journal entry. Content is encrypted before it ever
// reaches the database; ContentEnc is nonce-prefixed secretbox ciphertext.
type DiaryEntry struct {
	Base
	Date       time.Time `gorm:"type:date;not null;index" json:"-"`
	ContentEnc []byte    `gorm:"not null" json:"-"`
}
