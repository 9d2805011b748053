package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"hisab/internal/crypto"
	"hisab/internal/dates"
	apperrors "hisab/internal/errors"
	"hisab/internal/logger"
	"hisab/internal/models"
	"hisab/internal/pagination"
)

// DecryptionPlaceholder is returned as the content of an entry whose
// ciphertext cannot be opened. One unreadable entry must not fail the list.
const DecryptionPlaceholder = "[decryption failed]"

// diaryService handles diary business logic. Content is encrypted before it
// is stored and decrypted on the way out.
type diaryService struct {
	db     *gorm.DB
	cipher *crypto.Cipher
}

// NewDiaryService creates a new DiaryServicer.
func NewDiaryService(db *gorm.DB, cipher *crypto.Cipher) DiaryServicer {
	return &diaryService{db: db, cipher: cipher}
}

// CreateEntry encrypts and stores a new diary entry.
func (s *diaryService) CreateEntry(date time.Time, content string) (*DiaryEntryView, error) {
	if content == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "content is required")
	}

	enc, err := s.cipher.Encrypt(content)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entry := &models.DiaryEntry{
		Date:       dates.Normalize(date),
		ContentEnc: enc,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &DiaryEntryView{ID: entry.ID, Date: dates.Format(entry.Date), Content: content}, nil
}

// GetEntries returns a paginated list of decrypted entries, newest first.
// Entries that fail decryption degrade to a placeholder instead of aborting
// the whole listing.
func (s *diaryService) GetEntries(page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[DiaryEntryView], error) {
	page.Defaults()

	base := applyRecordFilter(s.db.Model(&models.DiaryEntry{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.DiaryEntry
	err := base.Order("date DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]DiaryEntryView, 0, len(entries))
	for _, entry := range entries {
		content, err := s.cipher.Decrypt(entry.ContentEnc)
		if err != nil {
			logger.Get().Warnw("diary entry decryption failed", "entry_id", entry.ID)
			content = DecryptionPlaceholder
		}
		views = append(views, DiaryEntryView{
			ID:      entry.ID,
			Date:    dates.Format(entry.Date),
			Content: content,
		})
	}

	result := pagination.NewPageResponse(views, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteEntry soft-deletes a diary entry.
func (s *diaryService) DeleteEntry(entryID uint) error {
	var entry models.DiaryEntry
	if err := s.db.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrDiaryEntryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(&entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
