package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/voyahq/tripdesk/internal/apiserver/database"
	"github.com/voyahq/tripdesk/internal/apiserver/scope"
	"github.com/voyahq/tripdesk/internal/common/cnst"
	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
	"github.com/voyahq/tripdesk/internal/storage"
)

// DocumentService attaches uploaded files to bookings. Files land in
// external storage; the database keeps only the path.
type DocumentService struct {
	store   database.Store
	files   storage.Storage
	booking *BookingService
	logger  *zap.Logger
}

func NewDocumentService(store database.Store, files storage.Storage, booking *BookingService, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		store:   store,
		files:   files,
		booking: booking,
		logger:  logger.Named("service.document"),
	}
}

// DocumentPath builds the storage path for an upload:
// bookings/{booking_id}/{doc_type}_{timestamp}.{ext}
func DocumentPath(bookingID uint, docType string, ts time.Time, ext string) string {
	return fmt.Sprintf("bookings/%d/%s_%d%s", bookingID, docType, ts.Unix(), ext)
}

// AllowedExtension reports whether ext (with leading dot, any case) is an
// accepted document file type.
func AllowedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range cnst.AllowedDocExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Upload stores the file and records the document. The write to storage is
// synchronous; the database row and audit entry commit together afterwards.
func (s *DocumentService) Upload(ctx context.Context, p scope.Principal, bookingID uint, form *dto.UploadDocumentForm, filename string, content io.Reader) (*database.Document, error) {
	booking, err := s.booking.getOwned(ctx, p, bookingID)
	if err != nil {
		return nil, err
	}

	// The type is part of the storage path, so it must come from the known
	// set; anything else could carry path segments.
	if !cnst.ValidDocType(form.DocType) {
		return nil, errorx.ErrInvalidInput.WithDetail("fields", map[string]any{
			"doc_type": "unknown document type",
		})
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !AllowedExtension(ext) {
		return nil, errorx.ErrInvalidInput.WithDetail("fields", map[string]any{
			"file": fmt.Sprintf("extension %q not allowed", ext),
		})
	}

	path := DocumentPath(booking.ID, form.DocType, time.Now().UTC(), ext)
	storedPath, err := s.files.Save(ctx, path, content)
	if err != nil {
		s.logger.Error("document write failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	doc := &database.Document{
		ClientID:     booking.ClientID,
		BookingID:    booking.ID,
		DocType:      form.DocType,
		FilePath:     storedPath,
		OriginalName: filepath.Base(filename),
		IsRequired:   form.IsRequired,
		UploadedBy:   p.UserID,
	}
	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		if err := s.store.CreateDocument(ctx, doc); err != nil {
			return err
		}
		return logAction(ctx, s.store, p.UserID, "Document uploaded", "Document", doc.ID,
			database.JSONMap{"booking_id": booking.ID, "type": doc.DocType})
	})
	if err != nil {
		// The row rolled back; do not leave the file orphaned in storage.
		if rmErr := s.files.Remove(ctx, storedPath); rmErr != nil {
			s.logger.Warn("orphaned document file left behind",
				zap.String("path", storedPath), zap.Error(rmErr))
		}
		return nil, err
	}
	return doc, nil
}

// ListForBooking returns the non-archived documents of a booking.
func (s *DocumentService) ListForBooking(ctx context.Context, p scope.Principal, bookingID uint) ([]*database.Document, error) {
	if _, err := s.booking.getOwned(ctx, p, bookingID); err != nil {
		return nil, err
	}
	return s.store.ListDocumentsByBooking(ctx, bookingID)
}
