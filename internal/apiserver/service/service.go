// Package service implements the booking-management business rules on top of
// the database store. Every operation takes the acting principal explicitly;
// multi-write operations run inside a single store transaction, and every
// mutation appends activity-log entries in that same transaction.
package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/voyahq/tripdesk/internal/apiserver/database"
	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// logAction appends an audit entry. Callers invoke it inside the mutation's
// transaction so the audit trail commits atomically with the change.
func logAction(ctx context.Context, store database.Store, actorID uint, action, entityType string, entityID uint, meta database.JSONMap) error {
	return store.AddActivity(ctx, &database.ActivityLog{
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Meta:       meta,
	})
}

// notFoundOr maps a gorm record-not-found onto the API error taxonomy and
// wraps everything else as a storage failure.
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.ErrNotFound
	}
	return err
}

func applyClientFields(c *database.Client, f dto.ClientFields) {
	c.FirstName = strings.TrimSpace(f.FirstName)
	c.LastName = strings.TrimSpace(f.LastName)
	c.Email = strings.TrimSpace(f.Email)
	c.Phone = strings.TrimSpace(f.Phone)
	c.BirthDate = dto.ParseDate(f.BirthDate)
	c.PassportNo = strings.TrimSpace(f.PassportNo)
	c.PassportExpiry = dto.ParseDate(f.PassportExpiry)
	c.Nationality = strings.TrimSpace(f.Nationality)
	c.Address = strings.TrimSpace(f.Address)
	c.Notes = strings.TrimSpace(f.Notes)
}
