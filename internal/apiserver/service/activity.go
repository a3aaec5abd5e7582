package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/voyahq/tripdesk/internal/apiserver/database"
	"github.com/voyahq/tripdesk/internal/apiserver/scope"
)

// ActivityService exposes the append-only audit feed. Entries are written by
// the mutating services; this one only reads.
type ActivityService struct {
	store  database.Store
	logger *zap.Logger
}

func NewActivityService(store database.Store, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		store:  store,
		logger: logger.Named("service.activity"),
	}
}

// Recent returns the latest audit entries visible to the principal. Admins
// see the whole feed, agents only their own actions.
func (s *ActivityService) Recent(ctx context.Context, p scope.Principal, limit int) ([]*database.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.store.ListRecentActivity(ctx, database.ActivityFilter{
		UserID: p.AgentFilter(nil),
		Limit:  limit,
	})
}
