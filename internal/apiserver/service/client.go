package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/voyahq/tripdesk/internal/apiserver/database"
	"github.com/voyahq/tripdesk/internal/apiserver/scope"
	"github.com/voyahq/tripdesk/internal/common/dto"
)

// ClientService manages traveler records outside the booking flow.
type ClientService struct {
	store  database.Store
	logger *zap.Logger
}

func NewClientService(store database.Store, logger *zap.Logger) *ClientService {
	return &ClientService{
		store:  store,
		logger: logger.Named("service.client"),
	}
}

// ClientDetail is a client with booking history, documents and payments.
type ClientDetail struct {
	Client    *database.Client     `json:"client"`
	Bookings  []*database.Booking  `json:"bookings"`
	Documents []*database.Document `json:"documents"`
	Payments  []*database.Payment  `json:"payments"`
}

func (s *ClientService) getOwned(ctx context.Context, p scope.Principal, id uint) (*database.Client, error) {
	client, err := s.store.GetClientByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if err := p.Authorize(client.AgentID); err != nil {
		return nil, err
	}
	return client, nil
}

// List returns non-archived clients visible to the principal, optionally
// filtered by a name/email/phone search term.
func (s *ClientService) List(ctx context.Context, p scope.Principal, q *dto.ClientListQuery) ([]*database.Client, error) {
	return s.store.ListClients(ctx, database.ClientFilter{
		AgentID: p.AgentFilter(nil),
		Query:   q.Query,
	})
}

// Get returns a client with the booking history, documents and payments
// attached to it.
func (s *ClientService) Get(ctx context.Context, p scope.Principal, id uint) (*ClientDetail, error) {
	client, err := s.getOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	bookings, err := s.store.ListBookingsByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.ListDocumentsByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	bookingIDs := make([]uint, 0, len(bookings))
	for _, b := range bookings {
		bookingIDs = append(bookingIDs, b.ID)
	}
	payments, err := s.store.ListPaymentsByBookings(ctx, bookingIDs)
	if err != nil {
		return nil, err
	}

	return &ClientDetail{
		Client:    client,
		Bookings:  bookings,
		Documents: docs,
		Payments:  payments,
	}, nil
}

// Update overwrites client fields and tags.
func (s *ClientService) Update(ctx context.Context, p scope.Principal, id uint, req *dto.UpdateClientRequest) (*database.Client, error) {
	client, err := s.getOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		applyClientFields(client, req.ClientFields)
		if req.Tags != nil {
			client.Tags = database.StringList(req.Tags)
		}
		if err := s.store.UpdateClient(ctx, client); err != nil {
			return err
		}
		return logAction(ctx, s.store, p.UserID, "Updated client", "Client", client.ID,
			database.JSONMap{"email": client.Email, "phone": client.Phone})
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Archive soft-deletes a client.
func (s *ClientService) Archive(ctx context.Context, p scope.Principal, id uint) error {
	client, err := s.getOwned(ctx, p, id)
	if err != nil {
		return err
	}

	return s.store.Transaction(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		client.IsArchived = true
		client.ArchivedAt = &now
		actor := p.UserID
		client.ArchivedBy = &actor
		if err := s.store.UpdateClient(ctx, client); err != nil {
			return err
		}
		return logAction(ctx, s.store, p.UserID, "Archived client", "Client", client.ID,
			database.JSONMap{"email": client.Email})
	})
}
