package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/voyahq/tripdesk/internal/apiserver/database"
	"github.com/voyahq/tripdesk/internal/apiserver/scope"
	"github.com/voyahq/tripdesk/internal/common/cnst"
	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// BookingService owns the booking lifecycle: creation with client upsert,
// edits, payments with the auto-confirm rule, and archival.
type BookingService struct {
	store  database.Store
	logger *zap.Logger
}

func NewBookingService(store database.Store, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:  store,
		logger: logger.Named("service.booking"),
	}
}

// BookingDetail is a booking with its related records and derived figures.
type BookingDetail struct {
	Booking     *database.Booking    `json:"booking"`
	Client      *database.Client     `json:"client"`
	Payments    []*database.Payment  `json:"payments"`
	Documents   []*database.Document `json:"documents"`
	MissingDocs []string             `json:"missing_docs"`
	PaidAmount  float64              `json:"paid_amount"`
	DueAmount   float64              `json:"due_amount"`
	Profit      float64              `json:"profit"`
}

// BookingPage is one page of a filtered booking list.
type BookingPage struct {
	Bookings []*database.Booking `json:"bookings"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PerPage  int                 `json:"per_page"`
}

// getOwned loads a booking and enforces the ownership rule. Foreign bookings
// yield a forbidden error, not a not-found.
func (s *BookingService) getOwned(ctx context.Context, p scope.Principal, id uint) (*database.Booking, error) {
	booking, err := s.store.GetBookingByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if err := p.Authorize(booking.AgentID); err != nil {
		return nil, err
	}
	return booking, nil
}

// Create books a trip for a client in one transaction. The client is
// upserted on (email, phone) among non-archived clients: a match is updated
// in place, otherwise a new client owned by the acting agent is created.
// The booking reference is allocated inside the same transaction.
func (s *BookingService) Create(ctx context.Context, p scope.Principal, req *dto.CreateBookingRequest) (*database.Booking, error) {
	status := cnst.BookingStatus(req.Status)
	if !cnst.ValidStatus(status) {
		return nil, errorx.ErrInvalidInput.WithDetail("fields", map[string]any{"status": "unknown status"})
	}

	var booking *database.Booking
	err := s.store.Transaction(ctx, func(ctx context.Context) error {
		email := strings.TrimSpace(req.Client.Email)
		phone := strings.TrimSpace(req.Client.Phone)

		client, err := s.store.FindActiveClientByEmailPhone(ctx, email, phone)
		if err != nil {
			return err
		}
		if client != nil {
			applyClientFields(client, req.Client)
			if err := s.store.UpdateClient(ctx, client); err != nil {
				return err
			}
			if err := logAction(ctx, s.store, p.UserID, "Client updated via booking", "Client", client.ID,
				database.JSONMap{"email": client.Email, "phone": client.Phone}); err != nil {
				return err
			}
		} else {
			client = &database.Client{AgentID: p.UserID, Tags: database.StringList{}}
			applyClientFields(client, req.Client)
			if err := s.store.CreateClient(ctx, client); err != nil {
				return err
			}
			if err := logAction(ctx, s.store, p.UserID, "Client created via booking", "Client", client.ID,
				database.JSONMap{"email": client.Email, "phone": client.Phone}); err != nil {
				return err
			}
		}

		reference, err := s.store.NextReference(ctx, cnst.BookingRefPrefix)
		if err != nil {
			return err
		}

		booking = &database.Booking{
			Reference: reference,
			AgentID:   p.UserID,
			ClientID:  client.ID,
		}
		applyTripFields(booking, req.TripFields)

		if err := s.store.CreateBooking(ctx, booking); err != nil {
			return err
		}
		return logAction(ctx, s.store, p.UserID, "Created booking", "Booking", booking.ID,
			database.JSONMap{"reference": booking.Reference, "status": string(booking.Status)})
	})
	if err != nil {
		s.logger.Error("booking create failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("reference", booking.Reference),
		zap.Uint("agent_id", p.UserID))
	return booking, nil
}

// Update overwrites booking and client fields. Status changes here are the
// manual transitions of the lifecycle.
func (s *BookingService) Update(ctx context.Context, p scope.Principal, id uint, req *dto.UpdateBookingRequest) (*database.Booking, error) {
	status := cnst.BookingStatus(req.Status)
	if !cnst.ValidStatus(status) {
		return nil, errorx.ErrInvalidInput.WithDetail("fields", map[string]any{"status": "unknown status"})
	}

	booking, err := s.getOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		client, err := s.store.GetClientByID(ctx, booking.ClientID)
		if err != nil {
			return notFoundOr(err)
		}
		applyClientFields(client, req.Client)
		if err := s.store.UpdateClient(ctx, client); err != nil {
			return err
		}

		applyTripFields(booking, req.TripFields)
		if err := s.store.UpdateBooking(ctx, booking); err != nil {
			return err
		}
		return logAction(ctx, s.store, p.UserID, "Updated booking", "Booking", booking.ID,
			database.JSONMap{"reference": booking.Reference, "status": string(booking.Status)})
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Get returns the booking detail with related records and derived figures.
func (s *BookingService) Get(ctx context.Context, p scope.Principal, id uint) (*BookingDetail, error) {
	booking, err := s.getOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	client, err := s.store.GetClientByID(ctx, booking.ClientID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	payments, err := s.store.ListPaymentsByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.ListDocumentsByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	uploaded := make(map[string]bool, len(docs))
	for _, d := range docs {
		uploaded[d.DocType] = true
	}
	missing := make([]string, 0, len(cnst.RequiredDocTypes))
	for _, t := range cnst.RequiredDocTypes {
		if !uploaded[t] {
			missing = append(missing, t)
		}
	}

	return &BookingDetail{
		Booking:     booking,
		Client:      client,
		Payments:    payments,
		Documents:   docs,
		MissingDocs: missing,
		PaidAmount:  database.PaidAmount(payments),
		DueAmount:   database.DueAmount(booking.TotalPrice, payments),
		Profit:      database.Profit(booking.TotalPrice, booking.InternalCost),
	}, nil
}

// List returns a page of bookings visible to the principal.
func (s *BookingService) List(ctx context.Context, p scope.Principal, q *dto.BookingListQuery) (*BookingPage, error) {
	filter := database.BookingFilter{
		AgentID:     p.AgentFilter(q.AgentID),
		Query:       q.Query,
		Destination: q.Destination,
		Status:      cnst.BookingStatus(q.Status),
		TravelFrom:  dto.ParseDate(q.DateFrom),
		TravelTo:    dto.ParseDate(q.DateTo),
		Page:        q.Page,
		PerPage:     q.PerPage,
	}

	bookings, total, err := s.store.ListBookings(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 15
	}
	return &BookingPage{Bookings: bookings, Total: total, Page: page, PerPage: perPage}, nil
}

// Archive soft-deletes a booking; it disappears from active queries but is
// retained for history.
func (s *BookingService) Archive(ctx context.Context, p scope.Principal, id uint) error {
	booking, err := s.getOwned(ctx, p, id)
	if err != nil {
		return err
	}

	return s.store.Transaction(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		booking.IsArchived = true
		booking.ArchivedAt = &now
		actor := p.UserID
		booking.ArchivedBy = &actor
		if err := s.store.UpdateBooking(ctx, booking); err != nil {
			return err
		}
		return logAction(ctx, s.store, p.UserID, "Archived booking", "Booking", booking.ID,
			database.JSONMap{"reference": booking.Reference})
	})
}

// AddPayment records money received against a booking. The receipt number is
// allocated inside the transaction. If the payment settles the balance while
// the booking is still in an early status, the booking auto-advances to
// confirmed; this is the only automatic transition.
func (s *BookingService) AddPayment(ctx context.Context, p scope.Principal, bookingID uint, req *dto.CreatePaymentRequest) (*database.Payment, error) {
	booking, err := s.getOwned(ctx, p, bookingID)
	if err != nil {
		return nil, err
	}

	var payment *database.Payment
	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		receiptNo, err := s.store.NextReceiptNo(ctx)
		if err != nil {
			return err
		}

		payment = &database.Payment{
			BookingID: booking.ID,
			AgentID:   booking.AgentID,
			Currency:  req.Currency,
			Amount:    req.Amount,
			Method:    req.Method,
			Note:      strings.TrimSpace(req.Note),
			ReceiptNo: receiptNo,
			PaidAt:    time.Now().UTC(),
		}
		if err := s.store.CreatePayment(ctx, payment); err != nil {
			return err
		}
		if err := logAction(ctx, s.store, p.UserID, "Payment added", "Payment", payment.ID,
			database.JSONMap{"booking_id": booking.ID, "amount": payment.Amount, "currency": payment.Currency}); err != nil {
			return err
		}

		payments, err := s.store.ListPaymentsByBooking(ctx, booking.ID)
		if err != nil {
			return err
		}
		due := database.DueAmount(booking.TotalPrice, payments)
		if due <= 0 && cnst.AutoConfirmable(booking.Status) {
			booking.Status = cnst.StatusConfirmed
			if err := s.store.UpdateBooking(ctx, booking); err != nil {
				return err
			}
			if err := logAction(ctx, s.store, p.UserID, "Booking status updated", "Booking", booking.ID,
				database.JSONMap{"status": string(booking.Status)}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("payment failed", zap.Uint("booking_id", bookingID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("receipt_no", payment.ReceiptNo),
		zap.Float64("amount", payment.Amount))
	return payment, nil
}

// ArchivePayment soft-deletes a payment; the booking's derived figures
// change accordingly.
func (s *BookingService) ArchivePayment(ctx context.Context, p scope.Principal, paymentID uint) error {
	payment, err := s.store.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return notFoundOr(err)
	}
	if err := p.Authorize(payment.AgentID); err != nil {
		return err
	}

	return s.store.Transaction(ctx, func(ctx context.Context) error {
		payment.IsArchived = true
		if err := s.store.UpdatePayment(ctx, payment); err != nil {
			return err
		}
		return logAction(ctx, s.store, p.UserID, "Archived payment", "Payment", payment.ID,
			database.JSONMap{"booking_id": payment.BookingID, "receipt_no": payment.ReceiptNo})
	})
}

func applyTripFields(b *database.Booking, f dto.TripFields) {
	b.BookingType = f.BookingType
	b.DepartureCity = strings.TrimSpace(f.DepartureCity)
	b.Destination = strings.TrimSpace(f.Destination)
	b.TravelDate = dto.ParseDate(f.TravelDate)
	b.ReturnDate = dto.ParseDate(f.ReturnDate)
	b.NumPax = f.NumPax
	b.Adults = f.Adults
	b.Children = f.Children
	b.HotelName = strings.TrimSpace(f.HotelName)
	b.FlightNumbers = strings.TrimSpace(f.FlightNumbers)
	b.PNR = strings.TrimSpace(f.PNR)
	b.Currency = f.Currency
	b.TotalPrice = f.TotalPrice
	b.Discount = f.Discount
	b.ServiceFee = f.ServiceFee
	b.ExtrasTotal = f.ExtrasTotal
	b.InternalCost = f.InternalCost
	b.Status = cnst.BookingStatus(f.Status)
	b.CancelReason = strings.TrimSpace(f.CancelReason)
	b.RefundAmount = f.RefundAmount
	b.RefundDate = dto.ParseDate(f.RefundDate)
}
