package database

import (
	"context"
	"time"

	"github.com/voyahq/tripdesk/internal/common/cnst"
)

// BookingFilter narrows booking list queries. A nil AgentID means all agents
// (admin scope); agents always pass their own id.
type BookingFilter struct {
	AgentID     *uint
	Query       string // matches reference, client name, email, phone
	Destination string // substring match
	Status      cnst.BookingStatus
	TravelFrom  *time.Time
	TravelTo    *time.Time
	Page        int
	PerPage     int
}

// ClientFilter narrows client list queries.
type ClientFilter struct {
	AgentID *uint
	Query   string // matches name, email, phone
}

// ReportFilter scopes aggregate report queries. From/To are inclusive dates
// compared against booking creation and payment dates.
type ReportFilter struct {
	AgentID *uint
	From    *time.Time
	To      *time.Time
}

// OutstandingFilter narrows the outstanding-balance view.
type OutstandingFilter struct {
	ReportFilter
	Destination string
	Status      cnst.BookingStatus
}

// ActivityFilter narrows activity feed queries.
type ActivityFilter struct {
	UserID *uint
	Limit  int
}

// BookingTotals carries aggregate figures over a scoped booking set.
type BookingTotals struct {
	Count        int64
	Revenue      float64
	InternalCost float64
}

// OutstandingRow is a booking joined with its non-archived payment sum.
type OutstandingRow struct {
	Booking    `gorm:"embedded"`
	PaidAmount float64 `gorm:"column:paid_amount"`
}

// DestinationCount is a per-destination booking tally.
type DestinationCount struct {
	Destination string `json:"destination"`
	Count       int64  `json:"count"`
}

// Store is the persistence boundary of the apiserver. All methods honor a
// transaction carried on the context (see ContextWithTransaction).
type Store interface {
	// Close closes the database connection.
	Close() error

	// Transaction runs fn atomically. If the context already carries a
	// transaction, fn joins it; otherwise a new one is opened and committed
	// or rolled back as a unit.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Users
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	ListActiveAgents(ctx context.Context) ([]*User, error)

	// Clients
	CreateClient(ctx context.Context, client *Client) error
	UpdateClient(ctx context.Context, client *Client) error
	GetClientByID(ctx context.Context, id uint) (*Client, error)
	FindActiveClientByEmailPhone(ctx context.Context, email, phone string) (*Client, error)
	ListClients(ctx context.Context, filter ClientFilter) ([]*Client, error)
	CountClients(ctx context.Context, agentID *uint) (int64, error)
	CountArchivedClients(ctx context.Context, agentID *uint) (int64, error)

	// Bookings
	CreateBooking(ctx context.Context, booking *Booking) error
	UpdateBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id uint) (*Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, int64, error)
	ListBookingsByClient(ctx context.Context, clientID uint) ([]*Booking, error)
	CountBookingsByStatus(ctx context.Context, agentID *uint, status cnst.BookingStatus) (int64, error)
	TopDestinations(ctx context.Context, agentID *uint, limit int) ([]DestinationCount, error)

	// Payments
	CreatePayment(ctx context.Context, payment *Payment) error
	UpdatePayment(ctx context.Context, payment *Payment) error
	GetPaymentByID(ctx context.Context, id uint) (*Payment, error)
	ListPaymentsByBooking(ctx context.Context, bookingID uint) ([]*Payment, error)
	ListPaymentsByBookings(ctx context.Context, bookingIDs []uint) ([]*Payment, error)

	// Documents
	CreateDocument(ctx context.Context, doc *Document) error
	ListDocumentsByBooking(ctx context.Context, bookingID uint) ([]*Document, error)
	ListDocumentsByClient(ctx context.Context, clientID uint) ([]*Document, error)

	// Activity log (append-only)
	AddActivity(ctx context.Context, entry *ActivityLog) error
	ListRecentActivity(ctx context.Context, filter ActivityFilter) ([]*ActivityLog, error)

	// Reference numbering. Must be called inside a transaction so the
	// allocated identifier commits together with the entity that uses it.
	NextReference(ctx context.Context, prefix string) (string, error)
	NextReceiptNo(ctx context.Context) (string, error)

	// Report aggregates
	AggregateBookings(ctx context.Context, filter ReportFilter) (*BookingTotals, error)
	SumPayments(ctx context.Context, filter ReportFilter) (float64, int64, error)
	OutstandingBookings(ctx context.Context, filter OutstandingFilter) ([]*OutstandingRow, error)
}
