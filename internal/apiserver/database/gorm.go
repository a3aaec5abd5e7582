package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/voyahq/tripdesk/internal/common/cnst"
)

// store implements Store on top of GORM. The dialect is chosen by the
// factory; everything here is dialect-neutral SQL.
type store struct {
	db *gorm.DB
}

func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := TransactionFromContext(ctx); tx != nil {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ContextWithTransaction(ctx, tx))
	})
}

// ---- Users ----

func (s *store) CreateUser(ctx context.Context, user *User) error {
	return getDBFromContext(ctx, s.db).Create(user).Error
}

func (s *store) UpdateUser(ctx context.Context, user *User) error {
	return getDBFromContext(ctx, s.db).Save(user).Error
}

func (s *store) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := getDBFromContext(ctx, s.db).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := getDBFromContext(ctx, s.db).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *store) ListUsers(ctx context.Context) ([]*User, error) {
	var users []*User
	err := getDBFromContext(ctx, s.db).Order("created_at desc").Find(&users).Error
	return users, err
}

func (s *store) ListActiveAgents(ctx context.Context) ([]*User, error) {
	var users []*User
	err := getDBFromContext(ctx, s.db).
		Where("role = ? AND is_active = ?", cnst.RoleAgent, true).
		Order("full_name asc").
		Find(&users).Error
	return users, err
}

// ---- Clients ----

func (s *store) CreateClient(ctx context.Context, client *Client) error {
	return getDBFromContext(ctx, s.db).Create(client).Error
}

func (s *store) UpdateClient(ctx context.Context, client *Client) error {
	return getDBFromContext(ctx, s.db).Save(client).Error
}

func (s *store) GetClientByID(ctx context.Context, id uint) (*Client, error) {
	var client Client
	err := getDBFromContext(ctx, s.db).Where("id = ?", id).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *store) FindActiveClientByEmailPhone(ctx context.Context, email, phone string) (*Client, error) {
	var client Client
	err := getDBFromContext(ctx, s.db).
		Where("email = ? AND phone = ? AND is_archived = ?", email, phone, false).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *store) ListClients(ctx context.Context, filter ClientFilter) ([]*Client, error) {
	q := getDBFromContext(ctx, s.db).Where("is_archived = ?", false)
	if filter.AgentID != nil {
		q = q.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(filter.Query)) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			like, like, like, like,
		)
	}
	var clients []*Client
	err := q.Order("created_at desc").Find(&clients).Error
	return clients, err
}

func (s *store) CountClients(ctx context.Context, agentID *uint) (int64, error) {
	q := getDBFromContext(ctx, s.db).Model(&Client{}).Where("is_archived = ?", false)
	if agentID != nil {
		q = q.Where("agent_id = ?", *agentID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (s *store) CountArchivedClients(ctx context.Context, agentID *uint) (int64, error) {
	q := getDBFromContext(ctx, s.db).Model(&Client{}).Where("is_archived = ?", true)
	if agentID != nil {
		q = q.Where("agent_id = ?", *agentID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// ---- Bookings ----

func (s *store) CreateBooking(ctx context.Context, booking *Booking) error {
	return getDBFromContext(ctx, s.db).Create(booking).Error
}

func (s *store) UpdateBooking(ctx context.Context, booking *Booking) error {
	return getDBFromContext(ctx, s.db).Save(booking).Error
}

func (s *store) GetBookingByID(ctx context.Context, id uint) (*Booking, error) {
	var booking Booking
	err := getDBFromContext(ctx, s.db).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *store) ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, int64, error) {
	q := getDBFromContext(ctx, s.db).Model(&Booking{}).
		Joins("JOIN clients ON bookings.client_id = clients.id").
		Where("bookings.is_archived = ?", false)

	if filter.AgentID != nil {
		q = q.Where("bookings.agent_id = ?", *filter.AgentID)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(filter.Query)) + "%"
		q = q.Where(
			"LOWER(bookings.reference) LIKE ? OR LOWER(clients.first_name) LIKE ? OR LOWER(clients.last_name) LIKE ? OR LOWER(clients.email) LIKE ? OR clients.phone LIKE ?",
			like, like, like, like, like,
		)
	}
	if filter.Destination != "" {
		q = q.Where("LOWER(bookings.destination) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(filter.Destination))+"%")
	}
	if filter.Status != "" {
		q = q.Where("bookings.status = ?", filter.Status)
	}
	if filter.TravelFrom != nil {
		q = q.Where("bookings.travel_date >= ?", *filter.TravelFrom)
	}
	if filter.TravelTo != nil {
		q = q.Where("bookings.travel_date < ?", filter.TravelTo.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 15
	}

	var bookings []*Booking
	err := q.Order("bookings.created_at desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&bookings).Error
	return bookings, total, err
}

func (s *store) ListBookingsByClient(ctx context.Context, clientID uint) ([]*Booking, error) {
	var bookings []*Booking
	err := getDBFromContext(ctx, s.db).
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Find(&bookings).Error
	return bookings, err
}

func (s *store) CountBookingsByStatus(ctx context.Context, agentID *uint, status cnst.BookingStatus) (int64, error) {
	q := getDBFromContext(ctx, s.db).Model(&Booking{}).
		Where("is_archived = ? AND status = ?", false, status)
	if agentID != nil {
		q = q.Where("agent_id = ?", *agentID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (s *store) TopDestinations(ctx context.Context, agentID *uint, limit int) ([]DestinationCount, error) {
	q := getDBFromContext(ctx, s.db).Model(&Booking{}).
		Select("destination, COUNT(id) AS count").
		Where("is_archived = ?", false)
	if agentID != nil {
		q = q.Where("agent_id = ?", *agentID)
	}
	var rows []DestinationCount
	err := q.Group("destination").
		Order("count desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ---- Payments ----

func (s *store) CreatePayment(ctx context.Context, payment *Payment) error {
	return getDBFromContext(ctx, s.db).Create(payment).Error
}

func (s *store) UpdatePayment(ctx context.Context, payment *Payment) error {
	return getDBFromContext(ctx, s.db).Save(payment).Error
}

func (s *store) GetPaymentByID(ctx context.Context, id uint) (*Payment, error) {
	var payment Payment
	err := getDBFromContext(ctx, s.db).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *store) ListPaymentsByBooking(ctx context.Context, bookingID uint) ([]*Payment, error) {
	var payments []*Payment
	err := getDBFromContext(ctx, s.db).
		Where("booking_id = ? AND is_archived = ?", bookingID, false).
		Order("paid_at desc").
		Find(&payments).Error
	return payments, err
}

func (s *store) ListPaymentsByBookings(ctx context.Context, bookingIDs []uint) ([]*Payment, error) {
	if len(bookingIDs) == 0 {
		return nil, nil
	}
	var payments []*Payment
	err := getDBFromContext(ctx, s.db).
		Where("booking_id IN ? AND is_archived = ?", bookingIDs, false).
		Order("paid_at desc").
		Find(&payments).Error
	return payments, err
}

// ---- Activity log ----

func (s *store) AddActivity(ctx context.Context, entry *ActivityLog) error {
	return getDBFromContext(ctx, s.db).Create(entry).Error
}

func (s *store) ListRecentActivity(ctx context.Context, filter ActivityFilter) ([]*ActivityLog, error) {
	q := getDBFromContext(ctx, s.db).Model(&ActivityLog{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	var entries []*ActivityLog
	err := q.Order("created_at desc").Limit(limit).Find(&entries).Error
	return entries, err
}

// ---- Documents ----

func (s *store) CreateDocument(ctx context.Context, doc *Document) error {
	return getDBFromContext(ctx, s.db).Create(doc).Error
}

func (s *store) ListDocumentsByBooking(ctx context.Context, bookingID uint) ([]*Document, error) {
	var docs []*Document
	err := getDBFromContext(ctx, s.db).
		Where("booking_id = ? AND is_archived = ?", bookingID, false).
		Order("created_at desc").
		Find(&docs).Error
	return docs, err
}

func (s *store) ListDocumentsByClient(ctx context.Context, clientID uint) ([]*Document, error) {
	var docs []*Document
	err := getDBFromContext(ctx, s.db).
		Where("client_id = ? AND is_archived = ?", clientID, false).
		Order("created_at desc").
		Find(&docs).Error
	return docs, err
}

// ---- Reference numbering ----

func (s *store) NextReference(ctx context.Context, prefix string) (string, error) {
	year := time.Now().UTC().Year()
	name := fmt.Sprintf("booking_ref:%s:%d", prefix, year)
	seq, err := s.nextSequence(ctx, name, func(db *gorm.DB) (int64, error) {
		return maxNumericSuffix(db, "bookings", "reference", fmt.Sprintf("%s-%d-%%", prefix, year))
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, seq), nil
}

func (s *store) NextReceiptNo(ctx context.Context) (string, error) {
	year := time.Now().UTC().Year()
	name := fmt.Sprintf("receipt_no:%d", year)
	seq, err := s.nextSequence(ctx, name, func(db *gorm.DB) (int64, error) {
		return maxNumericSuffix(db, "payments", "receipt_no", fmt.Sprintf("%s-%d-%%", cnst.ReceiptPrefix, year))
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%06d", cnst.ReceiptPrefix, year, seq), nil
}

// nextSequence increments the named counter and returns the new value. The
// UPDATE takes the row lock, so concurrent allocators inside their own
// transactions serialize instead of reading the same maximum. When the row
// does not exist yet it is seeded from the current maximum identifier so the
// counter continues an existing series.
func (s *store) nextSequence(ctx context.Context, name string, seed func(db *gorm.DB) (int64, error)) (int64, error) {
	db := getDBFromContext(ctx, s.db)

	var seq Sequence
	err := db.Where("name = ?", name).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		start, serr := seed(db)
		if serr != nil {
			return 0, serr
		}
		// Another writer may create the row first; the conflict is ignored
		// and the increment below still serializes on it.
		if cerr := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Sequence{Name: name, Value: start}).Error; cerr != nil {
			return 0, cerr
		}
	} else if err != nil {
		return 0, err
	}

	if err := db.Model(&Sequence{}).Where("name = ?", name).
		Update("value", gorm.Expr("value + 1")).Error; err != nil {
		return 0, err
	}
	if err := db.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

// maxNumericSuffix parses the trailing numeric segment of the largest
// identifier matching like, or 0 when none exists.
func maxNumericSuffix(db *gorm.DB, table, column, like string) (int64, error) {
	var ref sql.NullString
	if err := db.Table(table).
		Where(column+" LIKE ?", like).
		Select("MAX(" + column + ")").
		Scan(&ref).Error; err != nil {
		return 0, err
	}
	if !ref.Valid || ref.String == "" {
		return 0, nil
	}
	parts := strings.Split(ref.String, "-")
	n, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed identifier %q: %w", ref.String, err)
	}
	return n, nil
}

// ---- Report aggregates ----

func (s *store) AggregateBookings(ctx context.Context, filter ReportFilter) (*BookingTotals, error) {
	q := getDBFromContext(ctx, s.db).Model(&Booking{}).Where("is_archived = ?", false)
	if filter.AgentID != nil {
		q = q.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", filter.To.AddDate(0, 0, 1))
	}

	var totals BookingTotals
	err := q.Select(
		"COUNT(id) AS count, COALESCE(SUM(total_price), 0) AS revenue, COALESCE(SUM(internal_cost), 0) AS internal_cost",
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (s *store) SumPayments(ctx context.Context, filter ReportFilter) (float64, int64, error) {
	q := getDBFromContext(ctx, s.db).Model(&Payment{}).Where("is_archived = ?", false)
	if filter.AgentID != nil {
		q = q.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.From != nil {
		q = q.Where("paid_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("paid_at < ?", filter.To.AddDate(0, 0, 1))
	}

	var row struct {
		Paid  float64
		Count int64
	}
	err := q.Select("COALESCE(SUM(amount), 0) AS paid, COUNT(id) AS count").Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Paid, row.Count, nil
}

// OutstandingBookings returns non-archived bookings whose active payments do
// not cover the total price. The per-booking paid sum is pushed into the
// query as a grouped join rather than loading every booking and iterating.
func (s *store) OutstandingBookings(ctx context.Context, filter OutstandingFilter) ([]*OutstandingRow, error) {
	q := getDBFromContext(ctx, s.db).Model(&Booking{}).
		Select("bookings.*, COALESCE(SUM(payments.amount), 0) AS paid_amount").
		Joins("LEFT JOIN payments ON payments.booking_id = bookings.id AND payments.is_archived = ?", false).
		Where("bookings.is_archived = ?", false)

	if filter.AgentID != nil {
		q = q.Where("bookings.agent_id = ?", *filter.AgentID)
	}
	if filter.From != nil {
		q = q.Where("bookings.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("bookings.created_at < ?", filter.To.AddDate(0, 0, 1))
	}
	if filter.Destination != "" {
		q = q.Where("LOWER(bookings.destination) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(filter.Destination))+"%")
	}
	if filter.Status != "" {
		q = q.Where("bookings.status = ?", filter.Status)
	}

	var rows []*OutstandingRow
	err := q.Group("bookings.id").
		Having("bookings.total_price - COALESCE(SUM(payments.amount), 0) > 0").
		Order("bookings.created_at desc").
		Find(&rows).Error
	return rows, err
}
