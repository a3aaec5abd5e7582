package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/voyahq/tripdesk/internal/common/cnst"
)

// JSONMap is a schemaless string-keyed mapping stored as a JSON text column.
// It is advisory only: nothing in the booking rules depends on its contents.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	out, err := json.Marshal(m)
	return string(out), err
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for JSONMap")
	}
}

// StringList is a schemaless string list stored as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	out, err := json.Marshal(l)
	return string(out), err
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// User is an agency staff account. Agents own the clients and bookings they
// create; admins see everything.
type User struct {
	ID                       uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	FullName                 string    `json:"full_name" gorm:"type:varchar(120);not null"`
	Email                    string    `json:"email" gorm:"type:varchar(180);uniqueIndex;not null"`
	PasswordHash             string    `json:"-" gorm:"type:varchar(255);not null"`
	Role                     cnst.Role `json:"role" gorm:"type:varchar(20);not null;default:'agent'"`
	DefaultCommissionPercent float64   `json:"default_commission_percent" gorm:"default:10"`
	IsActive                 bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// Client is a traveler record owned by one agent.
type Client struct {
	ID             uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	AgentID        uint       `json:"agent_id" gorm:"index;not null"`
	FirstName      string     `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName       string     `json:"last_name" gorm:"type:varchar(100);not null"`
	Email          string     `json:"email" gorm:"type:varchar(180);index;not null"`
	Phone          string     `json:"phone" gorm:"type:varchar(50);index;not null"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	PassportNo     string     `json:"passport_no,omitempty" gorm:"type:varchar(80)"`
	PassportExpiry *time.Time `json:"passport_expiry,omitempty"`
	Nationality    string     `json:"nationality,omitempty" gorm:"type:varchar(80)"`
	Address        string     `json:"address,omitempty" gorm:"type:varchar(255)"`
	Notes          string     `json:"notes,omitempty" gorm:"type:text"`
	Tags           StringList `json:"tags" gorm:"type:text"`
	IsArchived     bool       `json:"is_archived" gorm:"not null;default:false"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	ArchivedBy     *uint      `json:"archived_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Booking is a trip sold to a client. Monetary figures are stored; paid and
// due amounts are derived from the booking's payments.
type Booking struct {
	ID                        uint               `json:"id" gorm:"primaryKey;autoIncrement"`
	Reference                 string             `json:"reference" gorm:"type:varchar(30);uniqueIndex;not null"`
	AgentID                   uint               `json:"agent_id" gorm:"index;not null"`
	ClientID                  uint               `json:"client_id" gorm:"index;not null"`
	BookingType               string             `json:"booking_type" gorm:"type:varchar(50);default:'combined'"`
	DepartureCity             string             `json:"departure_city,omitempty" gorm:"type:varchar(120)"`
	Destination               string             `json:"destination" gorm:"type:varchar(120);not null"`
	TravelDate                *time.Time         `json:"travel_date,omitempty"`
	ReturnDate                *time.Time         `json:"return_date,omitempty"`
	NumPax                    int                `json:"num_pax" gorm:"default:1"`
	Adults                    int                `json:"adults" gorm:"default:1"`
	Children                  int                `json:"children" gorm:"default:0"`
	HotelName                 string             `json:"hotel_name,omitempty" gorm:"type:varchar(150)"`
	FlightNumbers             string             `json:"flight_numbers,omitempty" gorm:"type:varchar(255)"`
	PNR                       string             `json:"pnr,omitempty" gorm:"type:varchar(50)"`
	Currency                  string             `json:"currency" gorm:"type:varchar(10);default:'EUR'"`
	TotalPrice                float64            `json:"total_price" gorm:"default:0"`
	Discount                  float64            `json:"discount" gorm:"default:0"`
	ServiceFee                float64            `json:"service_fee" gorm:"default:0"`
	ExtrasTotal               float64            `json:"extras_total" gorm:"default:0"`
	InternalCost              float64            `json:"internal_cost" gorm:"default:0"`
	CommissionPercentOverride *float64           `json:"commission_percent_override,omitempty"`
	Status                    cnst.BookingStatus `json:"status" gorm:"type:varchar(40);default:'new'"`
	CancelReason              string             `json:"cancel_reason,omitempty" gorm:"type:varchar(255)"`
	RefundAmount              *float64           `json:"refund_amount,omitempty"`
	RefundDate                *time.Time         `json:"refund_date,omitempty"`
	InvoiceNo                 string             `json:"invoice_no,omitempty" gorm:"type:varchar(40)"`
	IsArchived                bool               `json:"is_archived" gorm:"not null;default:false"`
	ArchivedAt                *time.Time         `json:"archived_at,omitempty"`
	ArchivedBy                *uint              `json:"archived_by,omitempty"`
	CreatedAt                 time.Time          `json:"created_at"`
}

// Payment is money received against a booking.
type Payment struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	BookingID  uint      `json:"booking_id" gorm:"index;not null"`
	AgentID    uint      `json:"agent_id" gorm:"index;not null"`
	Currency   string    `json:"currency" gorm:"type:varchar(10);default:'EUR'"`
	Amount     float64   `json:"amount" gorm:"not null"`
	Method     string    `json:"method" gorm:"type:varchar(20);default:'cash'"`
	ReceiptNo  string    `json:"receipt_no" gorm:"type:varchar(40);uniqueIndex;not null"`
	PaidAt     time.Time `json:"paid_at"`
	Note       string    `json:"note,omitempty" gorm:"type:varchar(255)"`
	IsArchived bool      `json:"is_archived" gorm:"not null;default:false"`
}

// Document is a stored file attached to a booking and its client. The file
// itself lives in external storage; only the path is recorded here.
type Document struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ClientID     uint      `json:"client_id" gorm:"index;not null"`
	BookingID    uint      `json:"booking_id" gorm:"index;not null"`
	DocType      string    `json:"doc_type" gorm:"type:varchar(50);not null"`
	FilePath     string    `json:"file_path" gorm:"type:varchar(400);not null"`
	OriginalName string    `json:"original_name,omitempty" gorm:"type:varchar(255)"`
	IsRequired   bool      `json:"is_required" gorm:"not null;default:false"`
	UploadedBy   uint      `json:"uploaded_by"`
	IsArchived   bool      `json:"is_archived" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActivityLog is the append-only audit trail. Rows are only ever inserted.
type ActivityLog struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     uint      `json:"user_id" gorm:"index"`
	Action     string    `json:"action" gorm:"type:varchar(100);not null"`
	EntityType string    `json:"entity_type" gorm:"type:varchar(50);not null"`
	EntityID   uint      `json:"entity_id"`
	Meta       JSONMap   `json:"meta,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Sequence is an atomic counter row backing reference and receipt numbering.
// Incrementing the row inside the caller's transaction serializes concurrent
// allocations on the row lock.
type Sequence struct {
	Name  string `gorm:"primaryKey;type:varchar(80)"`
	Value int64  `gorm:"not null"`
}

// PaidAmount sums the non-archived payments of a booking.
func PaidAmount(payments []*Payment) float64 {
	var total float64
	for _, p := range payments {
		if p.IsArchived {
			continue
		}
		total += p.Amount
	}
	return total
}

// DueAmount is the outstanding balance of a booking, never negative.
func DueAmount(totalPrice float64, payments []*Payment) float64 {
	due := totalPrice - PaidAmount(payments)
	if due < 0 {
		return 0
	}
	return due
}

// Profit is the booking margin over internal cost, never negative.
func Profit(totalPrice, internalCost float64) float64 {
	profit := totalPrice - internalCost
	if profit < 0 {
		return 0
	}
	return profit
}
