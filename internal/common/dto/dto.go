package dto

import (
	"time"
)

// DateLayout is the wire format for all date-only fields.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value, returning nil for empty or malformed
// input. Filters are lenient: a bad date widens the window instead of
// failing the request.
func ParseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

// ---- Auth / users ----

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserInfo struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type CreateUserRequest struct {
	FullName                 string  `json:"full_name" binding:"required,max=120"`
	Email                    string  `json:"email" binding:"required,email"`
	Password                 string  `json:"password" binding:"required,min=8"`
	Role                     string  `json:"role" binding:"required,oneof=admin agent"`
	IsActive                 *bool   `json:"is_active"`
	DefaultCommissionPercent float64 `json:"default_commission_percent" binding:"min=0,max=100"`
}

type UpdateUserRequest struct {
	FullName                 string  `json:"full_name" binding:"required,max=120"`
	Email                    string  `json:"email" binding:"required,email"`
	Password                 string  `json:"password" binding:"omitempty,min=8"`
	Role                     string  `json:"role" binding:"required,oneof=admin agent"`
	IsActive                 *bool   `json:"is_active"`
	DefaultCommissionPercent float64 `json:"default_commission_percent" binding:"min=0,max=100"`
}

// ---- Clients ----

// ClientFields are the traveler attributes shared by booking creation and
// client edits.
type ClientFields struct {
	FirstName      string `json:"first_name" binding:"required,max=100"`
	LastName       string `json:"last_name" binding:"required,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required,max=50"`
	BirthDate      string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	PassportNo     string `json:"passport_no" binding:"max=80"`
	PassportExpiry string `json:"passport_expiry" binding:"omitempty,datetime=2006-01-02"`
	Nationality    string `json:"nationality" binding:"max=80"`
	Address        string `json:"address" binding:"max=255"`
	Notes          string `json:"notes"`
}

type UpdateClientRequest struct {
	ClientFields
	Tags []string `json:"tags"`
}

type ClientListQuery struct {
	Query string `form:"q"`
}

// ---- Bookings ----

// TripFields are the booking attributes shared by create and update.
type TripFields struct {
	BookingType   string   `json:"booking_type" binding:"required,oneof=combined flight hotel visa package other"`
	DepartureCity string   `json:"departure_city" binding:"max=120"`
	Destination   string   `json:"destination" binding:"required,max=120"`
	TravelDate    string   `json:"travel_date" binding:"omitempty,datetime=2006-01-02"`
	ReturnDate    string   `json:"return_date" binding:"omitempty,datetime=2006-01-02"`
	NumPax        int      `json:"num_pax" binding:"min=1"`
	Adults        int      `json:"adults" binding:"min=1"`
	Children      int      `json:"children" binding:"min=0"`
	HotelName     string   `json:"hotel_name" binding:"max=150"`
	FlightNumbers string   `json:"flight_numbers" binding:"max=255"`
	PNR           string   `json:"pnr" binding:"max=50"`
	Currency      string   `json:"currency" binding:"required,oneof=EUR ALL USD GBP"`
	TotalPrice    float64  `json:"total_price" binding:"min=0"`
	Discount      float64  `json:"discount" binding:"min=0"`
	ServiceFee    float64  `json:"service_fee" binding:"min=0"`
	ExtrasTotal   float64  `json:"extras_total" binding:"min=0"`
	InternalCost  float64  `json:"internal_cost" binding:"min=0"`
	Status        string   `json:"status" binding:"required"`
	CancelReason  string   `json:"cancel_reason" binding:"max=255"`
	RefundAmount  *float64 `json:"refund_amount"`
	RefundDate    string   `json:"refund_date" binding:"omitempty,datetime=2006-01-02"`
}

type CreateBookingRequest struct {
	Client ClientFields `json:"client" binding:"required"`
	TripFields
}

type UpdateBookingRequest struct {
	Client ClientFields `json:"client" binding:"required"`
	TripFields
}

type BookingListQuery struct {
	Query       string `form:"q"`
	Destination string `form:"destination"`
	Status      string `form:"status"`
	DateFrom    string `form:"date_from"`
	DateTo      string `form:"date_to"`
	AgentID     *uint  `form:"agent_id"`
	Page        int    `form:"page"`
	PerPage     int    `form:"per_page"`
}

// ---- Payments ----

type CreatePaymentRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required,oneof=EUR ALL USD GBP"`
	Method   string  `json:"method" binding:"required,oneof=cash card bank_transfer other"`
	Note     string  `json:"note" binding:"max=255"`
}

// ---- Documents ----

type UploadDocumentForm struct {
	DocType    string `form:"doc_type" binding:"required,oneof=passport id_card ticket visa insurance invoice contract hotel_voucher other"`
	IsRequired bool   `form:"is_required"`
}

// ---- Reports ----

type ReportQuery struct {
	AgentID  *uint  `form:"agent_id"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

type OutstandingQuery struct {
	ReportQuery
	Destination string `form:"destination"`
	Status      string `form:"status"`
}

// KPIs are the aggregate figures of a report window.
type KPIs struct {
	TotalBookings int64   `json:"total_bookings"`
	Revenue       float64 `json:"revenue"`
	Paid          float64 `json:"paid"`
	Due           float64 `json:"due"`
	InternalCost  float64 `json:"internal_cost"`
	Profit        float64 `json:"profit"`
	AvgBooking    float64 `json:"avg_booking"`
	Margin        float64 `json:"margin"`
}
