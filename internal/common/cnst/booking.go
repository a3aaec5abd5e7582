package cnst

// Role is the access role of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusNew             BookingStatus = "new"
	StatusInProgress      BookingStatus = "in_progress"
	StatusPendingDocs     BookingStatus = "pending_docs"
	StatusPendingPayment  BookingStatus = "pending_payment"
	StatusConfirmed       BookingStatus = "confirmed"
	StatusTicketed        BookingStatus = "ticketed"
	StatusCompleted       BookingStatus = "completed"
	StatusCanceled        BookingStatus = "canceled"
	StatusIssue           BookingStatus = "issue"
	StatusRefundRequested BookingStatus = "refund_requested"
	StatusRefunded        BookingStatus = "refunded"
)

// BookingStatuses lists every valid booking status.
var BookingStatuses = []BookingStatus{
	StatusNew, StatusInProgress, StatusPendingDocs, StatusPendingPayment,
	StatusConfirmed, StatusTicketed, StatusCompleted, StatusCanceled,
	StatusIssue, StatusRefundRequested, StatusRefunded,
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s BookingStatus) bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// AutoConfirmable reports whether a fully paid booking in status s
// auto-advances to confirmed. All other transitions are manual.
func AutoConfirmable(s BookingStatus) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusPendingPayment:
		return true
	default:
		return false
	}
}

// Booking reference prefixes.
const (
	BookingRefPrefix = "OUT"
	ReceiptPrefix    = "RCPT"
)

// BookingTypes lists the supported booking kinds.
var BookingTypes = []string{"combined", "flight", "hotel", "visa", "package", "other"}

// Currencies supported on bookings and payments.
var Currencies = []string{"EUR", "ALL", "USD", "GBP"}

// PaymentMethods supported on payments.
var PaymentMethods = []string{"cash", "card", "bank_transfer", "other"}

// DocTypes lists the accepted document kinds. The value lands in storage
// paths, so anything outside this set is rejected.
var DocTypes = []string{
	"passport", "id_card", "ticket", "visa", "insurance",
	"invoice", "contract", "hotel_voucher", "other",
}

// ValidDocType reports whether s is a known document type.
func ValidDocType(s string) bool {
	for _, v := range DocTypes {
		if v == s {
			return true
		}
	}
	return false
}

// RequiredDocTypes is the default set of document types a booking needs
// before it can be ticketed.
var RequiredDocTypes = []string{"passport", "ticket"}

// AllowedDocExtensions are the file extensions accepted for document uploads.
var AllowedDocExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".webp"}
