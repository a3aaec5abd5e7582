package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyahq/tripdesk/internal/apiserver/database"
	"github.com/voyahq/tripdesk/internal/common/cnst"
	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

func TestCreateBookingAllocatesYearScopedReferences(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)
	year := time.Now().UTC().Year()

	for i := 1; i <= 3; i++ {
		booking, err := env.bookings.Create(t.Context(), agent, bookingReq(i, 1000, "new"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("OUT-%d-%06d", year, i), booking.Reference)
	}
}

func TestCreateBookingContinuesExistingSeries(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)
	year := time.Now().UTC().Year()

	// A booking imported outside the counter must not be renumbered over.
	client := &database.Client{
		AgentID: agent.UserID, FirstName: "Old", LastName: "Client",
		Email: "old@example.com", Phone: "+355000",
	}
	require.NoError(t, env.store.CreateClient(t.Context(), client))
	require.NoError(t, env.store.CreateBooking(t.Context(), &database.Booking{
		Reference: fmt.Sprintf("OUT-%d-%06d", year, 41),
		AgentID:   agent.UserID, ClientID: client.ID,
		Destination: "Paris", Currency: "EUR", Status: cnst.StatusNew,
	}))

	booking, err := env.bookings.Create(t.Context(), agent, bookingReq(1, 500, "new"))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("OUT-%d-%06d", year, 42), booking.Reference)
}

func TestCreateBookingUpsertsClientOnEmailPhone(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)

	first, err := env.bookings.Create(t.Context(), agent, bookingReq(1, 800, "new"))
	require.NoError(t, err)

	// Same email and phone: the existing client is reused and refreshed.
	again := bookingReq(1, 600, "new")
	again.Client.LastName = "Hoxha-Renamed"
	second, err := env.bookings.Create(t.Context(), agent, again)
	require.NoError(t, err)
	assert.Equal(t, first.ClientID, second.ClientID)

	client, err := env.store.GetClientByID(t.Context(), first.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Hoxha-Renamed", client.LastName)

	count, err := env.store.CountClients(t.Context(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Same email, different phone: a distinct person.
	other := bookingReq(1, 700, "new")
	other.Client.Phone = "+355691234567"
	third, err := env.bookings.Create(t.Context(), agent, other)
	require.NoError(t, err)
	assert.NotEqual(t, first.ClientID, third.ClientID)

	count, err = env.store.CountClients(t.Context(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCreateBookingRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)

	req := bookingReq(1, 100, "teleported")
	_, err := env.bookings.Create(t.Context(), agent, req)
	require.Error(t, err)
	assert.Equal(t, errorx.ErrInvalidInput.Code, errorx.From(err).Code)
}

func TestBookingVisibilityScope(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "Mira Leka", cnst.RoleAgent)
	other := env.seedUser(t, "Dion Prifti", cnst.RoleAgent)
	admin := env.seedUser(t, "Root Admin", cnst.RoleAdmin)

	booking, err := env.bookings.Create(t.Context(), owner, bookingReq(1, 900, "new"))
	require.NoError(t, err)

	// A foreign booking is forbidden, not hidden.
	_, err = env.bookings.Get(t.Context(), other, booking.ID)
	assert.ErrorIs(t, err, errorx.ErrForbidden)

	_, err = env.bookings.Get(t.Context(), owner, booking.ID)
	assert.NoError(t, err)
	_, err = env.bookings.Get(t.Context(), admin, booking.ID)
	assert.NoError(t, err)

	_, err = env.bookings.Get(t.Context(), admin, booking.ID+1000)
	assert.ErrorIs(t, err, errorx.ErrNotFound)
}

func TestAddPaymentPartialThenFullAutoConfirms(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)
	year := time.Now().UTC().Year()

	booking, err := env.bookings.Create(t.Context(), agent, bookingReq(1, 1000, "pending_payment"))
	require.NoError(t, err)

	partial, err := env.bookings.AddPayment(t.Context(), agent, booking.ID, &dto.CreatePaymentRequest{
		Amount: 400, Currency: "EUR", Method: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("RCPT-%d-%06d", year, 1), partial.ReceiptNo)

	detail, err := env.bookings.Get(t.Context(), agent, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, cnst.StatusPendingPayment, detail.Booking.Status)
	assert.Equal(t, 400.0, detail.PaidAmount)
	assert.Equal(t, 600.0, detail.DueAmount)

	settle, err := env.bookings.AddPayment(t.Context(), agent, booking.ID, &dto.CreatePaymentRequest{
		Amount: 600, Currency: "EUR", Method: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("RCPT-%d-%06d", year, 2), settle.ReceiptNo)

	detail, err = env.bookings.Get(t.Context(), agent, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, cnst.StatusConfirmed, detail.Booking.Status)
	assert.Equal(t, 0.0, detail.DueAmount)
}

func TestAddPaymentLeavesManualStatusesAlone(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)

	booking, err := env.bookings.Create(t.Context(), agent, bookingReq(1, 300, "ticketed"))
	require.NoError(t, err)

	_, err = env.bookings.AddPayment(t.Context(), agent, booking.ID, &dto.CreatePaymentRequest{
		Amount: 300, Currency: "EUR", Method: "card",
	})
	require.NoError(t, err)

	detail, err := env.bookings.Get(t.Context(), agent, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, cnst.StatusTicketed, detail.Booking.Status)
	assert.Equal(t, 0.0, detail.DueAmount)
}

func TestArchivePaymentRestoresDue(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)

	booking, err := env.bookings.Create(t.Context(), agent, bookingReq(1, 500, "new"))
	require.NoError(t, err)
	payment, err := env.bookings.AddPayment(t.Context(), agent, booking.ID, &dto.CreatePaymentRequest{
		Amount: 500, Currency: "EUR", Method: "cash",
	})
	require.NoError(t, err)

	require.NoError(t, env.bookings.ArchivePayment(t.Context(), agent, payment.ID))

	detail, err := env.bookings.Get(t.Context(), agent, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, detail.PaidAmount)
	assert.Equal(t, 500.0, detail.DueAmount)
	// Archiving money does not roll the lifecycle back.
	assert.Equal(t, cnst.StatusConfirmed, detail.Booking.Status)
}

func TestBookingDetailReportsMissingDocs(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)

	booking, err := env.bookings.Create(t.Context(), agent, bookingReq(1, 100, "new"))
	require.NoError(t, err)

	detail, err := env.bookings.Get(t.Context(), agent, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"passport", "ticket"}, detail.MissingDocs)
	assert.Equal(t, 30.0, detail.Profit)
}

func TestUpdateBookingEditsTripAndClient(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)

	booking, err := env.bookings.Create(t.Context(), agent, bookingReq(1, 1200, "new"))
	require.NoError(t, err)

	req := &dto.UpdateBookingRequest{
		Client:     bookingReq(1, 0, "new").Client,
		TripFields: bookingReq(1, 1500, "in_progress").TripFields,
	}
	req.Destination = "Istanbul"
	req.Client.FirstName = "Artemisa"

	updated, err := env.bookings.Update(t.Context(), agent, booking.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Istanbul", updated.Destination)
	assert.Equal(t, 1500.0, updated.TotalPrice)
	assert.Equal(t, cnst.StatusInProgress, updated.Status)
	assert.Equal(t, booking.Reference, updated.Reference)

	client, err := env.store.GetClientByID(t.Context(), booking.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Artemisa", client.FirstName)
}

func TestArchiveBookingHidesItFromLists(t *testing.T) {
	env := newTestEnv(t)
	agent := env.seedUser(t, "Mira Leka", cnst.RoleAgent)

	booking, err := env.bookings.Create(t.Context(), agent, bookingReq(1, 100, "new"))
	require.NoError(t, err)
	require.NoError(t, env.bookings.Archive(t.Context(), agent, booking.ID))

	page, err := env.bookings.List(t.Context(), agent, &dto.BookingListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
	assert.Empty(t, page.Bookings)
}

func TestListBookingsScopeAndFilters(t *testing.T) {
	env := newTestEnv(t)
	mira := env.seedUser(t, "Mira Leka", cnst.RoleAgent)
	dion := env.seedUser(t, "Dion Prifti", cnst.RoleAgent)
	admin := env.seedUser(t, "Root Admin", cnst.RoleAdmin)

	rome := bookingReq(1, 100, "new")
	paris := bookingReq(2, 200, "confirmed")
	paris.Destination = "Paris"
	_, err := env.bookings.Create(t.Context(), mira, rome)
	require.NoError(t, err)
	_, err = env.bookings.Create(t.Context(), mira, paris)
	require.NoError(t, err)
	_, err = env.bookings.Create(t.Context(), dion, bookingReq(3, 300, "new"))
	require.NoError(t, err)

	page, err := env.bookings.List(t.Context(), mira, &dto.BookingListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	// Agents cannot widen their scope by asking for another agent.
	page, err = env.bookings.List(t.Context(), mira, &dto.BookingListQuery{AgentID: &dion.UserID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = env.bookings.List(t.Context(), admin, &dto.BookingListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)

	page, err = env.bookings.List(t.Context(), admin, &dto.BookingListQuery{Destination: "par"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = env.bookings.List(t.Context(), admin, &dto.BookingListQuery{Status: "confirmed"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	// Free-text search reaches into client fields.
	page, err = env.bookings.List(t.Context(), admin, &dto.BookingListQuery{Query: "hoxha3"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}
