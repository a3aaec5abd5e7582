package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voyahq/tripdesk/internal/apiserver/database"
	"github.com/voyahq/tripdesk/internal/apiserver/scope"
	"github.com/voyahq/tripdesk/internal/common/cnst"
	"github.com/voyahq/tripdesk/internal/common/config"
	"github.com/voyahq/tripdesk/internal/common/dto"
)

type testEnv struct {
	store    database.Store
	bookings *BookingService
	clients  *ClientService
	users    *UserService
	reports  *ReportService
	activity *ActivityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := database.NewStore(&config.DatabaseConfig{
		Type:   "sqlite",
		DBName: filepath.Join(t.TempDir(), "tripdesk_test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := zap.NewNop()
	return &testEnv{
		store:    store,
		bookings: NewBookingService(store, logger),
		clients:  NewClientService(store, logger),
		users:    NewUserService(store, logger),
		reports:  NewReportService(store, logger),
		activity: NewActivityService(store, logger),
	}
}

func (e *testEnv) seedUser(t *testing.T, name string, role cnst.Role) scope.Principal {
	t.Helper()

	user := &database.User{
		FullName:     name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@agency.test",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, e.store.CreateUser(t.Context(), user))
	return scope.Principal{UserID: user.ID, Role: role}
}

// bookingReq builds a valid create request; n keeps client identities apart
// across calls.
func bookingReq(n int, total float64, status string) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		Client: dto.ClientFields{
			FirstName: "Arta",
			LastName:  fmt.Sprintf("Hoxha%d", n),
			Email:     fmt.Sprintf("arta%d@example.com", n),
			Phone:     fmt.Sprintf("+3556900%04d", n),
		},
		TripFields: dto.TripFields{
			BookingType:  "package",
			Destination:  "Rome",
			NumPax:       2,
			Adults:       2,
			Currency:     "EUR",
			TotalPrice:   total,
			InternalCost: total * 0.7,
			Status:       status,
		},
	}
}
