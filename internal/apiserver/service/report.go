package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/voyahq/tripdesk/internal/apiserver/database"
	"github.com/voyahq/tripdesk/internal/apiserver/scope"
	"github.com/voyahq/tripdesk/internal/common/cnst"
	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// ReportService computes financial figures over scoped date windows. All
// aggregation happens in SQL; the derived arithmetic is pure and lives in
// BuildKPIs.
type ReportService struct {
	store  database.Store
	logger *zap.Logger
}

func NewReportService(store database.Store, logger *zap.Logger) *ReportService {
	return &ReportService{
		store:  store,
		logger: logger.Named("service.report"),
	}
}

// OutstandingRow is one booking with an unpaid balance.
type OutstandingRow struct {
	Booking *database.Booking `json:"booking"`
	Paid    float64           `json:"paid"`
	Due     float64           `json:"due"`
	Revenue float64           `json:"revenue"`
}

// OutstandingReport is the outstanding-balance view with running totals.
type OutstandingReport struct {
	Rows         []*OutstandingRow `json:"rows"`
	TotalDue     float64           `json:"total_due"`
	TotalPaid    float64           `json:"total_paid"`
	TotalRevenue float64           `json:"total_revenue"`
}

// DashboardSummary is the landing-page snapshot for the principal's scope.
type DashboardSummary struct {
	TotalBookings   int64                       `json:"total_bookings"`
	ActiveBookings  int64                       `json:"active_bookings"`
	TotalClients    int64                       `json:"total_clients"`
	ArchivedClients int64                       `json:"archived_clients"`
	TotalPayments   int64                       `json:"total_payments"`
	Collected       float64                     `json:"collected"`
	Revenue         float64                     `json:"revenue"`
	Outstanding     float64                     `json:"outstanding"`
	PendingPayment  int64                       `json:"pending_payment"`
	RecentBookings  []*database.Booking         `json:"recent_bookings"`
	TopDestinations []database.DestinationCount `json:"top_destinations"`
	RecentActivity  []*database.ActivityLog     `json:"recent_activity"`
}

// BuildKPIs derives the report figures from raw aggregates. Division guards:
// avg_booking is 0 with no bookings, margin is 0 with no revenue.
func BuildKPIs(totals *database.BookingTotals, paid float64) dto.KPIs {
	kpis := dto.KPIs{
		TotalBookings: totals.Count,
		Revenue:       totals.Revenue,
		Paid:          paid,
		Due:           totals.Revenue - paid,
		InternalCost:  totals.InternalCost,
		Profit:        totals.Revenue - totals.InternalCost,
	}
	if totals.Count > 0 {
		kpis.AvgBooking = totals.Revenue / float64(totals.Count)
	}
	if totals.Revenue > 0 {
		kpis.Margin = kpis.Profit / totals.Revenue * 100
	}
	return kpis
}

// KPIs computes the report figures for the principal's scope and window.
// Agents are always locked to their own figures; admins may select one agent
// or all.
func (s *ReportService) KPIs(ctx context.Context, p scope.Principal, q *dto.ReportQuery) (*dto.KPIs, error) {
	filter := database.ReportFilter{
		AgentID: p.AgentFilter(q.AgentID),
		From:    dto.ParseDate(q.DateFrom),
		To:      dto.ParseDate(q.DateTo),
	}

	totals, err := s.store.AggregateBookings(ctx, filter)
	if err != nil {
		return nil, err
	}
	paid, _, err := s.store.SumPayments(ctx, filter)
	if err != nil {
		return nil, err
	}

	kpis := BuildKPIs(totals, paid)
	return &kpis, nil
}

// AgentsOverview lists active agents. Admin only.
func (s *ReportService) AgentsOverview(ctx context.Context, p scope.Principal) ([]*database.User, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.store.ListActiveAgents(ctx)
}

// AgentReport computes KPIs for one specific agent. Admin only; a target
// that is not an agent is a not-found.
func (s *ReportService) AgentReport(ctx context.Context, p scope.Principal, agentID uint, q *dto.ReportQuery) (*database.User, *dto.KPIs, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, nil, err
	}

	agent, err := s.store.GetUserByID(ctx, agentID)
	if err != nil {
		return nil, nil, notFoundOr(err)
	}
	if agent.Role != cnst.RoleAgent {
		return nil, nil, errorx.ErrNotFound
	}

	scoped := &dto.ReportQuery{AgentID: &agentID, DateFrom: q.DateFrom, DateTo: q.DateTo}
	kpis, err := s.KPIs(ctx, p, scoped)
	if err != nil {
		return nil, nil, err
	}
	return agent, kpis, nil
}

// Outstanding lists bookings with an unpaid balance, with running totals
// across the filtered set.
func (s *ReportService) Outstanding(ctx context.Context, p scope.Principal, q *dto.OutstandingQuery) (*OutstandingReport, error) {
	filter := database.OutstandingFilter{
		ReportFilter: database.ReportFilter{
			AgentID: p.AgentFilter(q.AgentID),
			From:    dto.ParseDate(q.DateFrom),
			To:      dto.ParseDate(q.DateTo),
		},
		Destination: q.Destination,
		Status:      cnst.BookingStatus(q.Status),
	}

	rows, err := s.store.OutstandingBookings(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &OutstandingReport{Rows: make([]*OutstandingRow, 0, len(rows))}
	for _, row := range rows {
		due := row.Booking.TotalPrice - row.PaidAmount
		if due < 0 {
			due = 0
		}
		booking := row.Booking
		report.Rows = append(report.Rows, &OutstandingRow{
			Booking: &booking,
			Paid:    row.PaidAmount,
			Due:     due,
			Revenue: booking.TotalPrice,
		})
		report.TotalDue += due
		report.TotalPaid += row.PaidAmount
		report.TotalRevenue += booking.TotalPrice
	}
	return report, nil
}

// Dashboard assembles the landing-page snapshot for the principal's scope.
func (s *ReportService) Dashboard(ctx context.Context, p scope.Principal) (*DashboardSummary, error) {
	agentID := p.AgentFilter(nil)
	filter := database.ReportFilter{AgentID: agentID}

	totals, err := s.store.AggregateBookings(ctx, filter)
	if err != nil {
		return nil, err
	}
	collected, paymentCount, err := s.store.SumPayments(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalClients, err := s.store.CountClients(ctx, agentID)
	if err != nil {
		return nil, err
	}
	archivedClients, err := s.store.CountArchivedClients(ctx, agentID)
	if err != nil {
		return nil, err
	}
	completed, err := s.store.CountBookingsByStatus(ctx, agentID, cnst.StatusCompleted)
	if err != nil {
		return nil, err
	}
	pendingPayment, err := s.store.CountBookingsByStatus(ctx, agentID, cnst.StatusPendingPayment)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.store.ListBookings(ctx, database.BookingFilter{AgentID: agentID, Page: 1, PerPage: 10})
	if err != nil {
		return nil, err
	}
	topDest, err := s.store.TopDestinations(ctx, agentID, 6)
	if err != nil {
		return nil, err
	}
	activity, err := s.store.ListRecentActivity(ctx, database.ActivityFilter{UserID: agentID, Limit: 8})
	if err != nil {
		return nil, err
	}

	outstanding := totals.Revenue - collected
	if outstanding < 0 {
		outstanding = 0
	}

	return &DashboardSummary{
		TotalBookings:   totals.Count,
		ActiveBookings:  totals.Count - completed,
		TotalClients:    totalClients,
		ArchivedClients: archivedClients,
		TotalPayments:   paymentCount,
		Collected:       collected,
		Revenue:         totals.Revenue,
		Outstanding:     outstanding,
		PendingPayment:  pendingPayment,
		RecentBookings:  recent,
		TopDestinations: topDest,
		RecentActivity:  activity,
	}, nil
}
