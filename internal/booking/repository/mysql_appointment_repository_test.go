package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	"github.com/allisson/booking/internal/testutil"
)

func TestMySQLAppointmentRepository_ListActiveOverlapping_ExpiredHoldDoesNotBlock(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	holdRepo := NewMySQLHoldRepository(db)
	repo := NewMySQLAppointmentRepository(db)
	ctx := context.Background()

	orgID, leadID := testutil.CreateTestOrgAndLead(t, db, "mysql", "mysql-appt-overlap")
	now := time.Now().UTC().Truncate(time.Microsecond)
	start := now.Add(48 * time.Hour)

	// Pending on a lapsed hold: must not block the slot.
	expiredHold := newTestHold(orgID, leadID, start, -time.Minute)
	require.NoError(t, holdRepo.Create(ctx, expiredHold))
	orphan := &bookingDomain.Appointment{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     orgID,
		LeadID:    leadID,
		HoldID:    expiredHold.ID,
		StartAt:   expiredHold.SlotStart,
		EndAt:     expiredHold.SlotEnd,
		Status:    bookingDomain.AppointmentStatusPendingHold,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, orphan))

	// Confirmed on a lapsed hold: always blocks.
	confirmedHold := newTestHold(orgID, leadID, start.Add(6*time.Hour), -time.Minute)
	require.NoError(t, holdRepo.Create(ctx, confirmedHold))
	confirmed := &bookingDomain.Appointment{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     orgID,
		LeadID:    leadID,
		HoldID:    confirmedHold.ID,
		StartAt:   confirmedHold.SlotStart,
		EndAt:     confirmedHold.SlotEnd,
		Status:    bookingDomain.AppointmentStatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, confirmed))

	appointments, err := repo.ListActiveOverlapping(ctx, orgID, start, start.Add(2*time.Hour), now)
	assert.NoError(t, err)
	assert.Len(t, appointments, 0)

	appointments, err = repo.ListActiveOverlapping(
		ctx, orgID, confirmed.StartAt, confirmed.EndAt, now,
	)
	assert.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, confirmed.ID, appointments[0].ID)
}

func TestMySQLAppointmentRepository_ListActiveIntervals_SkipsExpiredPending(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	holdRepo := NewMySQLHoldRepository(db)
	repo := NewMySQLAppointmentRepository(db)
	ctx := context.Background()

	orgID, leadID := testutil.CreateTestOrgAndLead(t, db, "mysql", "mysql-appt-intervals")
	now := time.Now().UTC().Truncate(time.Microsecond)
	start := now.Add(48 * time.Hour)

	liveHold := newTestHold(orgID, leadID, start, 10*time.Minute)
	require.NoError(t, holdRepo.Create(ctx, liveHold))
	live := &bookingDomain.Appointment{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     orgID,
		LeadID:    leadID,
		HoldID:    liveHold.ID,
		StartAt:   liveHold.SlotStart,
		EndAt:     liveHold.SlotEnd,
		Status:    bookingDomain.AppointmentStatusPendingPayment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, live))

	staleHold := newTestHold(orgID, leadID, start.Add(6*time.Hour), -time.Minute)
	require.NoError(t, holdRepo.Create(ctx, staleHold))
	stale := &bookingDomain.Appointment{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     orgID,
		LeadID:    leadID,
		HoldID:    staleHold.ID,
		StartAt:   staleHold.SlotStart,
		EndAt:     staleHold.SlotEnd,
		Status:    bookingDomain.AppointmentStatusPendingHold,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, stale))

	intervals, err := repo.ListActiveIntervals(ctx, orgID, now)
	assert.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.WithinDuration(t, live.StartAt, intervals[0].Start, time.Millisecond)
}
