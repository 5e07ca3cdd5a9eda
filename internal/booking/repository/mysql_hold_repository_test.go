package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/booking/internal/errors"
	"github.com/allisson/booking/internal/testutil"
)

func TestMySQLHoldRepository_CreateAndGetByID(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLHoldRepository(db)
	ctx := context.Background()

	orgID, leadID := testutil.CreateTestOrgAndLead(t, db, "mysql", "mysql-hold-create")
	start := time.Now().UTC().Truncate(time.Microsecond).Add(48 * time.Hour)
	hold := newTestHold(orgID, leadID, start, 10*time.Minute)

	err := repo.Create(ctx, hold)
	assert.NoError(t, err)

	got, err := repo.GetByID(ctx, hold.ID)
	assert.NoError(t, err)
	assert.Equal(t, hold.ID, got.ID)
	assert.Equal(t, orgID, got.OrgID)
	assert.Equal(t, leadID, got.LeadID)
	assert.WithinDuration(t, hold.SlotStart, got.SlotStart, time.Millisecond)
}

func TestMySQLHoldRepository_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLHoldRepository(db)

	got, err := repo.GetByID(context.Background(), uuid.Must(uuid.NewV7()))
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMySQLHoldRepository_ListActiveOverlapping(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLHoldRepository(db)
	ctx := context.Background()

	orgID, leadID := testutil.CreateTestOrgAndLead(t, db, "mysql", "mysql-hold-overlap")
	now := time.Now().UTC().Truncate(time.Microsecond)
	start := now.Add(48 * time.Hour)

	active := newTestHold(orgID, leadID, start, 10*time.Minute)
	require.NoError(t, repo.Create(ctx, active))

	expired := newTestHold(orgID, leadID, start, -time.Minute)
	require.NoError(t, repo.Create(ctx, expired))

	holds, err := repo.ListActiveOverlapping(ctx, orgID, start, start.Add(2*time.Hour), now)
	assert.NoError(t, err)
	assert.Len(t, holds, 1)
	assert.Equal(t, active.ID, holds[0].ID)
}

func TestMySQLHoldRepository_ListActiveIntervals(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLHoldRepository(db)
	ctx := context.Background()

	orgID, leadID := testutil.CreateTestOrgAndLead(t, db, "mysql", "mysql-hold-intervals")
	now := time.Now().UTC().Truncate(time.Microsecond)

	second := newTestHold(orgID, leadID, now.Add(72*time.Hour), 10*time.Minute)
	first := newTestHold(orgID, leadID, now.Add(48*time.Hour), 10*time.Minute)

	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))

	intervals, err := repo.ListActiveIntervals(ctx, orgID, now)
	assert.NoError(t, err)
	require.Len(t, intervals, 2)
	assert.WithinDuration(t, first.SlotStart, intervals[0].Start, time.Millisecond)
	assert.WithinDuration(t, second.SlotStart, intervals[1].Start, time.Millisecond)
}
