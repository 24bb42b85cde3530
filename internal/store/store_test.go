package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"github.com/j10czar/UF-CrowdView/internal/models"
	"github.com/j10czar/UF-CrowdView/internal/store"
)

func setupTestDB(t *testing.T) (*store.Store, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, store.Migrate(context.Background(), bunDB))

	t.Cleanup(func() { bunDB.Close() })
	return store.New(bunDB), bunDB
}

func testUser(email, username string) *models.User {
	return &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$10$notarealhash",
		CreatedAt:    time.Now().UTC(),
	}
}

func testLocation(t *testing.T, name string, curve []int) *models.Location {
	location := &models.Location{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if curve == nil {
		curve = models.EmptyCurve()
	}
	require.NoError(t, location.SetCurve(curve))
	return location
}

func TestUserCRUDAndUniqueness(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	user := testUser("albert@ufl.edu", "albert")
	require.NoError(t, db.CreateUser(ctx, user))

	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "albert@ufl.edu", got.Email)
	assert.False(t, got.IsAdmin)
	assert.False(t, got.IsBanned)

	got, err = db.GetUserByEmail(ctx, "albert@ufl.edu")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Duplicate email.
	dup := testUser("albert@ufl.edu", "albert2")
	assert.ErrorIs(t, db.CreateUser(ctx, dup), store.ErrConflict)

	// Duplicate username.
	dup = testUser("albert2@ufl.edu", "albert")
	assert.ErrorIs(t, db.CreateUser(ctx, dup), store.ErrConflict)

	// Malformed / unknown ids are NotFound, not a crash.
	_, err = db.GetUserByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateUserBanFlag(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	user := testUser("gator@ufl.edu", "gator")
	require.NoError(t, db.CreateUser(ctx, user))

	user.IsBanned = true
	require.NoError(t, db.UpdateUser(ctx, user))

	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBanned)

	missing := testUser("ghost@ufl.edu", "ghost")
	assert.ErrorIs(t, db.UpdateUser(ctx, missing), store.ErrNotFound)
}

func TestLocationCRUDAndOrdering(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateLocation(ctx, testLocation(t, "Reitz Union", nil)))
	require.NoError(t, db.CreateLocation(ctx, testLocation(t, "Library West", nil)))
	require.NoError(t, db.CreateLocation(ctx, testLocation(t, "Marston Library", nil)))

	locations, err := db.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 3)
	assert.Equal(t, "Library West", locations[0].Name)
	assert.Equal(t, "Marston Library", locations[1].Name)
	assert.Equal(t, "Reitz Union", locations[2].Name)

	// Name uniqueness.
	err = db.CreateLocation(ctx, testLocation(t, "Library West", nil))
	assert.ErrorIs(t, err, store.ErrConflict)

	got, err := db.GetLocationByName(ctx, "Reitz Union")
	require.NoError(t, err)
	curve, err := got.Curve()
	require.NoError(t, err)
	assert.Len(t, curve, models.HoursPerDay)
	assert.Equal(t, models.NoData, curve[0])

	require.NoError(t, db.DeleteLocation(ctx, got.ID))
	_, err = db.GetLocationByID(ctx, got.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, db.DeleteLocation(ctx, got.ID), store.ErrNotFound)
}

func TestUpdateLocationPersistsCurve(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	location := testLocation(t, "Turlington Plaza", nil)
	require.NoError(t, db.CreateLocation(ctx, location))

	curve, err := location.Curve()
	require.NoError(t, err)
	curve[10] = 9
	require.NoError(t, location.SetCurve(curve))
	require.NoError(t, db.UpdateLocation(ctx, location))

	got, err := db.GetLocationByID(ctx, location.ID)
	require.NoError(t, err)
	gotCurve, err := got.Curve()
	require.NoError(t, err)
	assert.Equal(t, 9, gotCurve[10])
	assert.Equal(t, models.NoData, gotCurve[11])
}

func TestReportsReverseChronologicalAndRecentWindow(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	user := testUser("reporter@ufl.edu", "reporter")
	require.NoError(t, db.CreateUser(ctx, user))
	location := testLocation(t, "Southwest Rec", nil)
	require.NoError(t, db.CreateLocation(ctx, location))

	now := time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)
	for i, age := range []time.Duration{2 * time.Hour, 45 * time.Minute, 5 * time.Minute} {
		report := &models.Report{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			LocationID: location.ID,
			Score:      i + 3,
			PostedAt:   now.Add(-age),
		}
		require.NoError(t, db.CreateReport(ctx, report))
	}

	reports, err := db.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.True(t, reports[0].PostedAt.After(reports[1].PostedAt))
	assert.True(t, reports[1].PostedAt.After(reports[2].PostedAt))

	recent, err := db.ListRecentReportsForLocation(ctx, location.ID, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, recent, 2, "only reports inside the window count")
}

func TestDeleteLocationLeavesOrphanReports(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	user := testUser("orphan@ufl.edu", "orphan")
	require.NoError(t, db.CreateUser(ctx, user))
	location := testLocation(t, "Norman Hall", nil)
	require.NoError(t, db.CreateLocation(ctx, location))

	report := &models.Report{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		LocationID: location.ID,
		Score:      5,
		PostedAt:   time.Now().UTC(),
	}
	require.NoError(t, db.CreateReport(ctx, report))
	require.NoError(t, db.DeleteLocation(ctx, location.ID))

	// The report survives and list endpoints keep working.
	reports, err := db.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, location.ID, reports[0].LocationID)
}

func TestDeleteReport(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	user := testUser("mod@ufl.edu", "mod")
	require.NoError(t, db.CreateUser(ctx, user))
	location := testLocation(t, "Broward Dining", nil)
	require.NoError(t, db.CreateLocation(ctx, location))

	report := &models.Report{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		LocationID: location.ID,
		Score:      7,
		PostedAt:   time.Now().UTC(),
	}
	require.NoError(t, db.CreateReport(ctx, report))

	require.NoError(t, db.DeleteReport(ctx, report.ID))
	_, err := db.GetReportByID(ctx, report.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, db.DeleteReport(ctx, report.ID), store.ErrNotFound)
}

func TestSeedIsIdempotent(t *testing.T) {
	db, bunDB := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx, bunDB))
	locations, err := db.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 8)
	assert.Equal(t, "Broward Dining", locations[0].Name)

	// Second run must not duplicate.
	require.NoError(t, store.Seed(ctx, bunDB))
	locations, err = db.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, locations, 8)

	west, err := db.GetLocationByName(ctx, "Library West")
	require.NoError(t, err)
	curve, err := west.Curve()
	require.NoError(t, err)
	assert.Equal(t, 3, curve[0])
	assert.Equal(t, 8, curve[10])
}
