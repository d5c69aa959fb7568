package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fbay/internal/auctionerrors"
	"fbay/internal/models"
)

// setupTestDB prepares a private in-memory SQLite database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open("sqlite", "file:"+uuid.New().String()+"?mode=memory&cache=shared")
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, Migrate(db), "failed to migrate tables")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo *GORMUserRepository, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Password: "hashed_password",
		DOB:      time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createItem(t *testing.T, repo *GORMItemRepository, owner *models.User, title string, end time.Time) *models.Item {
	t.Helper()
	item := &models.Item{
		OwnerID:       owner.ID,
		Title:         title,
		Description:   "A " + title + " in good condition",
		StartingPrice: decimal.RequireFromString("10.00"),
		EndDate:       end,
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

var base = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func TestGORMUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		repo := NewGORMUserRepository(setupTestDB(t))
		user := createUser(t, repo, "alice@example.com")
		assert.NotEmpty(t, user.ID)

		byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		byID, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", byID.Email)
		assert.Equal(t, "1990-05-17", byID.DOB.Format("2006-01-02"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := NewGORMUserRepository(setupTestDB(t))
		createUser(t, repo, "dup@example.com")

		err := repo.Create(ctx, &models.User{Email: "dup@example.com", Password: "x", DOB: base})
		assert.ErrorIs(t, err, auctionerrors.ErrEmailTaken)
	})

	t.Run("not found", func(t *testing.T) {
		repo := NewGORMUserRepository(setupTestDB(t))
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, auctionerrors.ErrUserNotFound)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, auctionerrors.ErrUserNotFound)
	})

	t.Run("update profile", func(t *testing.T) {
		repo := NewGORMUserRepository(setupTestDB(t))
		user := createUser(t, repo, "bob@example.com")
		avatar := "/media/bob.png"
		user.Email = "robert@example.com"
		user.AvatarPath = &avatar

		require.NoError(t, repo.Update(ctx, user))
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "robert@example.com", got.Email)
		require.NotNil(t, got.AvatarPath)
		assert.Equal(t, avatar, *got.AvatarPath)

		err = repo.Update(ctx, &models.User{ID: "missing", Email: "m@example.com"})
		assert.ErrorIs(t, err, auctionerrors.ErrUserNotFound)
	})
}

func TestGORMItemRepository_CreateGetList(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewGORMUserRepository(db)
	repo := NewGORMItemRepository(db)
	owner := createUser(t, users, "owner@example.com")

	bike := createItem(t, repo, owner, "Red Bicycle", base.Add(time.Hour))
	createItem(t, repo, owner, "Lamp", base.Add(time.Hour))

	got, err := repo.GetByID(ctx, bike.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", got.Owner.Email)
	assert.Nil(t, got.BidUser)
	assert.False(t, got.BidPrice.Valid)
	assert.False(t, got.MailSent)
	assert.True(t, decimal.RequireFromString("10").Equal(got.StartingPrice))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := repo.List(ctx, "bICYcle")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, bike.ID, found[0].ID)

	byDesc, err := repo.List(ctx, "good condition")
	require.NoError(t, err)
	assert.Len(t, byDesc, 2)

	none, err := repo.List(ctx, "100%")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, auctionerrors.ErrItemNotFound)
}

func TestGORMItemRepository_UpdateDetails(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGORMItemRepository(db)
	owner := createUser(t, NewGORMUserRepository(db), "owner@example.com")
	item := createItem(t, repo, owner, "Lamp", base.Add(time.Hour))

	item.Title = "Desk Lamp"
	item.EndDate = base.Add(48 * time.Hour)
	item.StartingPrice = decimal.RequireFromString("99.00")
	require.NoError(t, repo.UpdateDetails(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", got.Title)
	assert.True(t, base.Add(48*time.Hour).Equal(got.EndDate))
	assert.True(t, decimal.RequireFromString("10.00").Equal(got.StartingPrice), "starting price is not an editable column")

	err = repo.UpdateDetails(ctx, &models.Item{ID: "missing"})
	assert.ErrorIs(t, err, auctionerrors.ErrItemNotFound)
}

func TestGORMItemRepository_ApplyBid(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewGORMUserRepository(db)
	repo := NewGORMItemRepository(db)
	owner := createUser(t, users, "owner@example.com")
	bidder := createUser(t, users, "bidder@example.com")
	rival := createUser(t, users, "rival@example.com")
	item := createItem(t, repo, owner, "Guitar", base.Add(time.Hour))

	first := BidUpdate{ItemID: item.ID, BidderID: bidder.ID, Price: decimal.RequireFromString("12.00"), Now: base}
	ok, err := repo.ApplyBid(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)

	// A writer that still believes there is no bid loses the race.
	stale := BidUpdate{ItemID: item.ID, BidderID: rival.ID, Price: decimal.RequireFromString("13.00"), Now: base}
	ok, err = repo.ApplyBid(ctx, stale)
	require.NoError(t, err)
	assert.False(t, ok)

	fresh := stale
	fresh.Previous = decimal.NewNullDecimal(decimal.RequireFromString("12.00"))
	ok, err = repo.ApplyBid(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, got.BidPrice.Valid)
	assert.Equal(t, "13.00", got.BidPrice.Decimal.StringFixed(2))
	require.NotNil(t, got.BidUser)
	assert.Equal(t, rival.ID, got.BidUser.ID)

	tests := []struct {
		name   string
		update BidUpdate
	}{
		{"owner", BidUpdate{ItemID: item.ID, BidderID: owner.ID, Price: decimal.RequireFromString("20"), Previous: fresh.Previous, Now: base}},
		{"ended", BidUpdate{ItemID: item.ID, BidderID: bidder.ID, Price: decimal.RequireFromString("20"), Previous: decimal.NewNullDecimal(decimal.RequireFromString("13")), Now: base.Add(time.Hour)}},
		{"below starting price", BidUpdate{ItemID: createItem(t, repo, owner, "Drum", base.Add(time.Hour)).ID, BidderID: bidder.ID, Price: decimal.RequireFromString("9.99"), Now: base}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := repo.ApplyBid(ctx, tt.update)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestGORMItemRepository_SweepQueries(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGORMItemRepository(db)
	owner := createUser(t, NewGORMUserRepository(db), "owner@example.com")

	later := createItem(t, repo, owner, "Ended later", base.Add(-time.Minute))
	earlier := createItem(t, repo, owner, "Ended earlier", base.Add(-time.Hour))
	createItem(t, repo, owner, "Still open", base.Add(time.Hour))
	atNow := createItem(t, repo, owner, "Ends now", base)

	ended, err := repo.FindEndedUnnotified(ctx, base)
	require.NoError(t, err)
	require.Len(t, ended, 3)
	assert.Equal(t, []string{earlier.ID, later.ID, atNow.ID}, []string{ended[0].ID, ended[1].ID, ended[2].ID})
	assert.Equal(t, "owner@example.com", ended[0].Owner.Email)

	ok, err := repo.MarkMailSent(ctx, earlier.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkMailSent(ctx, earlier.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second completion must not match")

	ended, err = repo.FindEndedUnnotified(ctx, base)
	require.NoError(t, err)
	assert.Len(t, ended, 2)
}

func TestGORMQueryRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewGORMUserRepository(db)
	items := NewGORMItemRepository(db)
	repo := NewGORMQueryRepository(db)

	owner := createUser(t, users, "owner@example.com")
	asker := createUser(t, users, "asker@example.com")
	item := createItem(t, items, owner, "Camera", base.Add(time.Hour))
	other := createItem(t, items, owner, "Tripod", base.Add(time.Hour))

	query := &models.ItemQuery{ItemID: item.ID, AskedByID: asker.ID, Question: "Does it include a lens?"}
	require.NoError(t, repo.Create(ctx, query))
	assert.NotEmpty(t, query.ID)

	got, err := repo.GetByID(ctx, item.ID, query.ID)
	require.NoError(t, err)
	assert.Equal(t, "asker@example.com", got.AskedBy.Email)
	assert.Nil(t, got.Answer)

	_, err = repo.GetByID(ctx, other.ID, query.ID)
	assert.ErrorIs(t, err, auctionerrors.ErrQueryNotFound)

	require.NoError(t, repo.UpdateQuestion(ctx, query.ID, "Does it include a 50mm lens?"))
	require.NoError(t, repo.SetAnswer(ctx, query.ID, "Yes"))

	list, err := repo.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Does it include a 50mm lens?", list[0].Question)
	require.NotNil(t, list[0].Answer)
	assert.Equal(t, "Yes", *list[0].Answer)

	empty, err := repo.ListByItem(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.ErrorIs(t, repo.SetAnswer(ctx, "missing", "x"), auctionerrors.ErrQueryNotFound)
}
