package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/droppoint/lockerd/internal/config"
	mock_database "github.com/droppoint/lockerd/internal/db/mocks"
	"github.com/droppoint/lockerd/internal/repository"
	"github.com/droppoint/lockerd/internal/repository/postgresql"
)

func TestSlotRepo_GetByIDTx(t *testing.T) {
	ctx := context.Background()

	t.Run("slot found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		now := time.Now().UTC()
		testSlot := &repository.Slot{
			ID:        7,
			LockerID:  1,
			Label:     "A-07",
			SizeClass: repository.SizeMedium,
			Status:    repository.SlotAvailable,
			CreatedAt: now,
			UpdatedAt: now,
		}

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(7))).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*repository.Slot) = *testSlot
				return nil
			})

		slot, err := repo.GetByIDTx(ctx, mockTx, 7)
		assert.NoError(t, err)
		assert.Equal(t, testSlot, slot)
	})

	t.Run("slot not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgx.ErrNoRows)

		slot, err := repo.GetByIDTx(ctx, mockTx, 404)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
		assert.Nil(t, slot)
	})
}

func TestSlotRepo_AvailableCandidatesTx(t *testing.T) {
	ctx := context.Background()

	t.Run("returns candidates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		testSlots := []*repository.Slot{
			{ID: 1, Label: "A-01", SizeClass: repository.SizeSmall, Status: repository.SlotAvailable},
			{ID: 2, Label: "A-02", SizeClass: repository.SizeSmall, Status: repository.SlotAvailable},
		}

		mockTx.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(repository.SizeSmall), gomock.Eq("")).
			DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
				// The listing must not lock candidate rows: a locking scan
				// would hide every free slot from concurrent allocators and
				// turn real capacity into a no-capacity answer.
				assert.NotContains(t, query, "FOR UPDATE")
				*dest.(*[]*repository.Slot) = testSlots
				return nil
			})

		slots, err := repo.AvailableCandidatesTx(ctx, mockTx, repository.SizeSmall, "", config.TieBreakLeastOccupied)
		assert.NoError(t, err)
		assert.Equal(t, testSlots, slots)
	})

	t.Run("lowest id ordering hits a different query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		mockTx.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(repository.SizeLarge), gomock.Eq("downtown")).
			DoAndReturn(func(_ context.Context, _ interface{}, query string, _ ...interface{}) error {
				assert.NotContains(t, query, "COUNT(*)")
				return nil
			})

		_, err := repo.AvailableCandidatesTx(ctx, mockTx, repository.SizeLarge, "downtown", config.TieBreakLowestID)
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		expectedErr := errors.New("database error")
		mockTx.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(expectedErr)

		slots, err := repo.AvailableCandidatesTx(ctx, mockTx, repository.SizeSmall, "", config.TieBreakLeastOccupied)
		assert.ErrorIs(t, err, expectedErr)
		assert.Nil(t, slots)
	})
}

func TestSlotRepo_ClaimTx(t *testing.T) {
	ctx := context.Background()

	t.Run("claim wins", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(7)), gomock.Eq("trk-100")).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		claimed, err := repo.ClaimTx(ctx, mockTx, 7, "trk-100")
		assert.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("claim loses to a concurrent holder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(7)), gomock.Eq("trk-100")).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		claimed, err := repo.ClaimTx(ctx, mockTx, 7, "trk-100")
		assert.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		expectedErr := errors.New("database error")
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, expectedErr)

		claimed, err := repo.ClaimTx(ctx, mockTx, 7, "trk-100")
		assert.Equal(t, expectedErr, err)
		assert.False(t, claimed)
	})
}

func TestSlotRepo_ReleaseTx(t *testing.T) {
	ctx := context.Background()

	t.Run("release from reserved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(7)), gomock.Eq(repository.SlotReserved)).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		ok, err := repo.ReleaseTx(ctx, mockTx, 7, repository.SlotReserved)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("state mismatch reports no rows", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(7)), gomock.Eq(repository.SlotOccupied)).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		ok, err := repo.ReleaseTx(ctx, mockTx, 7, repository.SlotOccupied)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSlotRepo_OccupyTx(t *testing.T) {
	ctx := context.Background()

	t.Run("occupy reserved slot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(int64(9))).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		ok, err := repo.OccupyTx(ctx, mockTx, 9)
		assert.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestSlotRepo_InfoTx(t *testing.T) {
	ctx := context.Background()

	t.Run("joins locker metadata", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		testInfo := &repository.SlotInfo{
			SlotID:      7,
			SlotLabel:   "A-07",
			LockerID:    1,
			LockerLabel: "L-01",
			Location:    "downtown",
		}

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(7))).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*repository.SlotInfo) = *testInfo
				return nil
			})

		info, err := repo.InfoTx(ctx, mockTx, 7)
		assert.NoError(t, err)
		assert.Equal(t, testInfo, info)
	})

	t.Run("slot not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewSlotRepo(mockDB)

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgx.ErrNoRows)

		info, err := repo.InfoTx(ctx, mockTx, 404)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
		assert.Nil(t, info)
	})
}
