package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_database "github.com/droppoint/lockerd/internal/db/mocks"
	"github.com/droppoint/lockerd/internal/repository"
	"github.com/droppoint/lockerd/internal/repository/postgresql"
)

func TestReservationRepo_CreateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		now := time.Now().UTC()
		testReservation := &repository.Reservation{
			ID:         uuid.New(),
			ParcelRef:  "trk-100",
			SlotID:     7,
			Status:     repository.ReservationActive,
			ReservedAt: now,
			ExpiresAt:  now.Add(15 * time.Minute),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		mockTx.EXPECT().Exec(
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(testReservation.ID),
			gomock.Eq(testReservation.ParcelRef),
			gomock.Eq(testReservation.SlotID),
			gomock.Eq(testReservation.Status),
			gomock.Eq(testReservation.ReservedAt),
			gomock.Eq(testReservation.ExpiresAt),
			gomock.Eq(testReservation.PickupAttempts),
			gomock.Eq(testReservation.CreatedAt),
			gomock.Eq(testReservation.UpdatedAt),
		).Return(pgconn.CommandTag("INSERT 0 1"), nil)

		err := repo.CreateTx(ctx, mockTx, testReservation)
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		expectedErr := errors.New("database error")
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, expectedErr)

		err := repo.CreateTx(ctx, mockTx, &repository.Reservation{ID: uuid.New()})
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestReservationRepo_GetActiveByCodeTx(t *testing.T) {
	ctx := context.Background()

	t.Run("reservation found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		code := "ABC234"
		testReservation := &repository.Reservation{
			ID:         uuid.New(),
			ParcelRef:  "trk-100",
			SlotID:     7,
			Status:     repository.ReservationActive,
			PickupCode: &code,
		}

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(code)).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*repository.Reservation) = *testReservation
				return nil
			})

		reservation, err := repo.GetActiveByCodeTx(ctx, mockTx, code)
		assert.NoError(t, err)
		assert.Equal(t, testReservation, reservation)
	})

	t.Run("no active reservation for code", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgx.ErrNoRows)

		reservation, err := repo.GetActiveByCodeTx(ctx, mockTx, "ZZZZZZ")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
		assert.Nil(t, reservation)
	})
}

func TestReservationRepo_CodeInUseTx(t *testing.T) {
	ctx := context.Background()

	t.Run("code taken", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("ABC234")).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*int) = 1
				return nil
			})

		inUse, err := repo.CodeInUseTx(ctx, mockTx, "ABC234")
		assert.NoError(t, err)
		assert.True(t, inUse)
	})

	t.Run("code free", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("XYZ789")).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*int) = 0
				return nil
			})

		inUse, err := repo.CodeInUseTx(ctx, mockTx, "XYZ789")
		assert.NoError(t, err)
		assert.False(t, inUse)
	})
}

func TestReservationRepo_MarkDeliveredTx(t *testing.T) {
	ctx := context.Background()

	t.Run("first delivery wins", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		id := uuid.New()
		now := time.Now().UTC()

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(id), gomock.Eq("ABC234"), gomock.Eq(now), gomock.Eq(now.Add(72*time.Hour))).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		ok, err := repo.MarkDeliveredTx(ctx, mockTx, id, "ABC234", now, now.Add(72*time.Hour))
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("second delivery is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		now := time.Now().UTC()
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		ok, err := repo.MarkDeliveredTx(ctx, mockTx, uuid.New(), "ABC234", now, now.Add(72*time.Hour))
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestReservationRepo_TerminateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("exactly one terminal transition wins", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		id := uuid.New()
		now := time.Now().UTC()

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(id), gomock.Eq(repository.ReservationCompleted), gomock.Eq(&now), gomock.Nil()).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		ok, err := repo.TerminateTx(ctx, mockTx, id, repository.ReservationCompleted, &now, nil)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("loser observes zero rows", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		ok, err := repo.TerminateTx(ctx, mockTx, uuid.New(), repository.ReservationExpired, nil, nil)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects non-terminal target", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		ok, err := repo.TerminateTx(ctx, mockTx, uuid.New(), repository.ReservationActive, nil, nil)
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestReservationRepo_DueForReclaim(t *testing.T) {
	ctx := context.Background()

	t.Run("returns due reservations", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		now := time.Now().UTC()
		testReservations := []*repository.Reservation{
			{ID: uuid.New(), ParcelRef: "trk-100", Status: repository.ReservationActive},
			{ID: uuid.New(), ParcelRef: "trk-101", Status: repository.ReservationActive},
		}

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(now), gomock.Eq(50)).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*[]*repository.Reservation) = testReservations
				return nil
			})

		reservations, err := repo.DueForReclaim(ctx, now, 50)
		assert.NoError(t, err)
		assert.Equal(t, testReservations, reservations)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(expectedErr)

		reservations, err := repo.DueForReclaim(ctx, time.Now().UTC(), 50)
		assert.ErrorIs(t, err, expectedErr)
		assert.Nil(t, reservations)
	})
}

func TestReservationRepo_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("reservation found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		testReservation := &repository.Reservation{
			ID:        uuid.New(),
			ParcelRef: "trk-100",
			Status:    repository.ReservationActive,
		}

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(testReservation.ID)).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*repository.Reservation) = *testReservation
				return nil
			})

		reservation, err := repo.GetByID(ctx, testReservation.ID)
		assert.NoError(t, err)
		assert.Equal(t, testReservation, reservation)
	})

	t.Run("reservation not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgx.ErrNoRows)

		reservation, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
		assert.Nil(t, reservation)
	})
}

func TestReservationRepo_IncrementAttemptsTx(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		id := uuid.New()
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(id)).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		err := repo.IncrementAttemptsTx(ctx, mockTx, id)
		assert.NoError(t, err)
	})

	t.Run("missing reservation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewReservationRepo(mockDB)

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.IncrementAttemptsTx(ctx, mockTx, uuid.New())
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}
