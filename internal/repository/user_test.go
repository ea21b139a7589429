package repository

import (
	"testing"

	"github.com/lotto-lab/backend/internal/entity"
	"github.com/lotto-lab/backend/pkg/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_userRepository_DebitWallet(t *testing.T) {
	testCases := []struct {
		name       string
		amount     decimal.Decimal
		wantErr    error
		wantWallet decimal.Decimal
	}{
		{
			name:       "enough balance",
			amount:     decimal.NewFromInt(80),
			wantWallet: decimal.NewFromInt(20),
		},
		{
			name:       "exact balance",
			amount:     decimal.NewFromInt(100),
			wantWallet: decimal.Zero,
		},
		{
			name:       "not enough balance",
			amount:     decimal.NewFromInt(101),
			wantErr:    gorm.ErrRecordNotFound,
			wantWallet: decimal.NewFromInt(100),
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.CreateFixtureDb()
			repo := NewUserRepository()

			err := repo.DebitWallet(ctx, testutil.Member1.ID, tt.amount)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			user, err := repo.GetByID(ctx, testutil.Member1.ID)
			require.NoError(t, err)
			require.True(t, tt.wantWallet.Equal(user.Wallet), "got %s", user.Wallet)
		})
	}
}

func Test_userRepository_GetByIdentity(t *testing.T) {
	ctx := testutil.CreateFixtureDb()
	repo := NewUserRepository()

	users, err := repo.GetByIdentity(ctx, "alice", "nobody@lotto.local", testutil.Member2.Phone)
	require.NoError(t, err)
	require.Len(t, users, 2)

	users, err = repo.GetByIdentity(ctx, "nobody", "ALICE@lotto.local", "0911111111")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, testutil.Member1.ID, users[0].ID)

	users, err = repo.GetByIdentity(ctx, "carol", "carol@lotto.local", "0911111111")
	require.NoError(t, err)
	require.Empty(t, users)
}

func Test_userRepository_CountAndDeleteByRole(t *testing.T) {
	ctx := testutil.CreateFixtureDb()
	repo := NewUserRepository()

	n, err := repo.CountByRole(ctx, entity.MemberRole)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	require.NoError(t, repo.DeleteByRole(ctx, entity.MemberRole))

	n, err = repo.CountByRole(ctx, entity.MemberRole)
	require.NoError(t, err)
	require.Zero(t, n)

	admin, err := repo.GetByUsername(ctx, testutil.Admin.Username)
	require.NoError(t, err)
	require.Equal(t, entity.AdminRole, admin.Role)
}

func Test_userRepository_CreateDefaultRole(t *testing.T) {
	ctx := testutil.MockContext()
	repo := NewUserRepository()

	user := &entity.User{
		Username:     "carol",
		Email:        "carol@lotto.local",
		Phone:        "0911111111",
		PasswordHash: "hash",
		Wallet:       decimal.NewFromInt(10),
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	got, err := repo.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	require.Equal(t, entity.MemberRole, got.Role)

	dup := *user
	dup.ID = 0
	err = repo.Create(ctx, &dup)
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))

	require.False(t, IsUniqueViolation(nil))
	require.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
}
