package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
)

func TestNormalizeAmount(t *testing.T) {
	ceiling := decimal.NewFromInt(1000)

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "Rounds", in: "12.345", want: "12.35"},
		{name: "Whole", in: "50", want: "50.00"},
		{name: "AtCeiling", in: "1000", want: "1000.00"},
		{name: "Zero", in: "0", wantErr: ledger.ErrNonPositiveAmount},
		{name: "RoundsToZero", in: "0.004", wantErr: ledger.ErrNonPositiveAmount},
		{name: "Negative", in: "-5", wantErr: ledger.ErrNonPositiveAmount},
		{name: "OverCeiling", in: "1000.01", wantErr: ledger.ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.NormalizeAmount(decimal.RequireFromString(tt.in), ceiling)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestValidateDescription(t *testing.T) {
	got, err := ledger.ValidateDescription("  coffee ")
	require.NoError(t, err)
	assert.Equal(t, "coffee", got)

	_, err = ledger.ValidateDescription("   ")
	assert.ErrorIs(t, err, ledger.ErrEmptyDescription)

	long := make([]rune, ledger.MaxDescriptionLength+1)
	for i := range long {
		long[i] = 'é'
	}

	_, err = ledger.ValidateDescription(string(long))
	assert.ErrorIs(t, err, ledger.ErrDescriptionLength)
}

func TestValidateDate(t *testing.T) {
	today := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	assert.NoError(t, ledger.ValidateDate(today, today))
	assert.NoError(t, ledger.ValidateDate(today.AddDate(0, 0, -1), today))
	assert.ErrorIs(t, ledger.ValidateDate(today.AddDate(0, 0, 1), today), ledger.ErrFutureDate)
}

func TestParseKind(t *testing.T) {
	k, err := ledger.ParseKind("income")
	require.NoError(t, err)
	assert.Equal(t, ledger.KindIncome, k)

	_, err = ledger.ParseKind("transfer")
	assert.Error(t, err)
}

func TestService_Categories(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *ledger.MockRepository)
		want      string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "WithCategories",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any(), int64(1)).Return([]ledger.Category{
					{ID: 1, Name: "Food & Groceries", Kind: ledger.KindExpense, OwnerID: 1},
					{ID: 2, Name: "Income", Kind: ledger.KindIncome, OwnerID: 1},
				}, nil)
			},
			want: "Current categories:\n - Food & Groceries (EXPENSE)\n - Income (INCOME)",
		},
		{
			name: "Empty",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any(), int64(1)).Return(nil, nil)
			},
			want: "No categories defined yet.",
		},
		{
			name: "RepoError",
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any(), int64(1)).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			tt.setupMock(repo)

			cats, err := ledger.NewService(repo).Categories(context.Background(), 1)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, ledger.RenderCategories(cats))
		})
	}
}
