package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func createInvestor(t *testing.T, repo *GormInvestorRepository, name string, createdAt time.Time) *investor.Investor {
	t.Helper()
	inv, err := investor.NewInvestor(name, "fund manager", "Singapore", createdAt, time.Time{})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), inv))
	return inv
}

func createCommitment(t *testing.T, repo *GormCommitmentRepository, investorID uuid.UUID, assetClass, amount string) *investor.Commitment {
	t.Helper()
	c, err := investor.NewCommitment(investorID, assetClass, decimal.RequireFromString(amount), "GBP")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestGormInvestorRepository_CreateAndFindOne(t *testing.T) {
	repo := NewGormInvestorRepository(newTestDB(t))
	ctx := context.Background()

	created := time.Date(2000, 7, 6, 0, 0, 0, 0, time.UTC)
	inv := createInvestor(t, repo, "Ioo Gryffindor fund", created)

	found, err := repo.FindOne(ctx, investor.NameKey("Ioo Gryffindor fund"))
	require.NoError(t, err)
	assert.Equal(t, inv.ID, found.ID)
	assert.Equal(t, "fund manager", found.InvestorType)
	assert.True(t, created.Equal(found.CreatedAt))
	assert.True(t, created.Equal(found.UpdatedAt))
}

func TestGormInvestorRepository_Create_AssignsTimestamps(t *testing.T) {
	repo := NewGormInvestorRepository(newTestDB(t))

	before := time.Now().Add(-time.Second)
	inv := createInvestor(t, repo, "Ibx Skywalker ltd", time.Time{})

	assert.True(t, inv.CreatedAt.After(before))
	assert.False(t, inv.UpdatedAt.IsZero())
}

func TestGormInvestorRepository_FindOne_NotFound(t *testing.T) {
	repo := NewGormInvestorRepository(newTestDB(t))

	_, err := repo.FindOne(context.Background(), investor.NameKey("nobody"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvestorRepository_FindOne_MatchesNameOnly(t *testing.T) {
	repo := NewGormInvestorRepository(newTestDB(t))
	inv := createInvestor(t, repo, "Cza Weasley fund", time.Time{})

	found, err := repo.FindOne(context.Background(), investor.NameKey("  Cza Weasley fund "))
	require.NoError(t, err)
	assert.Equal(t, inv.ID, found.ID)
}

func TestGormInvestorRepository_Create_DuplicateName(t *testing.T) {
	repo := NewGormInvestorRepository(newTestDB(t))
	createInvestor(t, repo, "Mjd Jedi fund", time.Time{})

	dup, err := investor.NewInvestor("Mjd Jedi fund", "bank", "United States", time.Time{}, time.Time{})
	require.NoError(t, err)

	err = repo.Create(context.Background(), dup)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormInvestorRepository_FindByID(t *testing.T) {
	repo := NewGormInvestorRepository(newTestDB(t))
	inv := createInvestor(t, repo, "Ioo Gryffindor fund", time.Time{})

	found, err := repo.FindByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.Name, found.Name)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvestorRepository_ListWithTotals(t *testing.T) {
	db := newTestDB(t)
	investors := NewGormInvestorRepository(db)
	commitments := NewGormCommitmentRepository(db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := createInvestor(t, investors, "Ioo Gryffindor fund", base)
	second := createInvestor(t, investors, "Mjd Jedi fund", base.Add(time.Hour))
	third := createInvestor(t, investors, "Empty fund", base.Add(2*time.Hour))

	createCommitment(t, commitments, first.ID, "Infrastructure", "15000000")
	createCommitment(t, commitments, second.ID, "Hedge Funds", "72000000")
	createCommitment(t, commitments, second.ID, "Private Equity", "1000000.50")

	totals, err := investors.ListWithTotals(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 3)

	assert.Equal(t, first.ID, totals[0].Investor.ID)
	assert.True(t, decimal.NewFromInt(15000000).Equal(totals[0].Total), totals[0].Total.String())

	assert.Equal(t, second.ID, totals[1].Investor.ID)
	assert.True(t, decimal.RequireFromString("73000000.5").Equal(totals[1].Total), totals[1].Total.String())

	assert.Equal(t, third.ID, totals[2].Investor.ID)
	assert.True(t, totals[2].Total.IsZero())
	assert.Equal(t, "Empty fund", totals[2].Investor.Name)
}

func TestGormInvestorRepository_ListWithTotals_Empty(t *testing.T) {
	repo := NewGormInvestorRepository(newTestDB(t))

	totals, err := repo.ListWithTotals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, totals)
}

// newMockInvestorRepository creates a GormInvestorRepository with a mocked SQL connection
func newMockInvestorRepository(t *testing.T) (*GormInvestorRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewGormInvestorRepository(gormDB), mock, mockDB
}

func TestGormInvestorRepository_FindOne_Postgres(t *testing.T) {
	repo, mock, mockDB := newMockInvestorRepository(t)
	defer mockDB.Close()

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "investor_type", "country", "created_at", "updated_at"}).
		AddRow(id, "Ioo Gryffindor fund", "fund manager", "Singapore", now, now)

	mock.ExpectQuery(`SELECT \* FROM "investors" WHERE name = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("Ioo Gryffindor fund", 1).
		WillReturnRows(rows)

	found, err := repo.FindOne(context.Background(), investor.NameKey("Ioo Gryffindor fund"))
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvestorRepository_Create_PostgresUniqueViolation(t *testing.T) {
	repo, mock, mockDB := newMockInvestorRepository(t)
	defer mockDB.Close()

	inv, err := investor.NewInvestor("Ioo Gryffindor fund", "fund manager", "Singapore", time.Time{}, time.Time{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "investors"`).
		WillReturnError(&pgUniqueError{})
	mock.ExpectRollback()

	err = repo.Create(context.Background(), inv)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type pgUniqueError struct{}

func (*pgUniqueError) Error() string {
	return `ERROR: duplicate key value violates unique constraint "uq_investors_name" (SQLSTATE 23505)`
}
