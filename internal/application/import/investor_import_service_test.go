package importapp_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	importapp "github.com/fundledger/backend/internal/application/import"
	"github.com/fundledger/backend/internal/domain/bulk"
	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/fundledger/backend/internal/infrastructure/cache"
	"github.com/fundledger/backend/internal/infrastructure/config"
	csvimport "github.com/fundledger/backend/internal/infrastructure/import"
	"github.com/fundledger/backend/internal/infrastructure/persistence"
	"github.com/fundledger/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
)

const sampleCSV = `Investor Name,Investory Type,Investor Country,Investor Date Added,Investor Last Updated,Commitment Asset Class,Commitment Amount,Commitment Currency
Ioo Gryffindor fund,fund manager,Singapore,2000-07-06,2024-02-21,Infrastructure,15000000,GBP
Ibx Skywalker ltd,asset manager,United States,1997-07-21,2024-02-21,Infrastructure,31000000,GBP
Cza Weasley fund,wealth manager,United Kingdom,2002-05-29,2024-02-21,Hedge Funds,58000000,GBP
Mjd Jedi fund,bank,China,2010-06-08,2024-02-21,Private Equity,72000000,GBP
Mjd Jedi fund,bank,China,2010-06-08,2024-02-21,Natural Resources,1000000,GBP
`

type fixture struct {
	db          *persistence.Database
	uow         *persistence.GormTransactionScope
	locker      shared.KeyLocker
	investors   *persistence.GormInvestorRepository
	commitments *persistence.GormCommitmentRepository
	history     *persistence.GormImportHistoryRepository
	archive     *storage.MemoryObjectStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "import.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())

	return &fixture{
		db:          db,
		uow:         persistence.NewGormTransactionScope(db.DB),
		locker:      cache.NewInMemoryKeyLocker(shared.DefaultKeyLockConfig()),
		investors:   persistence.NewGormInvestorRepository(db.DB),
		commitments: persistence.NewGormCommitmentRepository(db.DB),
		history:     persistence.NewGormImportHistoryRepository(db.DB),
		archive:     storage.NewMemoryObjectStorage(),
	}
}

func (f *fixture) service(t *testing.T, opts ...importapp.Option) *importapp.InvestorImportService {
	base := []importapp.Option{
		importapp.WithLogger(zaptest.NewLogger(t)),
		importapp.WithHistory(f.history),
		importapp.WithArchive(f.archive),
	}
	return importapp.NewInvestorImportService(f.uow, f.locker, append(base, opts...)...)
}

// totals maps investor name to its summed commitments
func (f *fixture) totals(t *testing.T) map[string]string {
	t.Helper()
	list, err := f.investors.ListWithTotals(context.Background())
	require.NoError(t, err)
	out := make(map[string]string, len(list))
	for _, it := range list {
		out[it.Investor.Name] = it.Total.String()
	}
	return out
}

func parseRows(t *testing.T, data string) []csvimport.Row {
	t.Helper()
	parser, err := csvimport.ParseFromBytes([]byte(data), csvimport.WithHeaderAliases(importapp.HeaderAliases))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())
	rows, err := parser.ReadAllRows()
	require.NoError(t, err)
	return rows
}

func assertSampleTotals(t *testing.T, totals map[string]string) {
	t.Helper()
	assert.Equal(t, map[string]string{
		"Ioo Gryffindor fund": "15000000",
		"Ibx Skywalker ltd":   "31000000",
		"Cza Weasley fund":    "58000000",
		"Mjd Jedi fund":       "73000000",
	}, totals)
}

func TestInvestorImportService_ImportFile_SampleBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.service(t).ImportFile(ctx, "investors.csv", []byte(sampleCSV))

	require.NoError(t, err)
	assert.Equal(t, importapp.StatusCompleted, result.Status)
	assert.Equal(t, 5, result.SuccessfulImports)
	assert.Equal(t, 0, result.FailedImports)
	assert.Equal(t, 0, result.IgnoredImports)
	assert.Empty(t, result.Errors())
	assertSampleTotals(t, f.totals(t))

	list, err := f.investors.ListWithTotals(ctx)
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, it := range list {
		names[i] = it.Investor.Name
	}
	// Ordered by Investor Date Added
	assert.Equal(t, []string{"Ibx Skywalker ltd", "Ioo Gryffindor fund", "Cza Weasley fund", "Mjd Jedi fund"}, names)

	history, err := f.history.FindByID(ctx, result.ImportID)
	require.NoError(t, err)
	assert.Equal(t, bulk.ImportStatusCompleted, history.Status)
	assert.Equal(t, 5, history.TotalRows)
	assert.Equal(t, 5, history.SuccessRows)
	assert.Equal(t, int64(len(sampleCSV)), history.FileSize)
	require.NotEmpty(t, history.ArchiveKey)
	assert.True(t, strings.HasSuffix(history.ArchiveKey, "/"+result.ImportID.String()+"/investors.csv"))

	data, contentType, ok := f.archive.Object(history.ArchiveKey)
	require.True(t, ok)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, sampleCSV, string(data))
}

func TestInvestorImportService_ImportFile_Idempotent(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t)
	ctx := context.Background()

	_, err := svc.ImportFile(ctx, "investors.csv", []byte(sampleCSV))
	require.NoError(t, err)

	second, err := svc.ImportFile(ctx, "investors.csv", []byte(sampleCSV))

	require.NoError(t, err)
	assert.Equal(t, 0, second.SuccessfulImports)
	assert.Equal(t, 0, second.FailedImports)
	assert.Equal(t, 5, second.IgnoredImports)
	assertSampleTotals(t, f.totals(t))
}

func TestInvestorImportService_Import_RowIsolation(t *testing.T) {
	header := "Investor Name,Investor Type,Investor Country,Commitment Asset Class,Commitment Amount,Commitment Currency\n"
	good := []string{
		"Ioo Gryffindor fund,fund manager,Singapore,Infrastructure,15000000,GBP\n",
		"Cza Weasley fund,wealth manager,United Kingdom,Hedge Funds,58000000,GBP\n",
		"Mjd Jedi fund,bank,China,Private Equity,72000000,GBP\n",
	}
	bad := "Broken fund,bank,China,Private Equity,not-a-number,GBP\n"

	withBad := newFixture(t)
	result := withBad.service(t).Import(context.Background(), parseRows(t, header+good[0]+bad+good[1]+good[2]))

	assert.Equal(t, 3, result.SuccessfulImports)
	assert.Equal(t, 1, result.FailedImports)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 2, result.Failures[0].Row)
	assert.Equal(t, investor.KindRowFormat, result.Failures[0].Kind)
	assert.Equal(t, []string{"Row 2: column 'Commitment Amount': 'not-a-number' is not a valid number"}, result.Errors())

	withoutBad := newFixture(t)
	baseline := withoutBad.service(t).Import(context.Background(), parseRows(t, header+good[0]+good[1]+good[2]))

	assert.Equal(t, baseline.SuccessfulImports, result.SuccessfulImports)
	assert.Equal(t, withoutBad.totals(t), withBad.totals(t))
}

func TestInvestorImportService_Import_DuplicateCommitmentInBatch(t *testing.T) {
	f := newFixture(t)
	data := "Investor Name,Investor Type,Investor Country,Commitment Asset Class,Commitment Amount,Commitment Currency\n" +
		"Mjd Jedi fund,bank,China,Private Equity,72000000,GBP\n" +
		"Mjd Jedi fund,bank,China,Private Equity,72000000.00,GBP\n"

	result := f.service(t).Import(context.Background(), parseRows(t, data))

	assert.Equal(t, 1, result.SuccessfulImports)
	assert.Equal(t, 1, result.IgnoredImports)
	assert.Equal(t, "72000000", f.totals(t)["Mjd Jedi fund"])
}

func TestInvestorImportService_Import_NeverUpdatesExistingInvestor(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t)
	ctx := context.Background()
	header := "Investor Name,Investor Type,Investor Country,Investor Date Added,Commitment Asset Class,Commitment Amount,Commitment Currency\n"

	svc.Import(ctx, parseRows(t, header+"Mjd Jedi fund,bank,China,2010-06-08,Private Equity,72000000,GBP\n"))
	result := svc.Import(ctx, parseRows(t, header+"Mjd Jedi fund,hedge fund,Japan,2020-01-01,Natural Resources,1000000,GBP\n"))

	assert.Equal(t, 1, result.SuccessfulImports)
	inv, err := f.investors.FindOne(ctx, investor.NameKey("Mjd Jedi fund"))
	require.NoError(t, err)
	assert.Equal(t, "bank", inv.InvestorType)
	assert.Equal(t, "China", inv.Country)
	assert.Equal(t, 2010, inv.CreatedAt.Year())
}

// failingCommitments rejects commitments for one asset class
type failingCommitments struct {
	investor.CommitmentRepository
	assetClass string
}

func (r failingCommitments) Create(ctx context.Context, c *investor.Commitment) error {
	if c.AssetClass == r.assetClass {
		return errors.New("disk full")
	}
	return r.CommitmentRepository.Create(ctx, c)
}

type faultyUnitOfWork struct {
	inner      investor.UnitOfWork
	assetClass string
}

func (u faultyUnitOfWork) Execute(ctx context.Context, fn func(investor.Repositories) error) error {
	return u.inner.Execute(ctx, func(repos investor.Repositories) error {
		repos.Commitments = failingCommitments{CommitmentRepository: repos.Commitments, assetClass: u.assetClass}
		return fn(repos)
	})
}

func TestInvestorImportService_Import_RollsBackFailedRow(t *testing.T) {
	f := newFixture(t)
	svc := importapp.NewInvestorImportService(faultyUnitOfWork{inner: f.uow, assetClass: "Hedge Funds"}, f.locker)
	data := "Investor Name,Investor Type,Investor Country,Commitment Asset Class,Commitment Amount,Commitment Currency\n" +
		"Cza Weasley fund,wealth manager,United Kingdom,Hedge Funds,58000000,GBP\n" +
		"Ioo Gryffindor fund,fund manager,Singapore,Infrastructure,15000000,GBP\n"

	result := svc.Import(context.Background(), parseRows(t, data))

	assert.Equal(t, 1, result.SuccessfulImports)
	assert.Equal(t, 1, result.FailedImports)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, investor.KindResolution, result.Failures[0].Kind)
	assert.Contains(t, result.Failures[0].Message, "disk full")

	// The investor created earlier in the failed row is rolled back too
	_, err := f.investors.FindOne(context.Background(), investor.NameKey("Cza Weasley fund"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Len(t, f.totals(t), 1)
}

type stubLocker struct {
	err error
}

func (l stubLocker) Lock(context.Context, string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	return func() {}, nil
}

func TestInvestorImportService_Import_LockFailureIsRowScoped(t *testing.T) {
	f := newFixture(t)
	svc := importapp.NewInvestorImportService(f.uow, stubLocker{err: shared.ErrLockTimeout})

	result := svc.Import(context.Background(), parseRows(t, sampleCSV))

	assert.Equal(t, 5, result.FailedImports)
	for _, failure := range result.Failures {
		assert.Equal(t, investor.KindResolution, failure.Kind)
		assert.Contains(t, failure.Message, "could not lock investor")
	}
	assert.Empty(t, f.totals(t))
}

// lateInvalidEncoding is a valid batch longer than 4 KB followed by a row
// carrying bytes that are not UTF-8
func lateInvalidEncoding() string {
	var b strings.Builder
	b.WriteString(sampleCSV)
	for b.Len() < 5000 {
		b.WriteString("Ioo Gryffindor fund,fund manager,Singapore,2000-07-06,2024-02-21,Infrastructure,15000000,GBP\n")
	}
	b.WriteString("Bad \xff\xfe name,bank,China,2010-06-08,2024-02-21,Private Equity,1,GBP\n")
	return b.String()
}

func TestInvestorImportService_ImportFile_BatchSourceErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		contains string
	}{
		{"empty file", "", "CSV file is empty"},
		{"missing column", "Investor Name,Investor Country\nFund,China\n", "missing required columns: Investor Type"},
		{"malformed record", "Investor Name,Investor Type,Investor Country,Commitment Asset Class,Commitment Amount,Commitment Currency\n" +
			"Ioo Gryffindor fund,fund manager,Singapore,Infrastructure,15000000,GBP\n" +
			"Bad \"quote fund,bank,China,Private Equity,1,GBP\n", "CSV parsing error"},
		{"invalid encoding after the first 4 KB", lateInvalidEncoding(), "invalid file encoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			result, err := f.service(t).ImportFile(ctx, "investors.csv", []byte(tt.data))

			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, investor.KindBatchSource, investor.KindOf(err))
			assert.Contains(t, err.Error(), tt.contains)
			assert.Empty(t, f.totals(t), "no row may run for an unreadable batch")
			assert.Equal(t, 0, f.archive.Len())

			page, err := f.history.FindAll(ctx, shared.DefaultFilter())
			require.NoError(t, err)
			require.Len(t, page.Items, 1)
			assert.Equal(t, bulk.ImportStatusFailed, page.Items[0].Status)
			require.Len(t, page.Items[0].ErrorDetails, 1)
			assert.Equal(t, string(investor.KindBatchSource), page.Items[0].ErrorDetails[0].Kind)
		})
	}
}

type failingHistory struct {
	bulk.ImportHistoryRepository
}

func (failingHistory) Save(context.Context, *bulk.ImportHistory) error {
	return errors.New("history table locked")
}

func TestInvestorImportService_ImportFile_DiscardsArchiveWhenHistoryFails(t *testing.T) {
	f := newFixture(t)
	svc := importapp.NewInvestorImportService(f.uow, f.locker,
		importapp.WithHistory(failingHistory{}),
		importapp.WithArchive(f.archive),
	)

	result, err := svc.ImportFile(context.Background(), "investors.csv", []byte(sampleCSV))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, f.archive.Len())
	assert.Empty(t, f.totals(t))
}

func TestInvestorImportService_ImportFile_IgnoresCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.service(t).ImportFile(ctx, "investors.csv", []byte(sampleCSV))

	require.NoError(t, err)
	assert.Equal(t, 5, result.SuccessfulImports)
}

func TestInvestorImportService_ConcurrentBatches(t *testing.T) {
	f := newFixture(t)
	svc := f.service(t)

	results := make([]*importapp.ImportResult, 2)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			r, err := svc.ImportFile(context.Background(), "investors.csv", []byte(sampleCSV))
			results[i] = r
			return err
		})
	}
	require.NoError(t, g.Wait())

	successful := 0
	for _, r := range results {
		assert.Equal(t, 0, r.FailedImports, r.Errors())
		assert.Equal(t, 5, r.SuccessfulImports+r.IgnoredImports)
		successful += r.SuccessfulImports
	}
	assert.Equal(t, 5, successful)
	assertSampleTotals(t, f.totals(t))
}

type recordingMetrics struct {
	mu      sync.Mutex
	rows    []string
	batches []string
}

func (m *recordingMetrics) RecordRow(_ context.Context, outcome, failureKind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, outcome+"/"+failureKind)
}

func (m *recordingMetrics) RecordBatch(_ context.Context, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, status)
}

func TestInvestorImportService_RecordsMetrics(t *testing.T) {
	f := newFixture(t)
	metrics := &recordingMetrics{}
	svc := f.service(t, importapp.WithMetrics(metrics))
	data := "Investor Name,Investor Type,Investor Country,Commitment Asset Class,Commitment Amount,Commitment Currency\n" +
		"Mjd Jedi fund,bank,China,Private Equity,72000000,GBP\n" +
		"Mjd Jedi fund,bank,China,Private Equity,72000000,GBP\n" +
		"Mjd Jedi fund,bank,China,Private Equity,-1,GBP\n"

	_, err := svc.ImportFile(context.Background(), "investors.csv", []byte(data))
	require.NoError(t, err)

	_, err = svc.ImportFile(context.Background(), "empty.csv", nil)
	require.Error(t, err)

	assert.Equal(t, []string{"success/", "ignored/", "failed/ROW_FORMAT"}, metrics.rows)
	assert.Equal(t, []string{"completed", "failed"}, metrics.batches)
}

func TestArchiveKey(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 2, 21, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "imports/2024/02/21/"+id.String()+"/investors.csv", importapp.ArchiveKey(id, "investors.csv", at))
	assert.Equal(t, "imports/2024/02/21/"+id.String()+"/data.csv", importapp.ArchiveKey(id, `C:\uploads\data.csv`, at))
	assert.Equal(t, "imports/2024/02/21/"+id.String()+"/data.csv", importapp.ArchiveKey(id, "../../data.csv", at))
}
