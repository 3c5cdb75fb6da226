package importapp

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/fundledger/backend/internal/domain/bulk"
	"github.com/fundledger/backend/internal/domain/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	csvimport "github.com/fundledger/backend/internal/infrastructure/import"
	"github.com/fundledger/backend/internal/infrastructure/logger"
	"github.com/fundledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	csvContentType         = "text/csv"
	defaultMaxErrorDetails = 100
)

// InvestorImportService ingests investor/commitment batches.
// Rows run strictly in order, each in its own unit of work.
type InvestorImportService struct {
	uow             investor.UnitOfWork
	locker          shared.KeyLocker
	historyRepo     bulk.ImportHistoryRepository
	archive         BatchArchive
	metrics         MetricsRecorder
	logger          *zap.Logger
	maxErrorDetails int
}

// Option configures an InvestorImportService
type Option func(*InvestorImportService)

// WithHistory persists an ImportHistory record for every file import
func WithHistory(repo bulk.ImportHistoryRepository) Option {
	return func(s *InvestorImportService) {
		s.historyRepo = repo
	}
}

// WithArchive stores each uploaded file before processing
func WithArchive(archive BatchArchive) Option {
	return func(s *InvestorImportService) {
		s.archive = archive
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(s *InvestorImportService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *InvestorImportService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxErrorDetails caps the failures stored on the history record
func WithMaxErrorDetails(n int) Option {
	return func(s *InvestorImportService) {
		if n > 0 {
			s.maxErrorDetails = n
		}
	}
}

// NewInvestorImportService creates a new InvestorImportService
func NewInvestorImportService(uow investor.UnitOfWork, locker shared.KeyLocker, opts ...Option) *InvestorImportService {
	s := &InvestorImportService{
		uow:             uow,
		locker:          locker,
		metrics:         noopMetrics{},
		logger:          zap.NewNop(),
		maxErrorDetails: defaultMaxErrorDetails,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import processes rows in order and returns the batch summary. Row
// failures are recorded in the result and never abort the batch. Once
// started the batch ignores cancellation of ctx.
func (s *InvestorImportService) Import(ctx context.Context, rows []csvimport.Row) *ImportResult {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "investor_import.batch", telemetry.SpanAttrRowCount, len(rows))
	defer span.End()

	result := newImportResult()
	for _, row := range rows {
		outcome, failure := s.importRow(ctx, row)
		result.record(outcome, failure)

		kind := ""
		if failure != nil {
			kind = string(failure.Kind)
		}
		s.metrics.RecordRow(ctx, string(outcome), kind)
	}

	telemetry.SetAttributes(span,
		"import.successful", result.SuccessfulImports,
		"import.failed", result.FailedImports,
		"import.ignored", result.IgnoredImports,
	)
	telemetry.SetOK(span)
	s.metrics.RecordBatch(ctx, result.Status, time.Since(start))

	s.log(ctx).Info("Investor batch processed",
		zap.Int("rows", len(rows)),
		zap.Int("successful", result.SuccessfulImports),
		zap.Int("failed", result.FailedImports),
		zap.Int("ignored", result.IgnoredImports),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result
}

// importRow runs Pending → Normalized → InvestorResolved → CommitmentResolved
// for one row. Any error rolls back the row's unit of work.
func (s *InvestorImportService) importRow(ctx context.Context, row csvimport.Row) (RowOutcome, *RowFailure) {
	ctx, span := telemetry.StartSpan(ctx, "investor_import.row", telemetry.SpanAttrRowNumber, row.Number)
	defer span.End()

	record, failure := Normalize(row)
	if failure != nil {
		return s.rowFailed(ctx, span, failure)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrInvestorName, record.Investor.Name)

	unlock, err := s.locker.Lock(ctx, investor.LockKey(record.Investor.Name))
	if err != nil {
		return s.rowFailed(ctx, span, newRowFailure(row.Number,
			shared.WrapDomainError(shared.ErrResolution.Code, "could not lock investor "+record.Investor.Name, err)))
	}
	defer unlock()

	var created bool
	err = s.uow.Execute(ctx, func(repos investor.Repositories) error {
		inv, _, err := shared.FindOrCreate(ctx, repos.Investors, investor.NameKey(record.Investor.Name),
			func() (*investor.Investor, error) {
				f := record.Investor
				return investor.NewInvestor(f.Name, f.InvestorType, f.Country, f.CreatedAt, f.UpdatedAt)
			})
		if err != nil {
			return err
		}
		telemetry.SetAttributes(span, telemetry.SpanAttrInvestorID, inv.ID.String())

		c := record.Commitment
		_, created, err = shared.FindOrCreate(ctx, repos.Commitments,
			investor.CommitmentKey(inv.ID, c.AssetClass, c.Amount, c.Currency),
			func() (*investor.Commitment, error) {
				return investor.NewCommitment(inv.ID, c.AssetClass, c.Amount, c.Currency)
			})
		return err
	})
	if err != nil {
		return s.rowFailed(ctx, span, newRowFailure(row.Number, err))
	}

	outcome := RowIgnored
	if created {
		outcome = RowSuccess
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRowOutcome, string(outcome))
	telemetry.SetOK(span)
	return outcome, nil
}

// log prefers the import-scoped logger carried by ctx
func (s *InvestorImportService) log(ctx context.Context) *logger.ContextLogger {
	if logger.GetImportID(ctx) != "" {
		return logger.L(ctx)
	}
	return logger.WithLogger(ctx, s.logger)
}

func (s *InvestorImportService) rowFailed(ctx context.Context, span trace.Span, failure *RowFailure) (RowOutcome, *RowFailure) {
	telemetry.SetAttributes(span, telemetry.SpanAttrRowOutcome, string(RowFailed))
	telemetry.AddEvent(span, "row_failed", "kind", string(failure.Kind), "message", failure.Message)
	s.log(ctx).Warn("Import row failed",
		zap.Int("row", failure.Row),
		zap.String("kind", string(failure.Kind)),
		zap.String("message", failure.Message),
	)
	return RowFailed, failure
}

// ImportFile parses a CSV upload and imports its rows. A file that cannot
// be read as a batch fails with a BATCH_SOURCE_ERROR before any row runs.
// With history enabled the batch outcome is persisted, and with an archive
// the raw file is stored under ArchiveKey.
func (s *InvestorImportService) ImportFile(ctx context.Context, fileName string, data []byte) (*ImportResult, error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	history, err := bulk.NewImportHistory(fileName, int64(len(data)))
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, err.Error())
	}
	ctx, _ = logger.WithImportID(ctx, s.logger, history.ID.String())

	ctx, span := telemetry.StartSpan(ctx, "investor_import.file",
		telemetry.SpanAttrImportID, history.ID.String(),
		telemetry.SpanAttrFileName, fileName,
	)
	defer span.End()

	rows, err := parseBatch(data)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordBatch(ctx, string(bulk.ImportStatusFailed), time.Since(start))
		s.saveRejected(ctx, history, err)
		return nil, err
	}

	if s.archive != nil {
		key := ArchiveKey(history.ID, fileName, history.CreatedAt)
		if err := s.archive.Upload(ctx, key, data, csvContentType); err != nil {
			s.log(ctx).Warn("Failed to archive import file", zap.String("key", key), zap.Error(err))
		} else {
			history.ArchiveKey = key
		}
	}

	if err := history.StartProcessing(len(rows)); err != nil {
		return nil, err
	}
	if s.historyRepo != nil {
		if err := s.historyRepo.Save(ctx, history); err != nil {
			s.discardArchive(ctx, history)
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to save import history: %w", err)
		}
	}

	result := s.Import(ctx, rows)
	result.ImportID = history.ID

	if err := history.Complete(result.SuccessfulImports, result.FailedImports, result.IgnoredImports,
		result.errorDetails(s.maxErrorDetails)); err != nil {
		return nil, err
	}
	if s.historyRepo != nil {
		if err := s.historyRepo.Save(ctx, history); err != nil {
			// Rows are already committed; the summary is still returned
			s.log(ctx).Error("Failed to save import history", zap.Error(err))
		}
	}

	telemetry.SetOK(span)
	return result, nil
}

// parseBatch decodes the whole file before any row is processed
func parseBatch(data []byte) ([]csvimport.Row, error) {
	parser, err := csvimport.ParseFromBytes(data, csvimport.WithHeaderAliases(HeaderAliases))
	if err != nil {
		return nil, batchSourceError(err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, batchSourceError(err)
	}
	if missing := parser.ValidateHeaders(RequiredColumns()); len(missing) > 0 {
		return nil, investor.NewBatchSourceError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil)
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, batchSourceError(err)
	}
	return rows, nil
}

// batchSourceError keeps the parser's message, which already names the cause
func batchSourceError(err error) error {
	return investor.NewBatchSourceError(err.Error(), nil)
}

func (s *InvestorImportService) saveRejected(ctx context.Context, history *bulk.ImportHistory, cause error) {
	if s.historyRepo == nil {
		return
	}
	detail := bulk.ImportErrorDetail{Kind: string(investor.KindOf(cause)), Message: cause.Error()}
	if err := history.Fail([]bulk.ImportErrorDetail{detail}); err != nil {
		return
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		s.log(ctx).Error("Failed to save rejected import history", zap.Error(err))
	}
}

func (s *InvestorImportService) discardArchive(ctx context.Context, history *bulk.ImportHistory) {
	if s.archive == nil || history.ArchiveKey == "" {
		return
	}
	if err := s.archive.DeleteObject(ctx, history.ArchiveKey); err != nil {
		s.log(ctx).Warn("Failed to delete orphaned archive",
			zap.String("key", history.ArchiveKey), zap.Error(err))
	}
	history.ArchiveKey = ""
}

// ArchiveKey returns the object key for an uploaded batch:
// imports/YYYY/MM/DD/<import id>/<file name>
func ArchiveKey(importID uuid.UUID, fileName string, at time.Time) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "batch.csv"
	}
	return fmt.Sprintf("imports/%s/%s/%s", at.UTC().Format("2006/01/02"), importID, base)
}
