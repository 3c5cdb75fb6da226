package importapp

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/fundledger/backend/internal/domain/bulk"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultArchiveURLExpiry = 15 * time.Minute

// HistoryDetail is a stored batch outcome plus a time-limited link to the
// archived file when one exists
type HistoryDetail struct {
	History             *bulk.ImportHistory
	ArchiveURL          string
	ArchiveURLExpiresAt *time.Time
}

// ImportHistoryService serves past batch outcomes
type ImportHistoryService struct {
	historyRepo bulk.ImportHistoryRepository
	archive     BatchArchive
	urlExpiry   time.Duration
	logger      *zap.Logger
}

// NewImportHistoryService creates a new ImportHistoryService. archive may be nil.
func NewImportHistoryService(historyRepo bulk.ImportHistoryRepository, archive BatchArchive, logger *zap.Logger) *ImportHistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHistoryService{
		historyRepo: historyRepo,
		archive:     archive,
		urlExpiry:   defaultArchiveURLExpiry,
		logger:      logger,
	}
}

// GetHistory retrieves one import history. Archive lookups are best effort:
// a storage failure leaves the link empty.
func (s *ImportHistoryService) GetHistory(ctx context.Context, id uuid.UUID) (*HistoryDetail, error) {
	history, err := s.historyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &HistoryDetail{History: history}
	if s.archive == nil || history.ArchiveKey == "" {
		return detail, nil
	}

	exists, err := s.archive.ObjectExists(ctx, history.ArchiveKey)
	if err != nil || !exists {
		if err != nil {
			s.logger.Warn("Failed to check archived import file",
				zap.String("key", history.ArchiveKey), zap.Error(err))
		}
		return detail, nil
	}

	url, expiresAt, err := s.archive.GenerateDownloadURL(ctx, history.ArchiveKey, s.urlExpiry)
	if err != nil {
		s.logger.Warn("Failed to presign archived import file",
			zap.String("key", history.ArchiveKey), zap.Error(err))
		return detail, nil
	}
	detail.ArchiveURL = url
	detail.ArchiveURLExpiresAt = &expiresAt
	return detail, nil
}

// ListHistory returns import histories page by page, newest first by default
func (s *ImportHistoryService) ListHistory(ctx context.Context, filter shared.Filter) (*shared.Paginated[*bulk.ImportHistory], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}
	if filter.OrderBy == "" {
		filter.OrderBy = shared.DefaultFilter().OrderBy
		filter.OrderDir = shared.DefaultFilter().OrderDir
	}
	return s.historyRepo.FindAll(ctx, filter)
}

// ErrorsCSV renders the stored row failures of one import as CSV with a
// "Row,Kind,Message" header. It returns the content and a download file name.
func (s *ImportHistoryService) ErrorsCSV(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	history, err := s.historyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Row", "Kind", "Message"}); err != nil {
		return nil, "", err
	}
	for _, d := range history.ErrorDetails {
		if err := w.Write([]string{strconv.Itoa(d.Row), d.Kind, d.Message}); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	base := strings.TrimSuffix(path.Base(history.FileName), path.Ext(history.FileName))
	return buf.Bytes(), fmt.Sprintf("%s_errors.csv", base), nil
}
