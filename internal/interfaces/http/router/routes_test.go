package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	importapp "github.com/fundledger/backend/internal/application/import"
	investorapp "github.com/fundledger/backend/internal/application/investor"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/fundledger/backend/internal/infrastructure/cache"
	"github.com/fundledger/backend/internal/infrastructure/config"
	"github.com/fundledger/backend/internal/infrastructure/persistence"
	"github.com/fundledger/backend/internal/infrastructure/storage"
	"github.com/fundledger/backend/internal/interfaces/http/dto"
	"github.com/fundledger/backend/internal/interfaces/http/handler"
	"github.com/fundledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batchHeader = "Investor Name,Investory Type,Investor Country,Investor Date Added,Investor Last Updated,Commitment Asset Class,Commitment Amount,Commitment Currency\n"

// newTestAPI wires the full API over a file-backed SQLite database
func newTestAPI(t *testing.T) *gin.Engine {
	t.Helper()
	middleware.SetupValidator()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())

	locker := cache.NewInMemoryKeyLocker(shared.KeyLockConfig{
		TTL:           time.Minute,
		RetryInterval: 5 * time.Millisecond,
		WaitTimeout:   5 * time.Second,
	})
	uow := persistence.NewGormTransactionScope(db.DB)
	investors := persistence.NewGormInvestorRepository(db.DB)
	commitments := persistence.NewGormCommitmentRepository(db.DB)
	historyRepo := persistence.NewGormImportHistoryRepository(db.DB)
	archive := storage.NewMemoryObjectStorage()

	importer := importapp.NewInvestorImportService(uow, locker,
		importapp.WithHistory(historyRepo),
		importapp.WithArchive(archive),
	)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	system := handler.NewSystemHandler("test", db)
	engine.GET("/health", system.Health)

	r := NewRouter(engine)
	RegisterAPI(r, Handlers{
		Investor: handler.NewInvestorHandler(
			investorapp.NewCommandService(uow, investors, locker, nil),
			investorapp.NewQueryService(investors, commitments),
		),
		Import:        handler.NewImportHandler(importer, 0),
		ImportHistory: handler.NewImportHistoryHandler(importapp.NewImportHistoryService(historyRepo, archive, nil)),
		System:        system,
	}).Setup()
	return engine
}

func uploadBatch(t *testing.T, engine *gin.Engine, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload-csv", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func doJSON(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	envelope := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

func TestAPI_UploadThenQuery(t *testing.T) {
	engine := newTestAPI(t)

	batch := batchHeader +
		"Ioo Gryffindor fund,fund manager,Singapore,2000-07-06,2024-02-21,Infrastructure,15000000,GBP\n" +
		"Ioo Gryffindor fund,fund manager,Singapore,2000-07-06,2024-02-21,Hedge Funds,31000000,GBP\n" +
		"Ibx Skywalker ltd,asset manager,United States,1997-07-21,2024-02-21,Private Equity,abc,GBP\n" +
		"Ioo Gryffindor fund,fund manager,Singapore,2000-07-06,2024-02-21,Infrastructure,15000000,GBP\n"

	w := uploadBatch(t, engine, "investors.csv", batch)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var upload dto.UploadResponse
	decodeData(t, w, &upload)
	assert.Equal(t, 2, upload.SuccessfulImports)
	assert.Equal(t, 1, upload.FailedImports)
	assert.Equal(t, 1, upload.IgnoredImports)
	require.Len(t, upload.Failures, 1)
	assert.Equal(t, 3, upload.Failures[0].Row)

	var list investorapp.InvestorListResponse
	decodeData(t, doJSON(engine, http.MethodGet, "/api/v1/investors", ""), &list)
	require.Len(t, list.Investors, 1)
	assert.Equal(t, "Ioo Gryffindor fund", list.Investors[0].Name)
	assert.Equal(t, 46000000.0, list.Investors[0].TotalCommitments)

	var detail investorapp.InvestorDetailResponse
	decodeData(t, doJSON(engine, http.MethodGet, "/api/v1/investors/"+list.Investors[0].ID.String(), ""), &detail)
	assert.Len(t, detail.Commitments, 2)

	var history dto.ImportHistoryResponse
	decodeData(t, doJSON(engine, http.MethodGet, "/api/v1/imports/"+upload.ImportID.String(), ""), &history)
	assert.Equal(t, "completed", history.Status)
	assert.Equal(t, 4, history.TotalRows)
	assert.NotEmpty(t, history.ArchiveURL)

	w = doJSON(engine, http.MethodGet, "/api/v1/imports/"+upload.ImportID.String()+"/errors", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Row,Kind,Message\n3,ROW_FORMAT,"), w.Body.String())
}

func TestAPI_InvestorsWithoutCommitmentsShowZero(t *testing.T) {
	engine := newTestAPI(t)

	w := doJSON(engine, http.MethodPost, "/api/v1/investors",
		`{"name":"Mjd Jedi fund","investor_type":"bank","country":"China"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var list investorapp.InvestorListResponse
	decodeData(t, doJSON(engine, http.MethodGet, "/api/v1/investors", ""), &list)
	require.Len(t, list.Investors, 1)
	assert.Equal(t, 0.0, list.Investors[0].TotalCommitments)

	w = doJSON(engine, http.MethodPost, "/api/v1/investors",
		`{"name":"Mjd Jedi fund","investor_type":"bank","country":"China"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAPI_CommitmentIsIdempotent(t *testing.T) {
	engine := newTestAPI(t)

	var inv investorapp.InvestorResponse
	decodeData(t, doJSON(engine, http.MethodPost, "/api/v1/investors",
		`{"name":"Cza Weasley fund","investor_type":"wealth manager","country":"United Kingdom"}`), &inv)

	body := `{"investor_id":"` + inv.ID.String() + `","asset_class":"Real Estate","amount":1000000,"currency":"GBP"}`
	first := doJSON(engine, http.MethodPost, "/api/v1/investment-commitments", body)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := doJSON(engine, http.MethodPost, "/api/v1/investment-commitments", body)
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())

	var a, b investorapp.CreateCommitmentResponse
	decodeData(t, first, &a)
	decodeData(t, second, &b)
	assert.Equal(t, a.ID, b.ID)
	assert.False(t, b.Created)
}

func TestAPI_AmountsFinerThanCentsAreRejected(t *testing.T) {
	engine := newTestAPI(t)

	var inv investorapp.InvestorResponse
	decodeData(t, doJSON(engine, http.MethodPost, "/api/v1/investors",
		`{"name":"Cza Weasley fund","investor_type":"wealth manager","country":"United Kingdom"}`), &inv)

	w := doJSON(engine, http.MethodPost, "/api/v1/investment-commitments",
		`{"investor_id":"`+inv.ID.String()+`","asset_class":"Real Estate","amount":100.005,"currency":"GBP"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	batch := batchHeader +
		"Cza Weasley fund,wealth manager,United Kingdom,2002-05-29,2024-02-21,Infrastructure,100.005,GBP\n" +
		"Cza Weasley fund,wealth manager,United Kingdom,2002-05-29,2024-02-21,Hedge Funds,100.50,GBP\n"

	for _, wantIgnored := range []int{0, 1} {
		w = uploadBatch(t, engine, "investors.csv", batch)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var upload dto.UploadResponse
		decodeData(t, w, &upload)
		assert.Equal(t, 1-wantIgnored, upload.SuccessfulImports)
		assert.Equal(t, wantIgnored, upload.IgnoredImports)
		require.Equal(t, 1, upload.FailedImports)
		assert.Equal(t, 1, upload.Failures[0].Row)
		assert.Equal(t, "ROW_FORMAT", string(upload.Failures[0].Kind))
	}

	var detail investorapp.InvestorDetailResponse
	decodeData(t, doJSON(engine, http.MethodGet, "/api/v1/investors/"+inv.ID.String(), ""), &detail)
	require.Len(t, detail.Commitments, 1)
	assert.Equal(t, 100.5, detail.Commitments[0].Amount)
}

func TestAPI_UnreadableBatchIsRecorded(t *testing.T) {
	engine := newTestAPI(t)

	w := uploadBatch(t, engine, "broken.csv", "Investor Name,Commitment Amount\nA,1\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var page dto.ImportHistoryListResponse
	decodeData(t, doJSON(engine, http.MethodGet, "/api/v1/imports", ""), &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "failed", page.Items[0].Status)
	assert.Equal(t, "broken.csv", page.Items[0].FileName)
}

func TestAPI_Health(t *testing.T) {
	engine := newTestAPI(t)

	w := doJSON(engine, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
