package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/services"
)

// ── in-memory repositories ───────────────────────────────────────────────────

type memStockRepo struct {
	mu        sync.Mutex
	rows      []models.StockLedgerRow
	entries   []models.ProductMovementRequest
	exits     []models.ProductMovementRequest
	processed []string
}

func (r *memStockRepo) ListRows(_ context.Context, userID string) ([]models.StockLedgerRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StockLedgerRow
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memStockRepo) ListConsumption(context.Context, []int64) ([]models.ConsumptionRecord, error) {
	return nil, nil
}

func (r *memStockRepo) RegisterEntry(_ context.Context, req models.ProductMovementRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, req)
	return nil
}

func (r *memStockRepo) RegisterExit(_ context.Context, req models.ProductMovementRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exits = append(r.exits, req)
	return nil
}

func (r *memStockRepo) ProcessEntry(_ context.Context, productID string, _, _ float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed = append(r.processed, productID)
	return nil
}

func (r *memStockRepo) LogMovement(context.Context, *models.MovementHistory) error { return nil }

type memFinanceRepo struct{ txs []models.FinancialTransaction }

func (r *memFinanceRepo) ListTransactions(context.Context, string) ([]models.FinancialTransaction, error) {
	return r.txs, nil
}

type memNotificationRepo struct {
	mu   sync.Mutex
	rows []models.NotificationRow
}

func (r *memNotificationRepo) List(_ context.Context, userID string, _ int) ([]models.NotificationRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.NotificationRow
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) Create(_ context.Context, row *models.NotificationRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row.ID = uuid.NewString()
	r.rows = append(r.rows, *row)
	return nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].UserID == userID {
			r.rows[i].Read = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(userID, event string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, userID+":"+event)
}

// ── fixture ──────────────────────────────────────────────────────────────────

var testNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func kindPtr(k models.MovementKind) *models.MovementKind { return &k }
func strPtr(s string) *string                           { return &s }
func floatPtr(f float64) *float64                       { return &f }

type fixture struct {
	router *gin.Engine
	stock  *memStockRepo
	notes  *memNotificationRepo
	pub    *recordingPublisher
}

func newFixture() fixture {
	gin.SetMode(gin.TestMode)

	stockRepo := &memStockRepo{rows: []models.StockLedgerRow{
		{ID: 10, UserID: "u1", ProductName: "Ureia", Unit: "kg", Quantity: 50, Kind: kindPtr(models.MovementEntry),
			UnitPrice: floatPtr(2.5), ProductID: strPtr("prod-ureia"), CreatedAt: testNow.AddDate(0, 0, -10)},
		{ID: 11, UserID: "u1", ProductName: "Ureia", Unit: "kg", Quantity: 80, Kind: kindPtr(models.MovementExit),
			CreatedAt: testNow.AddDate(0, 0, -9)},
		{ID: 12, UserID: "u1", ProductName: "Gesso agrícola", Unit: "kg", Quantity: 100, Kind: kindPtr(models.MovementEntry),
			UnitPrice: floatPtr(1), CreatedAt: testNow.AddDate(0, 0, -8)},
	}}
	financeRepo := &memFinanceRepo{txs: []models.FinancialTransaction{
		{Value: decimal.NewFromInt(1000), Status: models.TransactionStatusSettled, RegisteredAt: testNow.AddDate(0, 0, -3)},
		{Value: decimal.NewFromInt(-400), Category: "Fertilizantes", Status: models.TransactionStatusSettled, RegisteredAt: testNow.AddDate(0, 0, -2)},
	}}
	notes := &memNotificationRepo{}
	pub := &recordingPublisher{}
	clock := func() time.Time { return testNow }

	stockSvc := services.NewStockService(stockRepo, services.NewMemoryConsumptionCache(time.Minute, clock), pub)
	financeSvc := services.NewFinanceService(financeRepo, clock)
	notifySvc := services.NewNotificationService(notes, pub, clock)

	r := gin.New()
	RegisterRoutes(r, Handlers{
		Stock:         NewStockController(stockSvc),
		Finance:       NewFinanceController(financeSvc),
		Notifications: NewNotificationController(notifySvc),
		Dashboard:     NewDashboardController(services.NewDashboardService(stockSvc, financeSvc, nil)),
	})
	return fixture{router: r, stock: stockRepo, notes: notes, pub: pub}
}

func (f fixture) do(method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// ── tests ────────────────────────────────────────────────────────────────────

func TestHealthNeedsNoUser(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingUserIsUnauthorized(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodGet, "/api/v1/estoque/grupos", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, decode(t, w)["details"], HeaderUserID)
}

func TestListGroups(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/estoque/grupos", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["count"])

	w = f.do(http.MethodGet, "/api/v1/estoque/grupos?user_id=u2", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["count"])
}

func TestExportGroups(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodGet, "/api/v1/estoque/grupos/export", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}

func TestRegisterEntry(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/v1/estoque/entradas", "u1", `{"nome":" Ureia ","unidade":"quilos","quantidade":25,"valor_total":62.5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.stock.entries, 1)
	assert.Equal(t, "u1", f.stock.entries[0].UserID)
	assert.Equal(t, "Ureia", f.stock.entries[0].Name)
	assert.Contains(t, f.pub.events, "u1:"+services.EventStockChanged)

	w = f.do(http.MethodPost, "/api/v1/estoque/saidas", "u1", `{"nome":"Ureia","unidade":"kg","quantidade":-3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/v1/estoque/entradas", "u1", `{"nome":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCorrectDeficit(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/v1/estoque/ajustes", "u1", `{"row_id":11,"quantidade":40,"valor_unitario":2.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"prod-ureia"}, f.stock.processed)

	ajuste := decode(t, w)["ajuste"].(map[string]interface{})
	assert.EqualValues(t, 30, ajuste["deficit_coberto"])
	assert.EqualValues(t, 10, ajuste["saldo_creditado"])

	w = f.do(http.MethodPost, "/api/v1/estoque/ajustes", "u1", `{"row_id":999,"quantidade":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPost, "/api/v1/estoque/ajustes", "u1", `{"row_id":11,"quantidade":5,"valor_unitario":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveFIFO(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/v1/estoque/remocoes", "u1", `{"row_id":12,"quantidade":10}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.stock.exits, 1)
	assert.Equal(t, 10.0, f.stock.exits[0].TotalValue)
}

func TestShortageAlerts(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodGet, "/api/v1/estoque/alertas", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])
}

func TestBalance(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/financeiro/saldo?periodo=ultimos-7-dias", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "600", decode(t, w)["saldo_periodo"])

	w = f.do(http.MethodGet, "/api/v1/financeiro/saldo?periodo=ontem", "u1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/v1/financeiro/saldo?periodo=personalizado&inicio=15/10/2025", "u1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/v1/financeiro/saldo?periodo=personalizado&inicio=2025-10-01&fim=2025-10-31", "u1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCosts(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/api/v1/financeiro/custos?area=10", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/v1/financeiro/custos?area=dez", "u1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotifications(t *testing.T) {
	f := newFixture()
	svc := services.NewNotificationService(f.notes, nil, nil)
	n, err := svc.Notify(context.Background(), "u1", models.ShortageAlert{ProductName: "Ureia", Quantity: 30, Unit: "kg"})
	require.NoError(t, err)

	w := f.do(http.MethodGet, "/api/v1/notificacoes", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["count"])
	first := body["notificacoes"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "falta_estoque", first["tipo"])

	w = f.do(http.MethodPost, "/api/v1/notificacoes/"+n.ID+"/lida", "u2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPost, "/api/v1/notificacoes/"+n.ID+"/lida", "u1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboard(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodGet, "/api/v1/painel", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["total_produtos"])
}
