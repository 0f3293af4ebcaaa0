package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	partnerapp "github.com/workshoperp/backend/internal/application/partner"
	"github.com/workshoperp/backend/internal/domain/partner"
	"github.com/workshoperp/backend/internal/domain/shared"
	"github.com/workshoperp/backend/internal/interfaces/http/dto"
)

// fakeCustomerRepository is an in-memory partner.CustomerRepository
type fakeCustomerRepository struct {
	customers map[uuid.UUID]*partner.Customer
}

func newFakeCustomerRepository() *fakeCustomerRepository {
	return &fakeCustomerRepository{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *fakeCustomerRepository) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound.WithMessage("Customer not found")
	}
	copied := *customer
	return &copied, nil
}

func (r *fakeCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeCustomerRepository) FindAll(_ context.Context, filter shared.Filter) ([]partner.Customer, error) {
	result := make([]partner.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		result = append(result, *customer)
	}
	return result, nil
}

func (r *fakeCustomerRepository) Save(_ context.Context, customer *partner.Customer) error {
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

func (r *fakeCustomerRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.customers)), nil
}

func setupCustomerRouter(repo *fakeCustomerRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	scope := partnerapp.NewNoOpTransactionScope(nil, repo, nil, nil)
	service := partnerapp.NewCustomerService(scope, repo)
	h := NewCustomerHandler(service)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestCustomerHandler_Create(t *testing.T) {
	repo := newFakeCustomerRepository()
	engine := setupCustomerRouter(repo)

	body := map[string]interface{}{
		"name":            "Acme Workshop",
		"phone":           "555-0101",
		"opening_balance": "150.50",
	}
	payload, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Acme Workshop", data["name"])
	assert.Equal(t, "150.5", data["opening_balance"])
	assert.Equal(t, "150.5", data["current_balance"])
	assert.NotEmpty(t, data["id"])
	assert.Len(t, repo.customers, 1)
}

func TestCustomerHandler_Create_ValidationFailure(t *testing.T) {
	engine := setupCustomerRouter(newFakeCustomerRepository())

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"opening_balance":"10"}`},
		{"negative opening balance", `{"name":"Acme","opening_balance":"-5"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
		})
	}
}

func TestCustomerHandler_GetByID(t *testing.T) {
	repo := newFakeCustomerRepository()
	customer, err := partner.NewCustomer("Acme Workshop", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), customer))

	engine := setupCustomerRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/customers/"+customer.ID.String(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, customer.ID.String(), data["id"])
	assert.Equal(t, "Acme Workshop", data["name"])
}

func TestCustomerHandler_GetByID_NotFound(t *testing.T) {
	engine := setupCustomerRouter(newFakeCustomerRepository())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/customers/"+uuid.New().String(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestCustomerHandler_GetByID_InvalidUUID(t *testing.T) {
	engine := setupCustomerRouter(newFakeCustomerRepository())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/customers/not-a-uuid", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerHandler_List(t *testing.T) {
	repo := newFakeCustomerRepository()
	for _, name := range []string{"Acme", "Globex", "Initech"} {
		customer, err := partner.NewCustomer(name, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), customer))
	}

	engine := setupCustomerRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/customers?page=1&page_size=10", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
}

func TestCustomerHandler_Update(t *testing.T) {
	repo := newFakeCustomerRepository()
	customer, err := partner.NewCustomer("Old Name", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), customer))

	engine := setupCustomerRouter(repo)

	payload := `{"name":"New Name","phone":"555-0202"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/customers/"+customer.ID.String(), bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "New Name", data["name"])
	assert.Equal(t, "555-0202", data["phone"])
}

func TestCustomerHandler_Delete(t *testing.T) {
	repo := newFakeCustomerRepository()
	customer, err := partner.NewCustomer("Acme", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), customer))

	engine := setupCustomerRouterWithEntries(repo, newFakeEntryRepository())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/customers/"+customer.ID.String(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.customers)
}

func TestCustomerHandler_Delete_WithLedgerHistory(t *testing.T) {
	repo := newFakeCustomerRepository()
	customer, err := partner.NewCustomer("Acme", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), customer))

	entryRepo := newFakeEntryRepository()
	entryRepo.counts[customer.ID] = 2

	engine := setupCustomerRouterWithEntries(repo, entryRepo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/customers/"+customer.ID.String(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)
	assert.Len(t, repo.customers, 1)
}

func setupCustomerRouterWithEntries(repo *fakeCustomerRepository, entryRepo *fakeEntryRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	scope := partnerapp.NewNoOpTransactionScope(nil, repo, entryRepo, nil)
	service := partnerapp.NewCustomerService(scope, repo)
	h := NewCustomerHandler(service)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}
