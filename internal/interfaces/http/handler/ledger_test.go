package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityRefFromPath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	id := uuid.New()

	tests := []struct {
		name   string
		entity string
		id     string
		ok     bool
	}{
		{"account reference", "accounts", id.String(), true},
		{"supplier reference", "suppliers", id.String(), true},
		{"customer reference", "customers", id.String(), true},
		{"unknown entity kind", "items", id.String(), false},
		{"malformed id", "accounts", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Params = gin.Params{
				{Key: "entity", Value: tt.entity},
				{Key: "id", Value: tt.id},
			}

			ref, ok := entityRefFromPath(c)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}

			require.NoError(t, ref.Validate())
			switch tt.entity {
			case "accounts":
				require.NotNil(t, ref.AccountID)
				assert.Equal(t, id, *ref.AccountID)
			case "suppliers":
				require.NotNil(t, ref.SupplierID)
				assert.Equal(t, id, *ref.SupplierID)
			case "customers":
				require.NotNil(t, ref.CustomerID)
				assert.Equal(t, id, *ref.CustomerID)
			}
		})
	}
}

func TestLedgerHandler_InvalidEntityPath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewLedgerHandler(nil)
	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))

	paths := []struct {
		name   string
		method string
		path   string
	}{
		{"balance with unknown entity", http.MethodGet, "/api/v1/ledger/items/" + uuid.New().String() + "/balance"},
		{"balance with malformed id", http.MethodGet, "/api/v1/ledger/accounts/abc/balance"},
		{"recalculate with unknown entity", http.MethodPost, "/api/v1/ledger/widgets/" + uuid.New().String() + "/recalculate"},
		{"entries with malformed id", http.MethodGet, "/api/v1/ledger/suppliers/123/entries"},
	}

	for _, tt := range paths {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.path, nil)
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
