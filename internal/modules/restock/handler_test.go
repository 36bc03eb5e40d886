package restock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(f *fixture, actor identity.Actor, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(f.svc, zap.NewNop()).RegisterRoutes(r)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req = req.WithContext(identity.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ApproveThenShip(t *testing.T) {
	f := newFixture()
	r := f.request(t, 20)

	rec := serve(f, f.supplier, http.MethodPost, "/restock-requests/"+r.ID.String()+"/approve", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var approved struct {
		Request  RestockRequest `json:"request"`
		Shipment Shipment       `json:"shipment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approved))
	assert.Equal(t, RequestApproved, approved.Request.Status)
	assert.Equal(t, ShipmentPreparing, approved.Shipment.Status)

	rec = serve(f, f.supplier2, http.MethodPost, "/restock-requests/"+r.ID.String()+"/approve", `{"tracking_number":"X"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"already_processed"`)

	path := "/shipments/" + approved.Shipment.ID.String()
	rec = serve(f, f.supplier, http.MethodPatch, path, `{"status":"delivered"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"invalid_transition"`)

	rec = serve(f, f.supplier, http.MethodPatch, path, `{"status":"shipped","tracking_number":"TRK-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = serve(f, f.supplier, http.MethodPatch, path, `{"status":"delivered"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 25, f.product.StockQuantity)
}

func TestHandler_CreateRequestValidation(t *testing.T) {
	f := newFixture()

	rec := serve(f, f.manager, http.MethodPost, "/restock-requests/",
		`{"product_id":"`+f.product.ID.String()+`","requested_quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(f, f.manager, http.MethodPost, "/restock-requests/",
		`{"product_id":"`+f.product.ID.String()+`","requested_quantity":12,"notes":"weekend promo"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(f, f.supplier, http.MethodGet, "/restock-requests/?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []RestockRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}
