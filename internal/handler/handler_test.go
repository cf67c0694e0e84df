package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/parking-registry/internal/cache"
	"github.com/iliyamo/parking-registry/internal/handler"
	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/repository"
	"github.com/iliyamo/parking-registry/internal/router"
	"github.com/iliyamo/parking-registry/internal/store"
	"github.com/iliyamo/parking-registry/internal/store/memstore"
)

func newServer(t *testing.T, s *store.Store, checks map[string]handler.Pinger) *echo.Echo {
	t.Helper()
	opt := repository.WithLogger(zap.NewNop())
	e := echo.New()
	router.RegisterRoutes(e, &handler.HealthHandler{Checks: checks}, prometheus.NewRegistry())
	router.RegisterRegistry(e, handler.NewRegistryHandler(
		repository.NewLotRepo(s, opt),
		repository.NewSpotRepo(s, opt),
		repository.NewAcceptedMethodRepo(s, opt),
		repository.NewScheduleRepo(s, opt),
		repository.NewPaymentRepo(s, opt),
	))
	router.RegisterCatalog(e, handler.NewCatalogHandler(
		repository.NewCatalogRepo(s, cache.NewMemory("test", time.Minute), time.Minute, opt)))
	router.RegisterUsers(e, handler.NewUserHandler(repository.NewUserRepo(s, 4, opt)))
	return e
}

// call performs a request and decodes a JSON object response, if any.
func call(t *testing.T, e *echo.Echo, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func callList(t *testing.T, e *echo.Echo, path string) []map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSpotLifecycle(t *testing.T) {
	e := newServer(t, memstore.New(), nil)

	code, lot := call(t, e, http.MethodPost, "/v1/lots", echo.Map{"province": "Santa Fe", "city": "Rosario", "address": "San Martin 100"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, float64(1), lot["id"])

	code, _ = call(t, e, http.MethodPost, "/v1/spots", echo.Map{"lot_id": 1, "number": 5})
	require.Equal(t, http.StatusCreated, code)

	code, body := call(t, e, http.MethodPost, "/v1/spots", echo.Map{"lot_id": 1, "number": 5})
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "number", body["field"])
	assert.Equal(t, float64(5), body["input"])

	code, _ = call(t, e, http.MethodPost, "/v1/spots", echo.Map{"lot_id": 1, "number": 6})
	require.Equal(t, http.StatusCreated, code)

	code, body = call(t, e, http.MethodGet, "/v1/lots/1/spots/5", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Rosario", body["lot"].(map[string]any)["city"])

	code, _ = call(t, e, http.MethodPut, "/v1/lots/1/spots/5", echo.Map{"covered": true, "max_height": 2.1})
	require.Equal(t, http.StatusOK, code)

	code, body = call(t, e, http.MethodPut, "/v1/lots/1/spots/5", echo.Map{"number": 7})
	require.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body["error"], "cannot be changed")

	spots := callList(t, e, "/v1/lots/1/spots")
	require.Len(t, spots, 2)
	assert.Equal(t, true, spots[0]["covered"])

	code, _ = call(t, e, http.MethodDelete, "/v1/lots/1/spots/6", nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = call(t, e, http.MethodDelete, "/v1/lots/1/spots/6", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBadInput(t *testing.T) {
	e := newServer(t, memstore.New(), nil)

	code, _ := call(t, e, http.MethodGet, "/v1/lots/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = call(t, e, http.MethodGet, "/v1/lots/1/schedules/1/not-a-time", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	req := httptest.NewRequest(http.MethodPost, "/v1/lots", bytes.NewBufferString("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIntegrityConflicts(t *testing.T) {
	e := newServer(t, memstore.New(), nil)

	_, _ = call(t, e, http.MethodPost, "/v1/lots", echo.Map{"province": "Santa Fe", "city": "Rosario", "address": "Mitre 1"})
	code, pm := call(t, e, http.MethodPost, "/v1/payment-methods", echo.Map{"name": "Cash"})
	require.Equal(t, http.StatusCreated, code)
	methodID := pm["id"]

	code, body := call(t, e, http.MethodPost, "/v1/accepted-payment-methods", echo.Map{"lot_id": 1, "payment_method_id": 99, "enabled": true})
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "payment method does not exist", body["cause"])

	code, _ = call(t, e, http.MethodPost, "/v1/accepted-payment-methods", echo.Map{"lot_id": 1, "payment_method_id": methodID, "enabled": true})
	require.Equal(t, http.StatusCreated, code)

	code, body = call(t, e, http.MethodDelete, "/v1/payment-methods/1", nil)
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "cannot delete: lots accept this payment method", body["cause"])

	code, _ = call(t, e, http.MethodPost, "/v1/payments", echo.Map{"lot_id": 1, "payment_method_id": methodID, "amount_cents": 1500})
	require.Equal(t, http.StatusCreated, code)
	assert.Len(t, callList(t, e, "/v1/lots/1/payments"), 1)

	code, body = call(t, e, http.MethodDelete, "/v1/lots/1/payment-methods/1", nil)
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "cannot delete: payments exist using this method at this lot", body["cause"])

	code, body = call(t, e, http.MethodGet, "/v1/lots/1/payment-methods/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Cash", body["method"].(map[string]any)["name"])
}

func TestScheduleAddressedByInstant(t *testing.T) {
	e := newServer(t, memstore.New(), nil)

	_, _ = call(t, e, http.MethodPost, "/v1/lots", echo.Map{"province": "Santa Fe", "city": "Rosario", "address": "Mitre 1"})
	code, _ := call(t, e, http.MethodPost, "/v1/day-classifications", echo.Map{"name": "Weekday"})
	require.Equal(t, http.StatusCreated, code)

	code, body := call(t, e, http.MethodPost, "/v1/schedules", echo.Map{
		"lot_id": 1, "day_classification_id": 1,
		"start": "2024-03-01T08:00:00-03:00", "end": "2024-03-01T20:00:00-03:00",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "2024-03-01T11:00:00Z", body["start"])

	code, _ = call(t, e, http.MethodPost, "/v1/schedules", echo.Map{
		"lot_id": 1, "day_classification_id": 1,
		"start": "2024-03-01T11:00:00Z", "end": "2024-03-01T12:00:00Z",
	})
	assert.Equal(t, http.StatusConflict, code)

	path := "/v1/lots/1/schedules/1/" + url.PathEscape("2024-03-01T08:00:00-03:00")
	code, body = call(t, e, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Weekday", body["day_classification"].(map[string]any)["name"])

	code, _ = call(t, e, http.MethodPut, path, echo.Map{"end": "2024-03-01T22:00:00-03:00"})
	require.Equal(t, http.StatusOK, code)
	code, body = call(t, e, http.MethodGet, "/v1/lots/1/schedules/1/2024-03-01T11:00:00Z", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2024-03-02T01:00:00Z", body["end"])

	code, _ = call(t, e, http.MethodDelete, "/v1/day-classifications/1", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, e, http.MethodDelete, "/v1/lots/1", nil)
	require.Equal(t, http.StatusNoContent, code)
	code, _ = call(t, e, http.MethodDelete, "/v1/day-classifications/1", nil)
	assert.Equal(t, http.StatusNoContent, code)
}

func TestUsersShareIdentityAndEmail(t *testing.T) {
	e := newServer(t, memstore.New(), nil)

	code, owner := call(t, e, http.MethodPost, "/v1/owners", echo.Map{
		"name": "Ana", "email": "A@X.com", "password": "secret1", "tax_id": "20-12345678-9",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "owner", owner["role"])
	assert.Equal(t, "a@x.com", owner["email"])
	assert.NotContains(t, owner, "password_hash")

	code, body := call(t, e, http.MethodPost, "/v1/drivers", echo.Map{"name": "Beto", "email": "a@x.com", "password": "secret2"})
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "email", body["field"])

	code, driver := call(t, e, http.MethodPost, "/v1/drivers", echo.Map{"name": "Beto", "email": "b@x.com", "password": "secret2"})
	require.Equal(t, http.StatusCreated, code)
	assert.NotEqual(t, owner["id"], driver["id"])

	code, body = call(t, e, http.MethodGet, "/v1/users/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "owner", body["role"])
	assert.Equal(t, "20-12345678-9", body["tax_id"])

	code, body = call(t, e, http.MethodPut, "/v1/users/1", echo.Map{"phone": "341-555"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "341-555", body["phone"])
	assert.Equal(t, "Ana", body["name"])

	code, body = call(t, e, http.MethodPut, "/v1/users/1", echo.Map{"role": "driver"})
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "role", body["field"])

	code, body = call(t, e, http.MethodPut, "/v1/users/2", echo.Map{"email": "a@x.com"})
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "email", body["field"])

	code, _ = call(t, e, http.MethodPut, "/v1/users/2", echo.Map{"id": 5})
	assert.Equal(t, http.StatusConflict, code)

	assert.Len(t, callList(t, e, "/v1/users"), 2)
	assert.Len(t, callList(t, e, "/v1/owners"), 1)
	assert.Len(t, callList(t, e, "/v1/drivers"), 1)

	code, _ = call(t, e, http.MethodDelete, "/v1/users/2", nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = call(t, e, http.MethodGet, "/v1/users/2", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

// unreachableLots fails every read the way a dropped database connection does.
type unreachableLots struct {
	store.Table[int64, model.Lot]
}

func (unreachableLots) List(context.Context, store.Query) ([]model.Lot, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestStoreUnavailable(t *testing.T) {
	s := memstore.New()
	s.Lots = unreachableLots{s.Lots}
	e := newServer(t, s, nil)

	code, body := call(t, e, http.MethodGet, "/v1/lots", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "store unavailable", body["error"])
}

func TestHealth(t *testing.T) {
	e := newServer(t, memstore.New(), nil)
	code, body := call(t, e, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	down := handler.PingFunc(func(context.Context) error { return errors.New("timeout") })
	e = newServer(t, memstore.New(), map[string]handler.Pinger{"redis": down})
	code, body = call(t, e, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "timeout", body["failed"].(map[string]any)["redis"])
}

func TestMetricsEndpoint(t *testing.T) {
	e := newServer(t, memstore.New(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
