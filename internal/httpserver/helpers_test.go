package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/souq/internal/events"
	"github.com/Skotchmaster/souq/internal/repo"
	"github.com/Skotchmaster/souq/internal/service"
	"github.com/Skotchmaster/souq/pkg/db"
)

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	Store repo.Store
	Deps  *Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	store := &repo.GormRepo{DB: gdb}
	pub := events.NopPublisher{}

	deps := &Deps{
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Store: store, Events: pub}},
		AccountHandler: &AccountHTTP{Svc: &service.AccountService{
			Store: store, Events: pub, AdminUsername: "admin", AdminPassword: "admin123",
		}},
		OrderHandler: &OrderHTTP{Svc: &service.OrderService{Store: store, Events: pub}},
	}

	e := echo.New()
	Register(e, deps)
	return &testEnv{T: t, E: e, Store: store, Deps: deps}
}

func (env *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(env.T, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireMessage(t *testing.T, rec *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	require.Equal(t, code, rec.Code, rec.Body.String())
	body := decode[map[string]string](t, rec)
	require.Equal(t, msg, body["message"])
}

func productPayload() map[string]any {
	return map[string]any{
		"title":       "زيت زيتون",
		"price":       25.50,
		"category":    "زيوت",
		"description": "زيت زيتون بكر",
	}
}

func orderPayload(productID string) map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"name":    "سارة",
			"phone":   "0912345678",
			"address": "طرابلس",
			"email":   "x@y.com",
		},
		"items": []map[string]any{
			{"id": productID, "title": "زيت زيتون", "price": 25.50, "quantity": 2},
		},
		"total": 51.00,
	}
}

