package webapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fincore/bankapi/internal/fixtures"
	"github.com/fincore/bankapi/pkg/config"
	authsvc "github.com/fincore/bankapi/pkg/service/auth"
	ledgersvc "github.com/fincore/bankapi/pkg/service/ledger"
	usersvc "github.com/fincore/bankapi/pkg/service/user"
	"github.com/fincore/bankapi/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	uow := fixtures.NewMemoryUoW()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.App{
		Jwt:       config.Jwt{Secret: "test-secret", Expiry: time.Hour, CookieName: "token"},
		RateLimit: config.RateLimit{MaxRequests: 1000, Window: time.Second},
	}
	svc := webapi.Services{
		User:   usersvc.New(uow, logger),
		Auth:   authsvc.New(uow, cfg.Jwt, logger),
		Ledger: ledgersvc.New(uow, logger),
	}
	return webapi.New(svc, cfg)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp, env
}

func register(t *testing.T, app *fiber.App, fullName, email, cpf string) string {
	t.Helper()
	resp, env := doJSON(t, app, http.MethodPost, "/register", fiber.Map{
		"fullName":  fullName,
		"email":     email,
		"password":  "secret-pass",
		"cpf":       cpf,
		"birthDate": "1990-01-01",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var u struct {
		ID           string  `json:"id"`
		TotalBalance float64 `json:"totalBalance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &u))
	require.Zero(t, u.TotalBalance)
	return u.ID
}

func TestRegisterAndLoginFlow(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "Maria Silva", "maria@example.com", "123.456.789-01")

	resp, _ := doJSON(t, app, http.MethodPost, "/register", fiber.Map{
		"fullName":  "Maria Clone",
		"email":     "clone@example.com",
		"password":  "secret-pass",
		"cpf":       "12345678901",
		"birthDate": "1990-01-01",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "same cpf, punctuation ignored")

	resp, _ = doJSON(t, app, http.MethodPost, "/register", fiber.Map{
		"fullName": "No Fields",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodPost, "/login", fiber.Map{
		"cpf":      "12345678901",
		"password": "secret-pass",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token        string  `json:"token"`
		FullName     string  `json:"fullName"`
		TotalBalance float64 `json:"totalBalance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "Maria Silva", login.FullName)

	cookieSet := false
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			cookieSet = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, cookieSet, "login must set the session cookie")

	resp, _ = doJSON(t, app, http.MethodPost, "/login", fiber.Map{
		"cpf":      "12345678901",
		"password": "wrong-pass",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/login", fiber.Map{
		"cpf":      "99999999999",
		"password": "secret-pass",
	}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProtectedRoutes(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "Maria Silva", "maria@example.com", "12345678901")

	resp, _ := doJSON(t, app, http.MethodGet, "/user", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, env := doJSON(t, app, http.MethodPost, "/login", fiber.Map{
		"cpf": "12345678901", "password": "secret-pass",
	}, "")
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))

	resp, env = doJSON(t, app, http.MethodGet, "/user", nil, login.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u struct {
		FullName string `json:"fullName"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "Maria Silva", u.FullName)

	resp, _ = doJSON(t, app, http.MethodGet, "/transactions/last?type=deposit", nil, login.Token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/transactions/last?type=deposit", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTransactionLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	aliceID := register(t, app, "Alice Santos", "alice@example.com", "11111111111")
	register(t, app, "Bob Pereira", "bob@example.com", "22222222222")

	type txResult struct {
		Transaction struct {
			ID      string  `json:"id"`
			Type    string  `json:"type"`
			Value   float64 `json:"value"`
			CPFDest string  `json:"cpfDest"`
		} `json:"transaction"`
		NewBalance float64 `json:"newBalance"`
	}

	resp, env := doJSON(t, app, http.MethodPost, "/transactions", fiber.Map{
		"userId": aliceID, "type": "deposit", "value": 100.50,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var dep txResult
	require.NoError(t, json.Unmarshal(env.Data, &dep))
	assert.Equal(t, 100.50, dep.NewBalance)

	resp, _ = doJSON(t, app, http.MethodPost, "/transactions", fiber.Map{
		"userId": aliceID, "type": "withdrawal", "value": 500.0,
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "insufficient funds is a hard rejection")

	resp, env = doJSON(t, app, http.MethodPost, "/transactions", fiber.Map{
		"userId": aliceID, "type": "transfer", "value": 50.0, "cpfDest": "222.222.222-22",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tr txResult
	require.NoError(t, json.Unmarshal(env.Data, &tr))
	assert.Equal(t, 50.50, tr.NewBalance)
	assert.Equal(t, "22222222222", tr.Transaction.CPFDest)

	resp, _ = doJSON(t, app, http.MethodPost, "/transactions", fiber.Map{
		"userId": aliceID, "type": "transfer", "value": 10.0, "cpfDest": "33333333333",
	}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "unknown counterparty")

	resp, env = doJSON(t, app, http.MethodPatch, "/transactions", fiber.Map{
		"id": dep.Transaction.ID, "value": 80.50, "attachment": "data:image/png;base64,aGk=", "attachmentName": "receipt.png",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var amended txResult
	require.NoError(t, json.Unmarshal(env.Data, &amended))
	assert.Equal(t, 30.50, amended.NewBalance, "only the 20 real difference moved")

	resp, env = doJSON(t, app, http.MethodPut, "/transactions/"+dep.Transaction.ID, fiber.Map{
		"value": 100.50,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &amended))
	assert.Equal(t, 50.50, amended.NewBalance)

	resp, env = doJSON(t, app, http.MethodGet, "/transactions?userId="+aliceID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Transactions []struct {
			Type       string `json:"type"`
			IsReceived bool   `json:"isReceived"`
		} `json:"transactions"`
		TotalCount int64 `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(2), list.TotalCount)

	bobList := func() int64 {
		_, env := doJSON(t, app, http.MethodPost, "/login", fiber.Map{
			"cpf": "22222222222", "password": "secret-pass",
		}, "")
		var login struct {
			UserID string `json:"userId"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &login))
		_, env = doJSON(t, app, http.MethodGet, "/transactions?userId="+login.UserID, nil, "")
		require.NoError(t, json.Unmarshal(env.Data, &list))
		return list.TotalCount
	}
	require.Equal(t, int64(1), bobList(), "bob sees the received transfer")
	assert.True(t, list.Transactions[0].IsReceived)

	resp, _ = doJSON(t, app, http.MethodDelete, "/transactions/"+tr.Transaction.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), bobList(), "deleting the transfer removes it from bob's statement")

	resp, _ = doJSON(t, app, http.MethodDelete, "/transactions/"+tr.Transaction.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidationFailuresReturnBadRequest(t *testing.T) {
	app := newTestApp(t)
	id := register(t, app, "Alice Santos", "alice@example.com", "11111111111")

	cases := []struct {
		name   string
		method string
		path   string
		body   fiber.Map
	}{
		{"register missing fields", http.MethodPost, "/register", fiber.Map{"fullName": "Only Name"}},
		{"login missing password", http.MethodPost, "/login", fiber.Map{"cpf": "11111111111"}},
		{"create missing type", http.MethodPost, "/transactions", fiber.Map{"userId": id, "value": 10.0}},
		{"amend missing id", http.MethodPatch, "/transactions", fiber.Map{"value": 10.0}},
		{"update zero value", http.MethodPut, "/transactions/6b1f0c2e-9a4d-4f0b-8c3a-2d5e7f90a1b2", fiber.Map{"value": 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, encodeBody(t, tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var pd struct {
				Title  string `json:"title"`
				Status int    `json:"status"`
			}
			require.NoError(t, json.Unmarshal(raw, &pd))
			assert.Equal(t, http.StatusBadRequest, pd.Status, "body status must match the response code")
			assert.NotEqual(t, "Internal Server Error", pd.Title)
		})
	}
}

func TestUnknownRouteTitleMatchesStatus(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/no-such-route", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var pd struct {
		Title  string `json:"title"`
		Status int    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(raw, &pd))
	assert.Equal(t, http.StatusNotFound, pd.Status)
	assert.Equal(t, "Not Found", pd.Title)
}

func encodeBody(t *testing.T, body fiber.Map) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	return &buf
}

func TestListFilterQueryParams(t *testing.T) {
	app := newTestApp(t)
	id := register(t, app, "Alice Santos", "alice@example.com", "11111111111")

	for _, v := range []float64{10, 20, 30} {
		resp, _ := doJSON(t, app, http.MethodPost, "/transactions", fiber.Map{
			"userId": id, "type": "deposit", "value": v,
		}, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var list struct {
		TotalCount int64 `json:"totalCount"`
	}
	resp, env := doJSON(t, app, http.MethodGet,
		"/transactions?userId="+id+"&valorMin=15&valorMax=25", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(1), list.TotalCount)

	today := time.Now().UTC().Format("2006-01-02")
	resp, env = doJSON(t, app, http.MethodGet,
		"/transactions?userId="+id+"&dataInicio="+today+"&dataFim="+today, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(3), list.TotalCount, "a plain end date covers the whole day")

	resp, _ = doJSON(t, app, http.MethodGet,
		"/transactions?userId="+id+"&dataInicio=garbage", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/transactions?userId="+id+"&type=loan", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/transactions?userId=not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
