package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"membership/config"
	"membership/internal/delivery/api/router"
	"membership/internal/delivery/api/router/handler"
	domainerrors "membership/internal/domain/errors"
	"membership/internal/errors"
	logs "membership/internal/infra/log"
	"membership/internal/infra/metrics"
	mockusecase "membership/internal/mocks/usecase"
	"membership/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	echo         *echo.Echo
	registration *mockusecase.MockRegistrationUsecase
	auth         *mockusecase.MockAuthenticationUsecase
	directory    *mockusecase.MockDirectoryUsecase
	buffer       *logs.RingBuffer
	metrics      *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{Metrics: &config.MetricsConfig{Enabled: true}}
	cfg.HTTP.MaxRequestBodySize = "1KB"

	buffer := logs.NewRingBuffer(20)
	logger := slog.New(logs.NewRingHandler(buffer, slog.LevelDebug))
	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	ts := &testServer{
		registration: mockusecase.NewMockRegistrationUsecase(t),
		auth:         mockusecase.NewMockAuthenticationUsecase(t),
		directory:    mockusecase.NewMockDirectoryUsecase(t),
		buffer:       buffer,
		metrics:      m,
	}

	ts.echo = NewEcho(ServerParams{
		Cfg:     cfg,
		Logger:  logger,
		Metrics: m,
		RouterParams: router.RouterParams{
			MemberHandler: handler.NewMemberHandler(handler.MemberHandlerParams{
				RegistrationUC:   ts.registration,
				AuthenticationUC: ts.auth,
				DirectoryUC:      ts.directory,
				Logger:           logger,
			}),
			LogHandler: handler.NewLogHandler(buffer),
			Registry:   registry,
			Config:     cfg,
		},
	})

	return ts
}

func (ts *testServer) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

const janeDoe = `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"0712345678","idNumber":"12345678","county":"Nairobi","password":"secret1"}`

func TestRegister_Success(t *testing.T) {
	ts := newTestServer(t)

	ts.registration.EXPECT().
		Register(mock.Anything, mock.MatchedBy(func(p map[string]any) bool {
			return p["email"] == "jane@example.com" && p["password"] == "secret1"
		})).
		Return(&usecase.RegisterOutput{User: &usecase.RegisteredMember{
			ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", County: "Nairobi",
		}}, nil).
		Once()

	rec := ts.do(http.MethodPost, "/api/register", janeDoe)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.JSONEq(t, `{"success":true,"user":{"id":1,"first_name":"Jane","last_name":"Doe","email":"jane@example.com","county":"Nairobi"}}`, rec.Body.String())
}

func TestRegister_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name: "validation failure lists every field",
			err: errors.WithStack(domainerrors.NewValidationError([]domainerrors.FieldViolation{
				{Field: "email", Rule: "email", Message: "Invalid email"},
				{Field: "password", Rule: "min", Param: "6", Message: "String must contain at least 6 character(s)"},
			})),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":[{"field":"email","rule":"email","message":"Invalid email"},{"field":"password","rule":"min","param":"6","message":"String must contain at least 6 character(s)"}]}`,
		},
		{
			name:     "duplicate member",
			err:      errors.Wrap(domainerrors.ErrAlreadyRegistered, "create member"),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"User already registered (Email, Phone, or ID)"}`,
		},
		{
			name:     "internal error hides detail",
			err:      errors.Wrap(domainerrors.ErrInternal, "connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal server error"}`,
		},
		{
			name:     "unclassified error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.registration.EXPECT().Register(mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := ts.do(http.MethodPost, "/api/register", janeDoe)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestRegister_BodyDecoding(t *testing.T) {
	t.Run("malformed json is a body violation", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodPost, "/api/register", `{"email":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":[{"field":"body","rule":"json","message":"Invalid JSON"}]}`, rec.Body.String())
	})

	t.Run("non object body is a body violation", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodPost, "/api/register", `["a"]`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":[{"field":"body","rule":"json","message":"Expected object"}]}`, rec.Body.String())
	})

	t.Run("empty body reaches validation as an empty object", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registration.EXPECT().
			Register(mock.Anything, map[string]any{}).
			Return(nil, domainerrors.NewValidationError([]domainerrors.FieldViolation{
				{Field: "firstName", Rule: "required", Message: "Required"},
			})).
			Once()

		rec := ts.do(http.MethodPost, "/api/register", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodPost, "/api/register", `{"firstName":"`+strings.Repeat("a", 2048)+`"}`)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	role := "member"

	t.Run("success includes role", func(t *testing.T) {
		ts := newTestServer(t)
		ts.auth.EXPECT().
			Login(mock.Anything, usecase.LoginInput{Email: "jane@example.com", Password: "secret1"}).
			Return(&usecase.LoginOutput{User: &usecase.MemberProfile{
				ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", County: "Nairobi", Role: &role,
			}}, nil).
			Once()

		rec := ts.do(http.MethodPost, "/api/login", `{"email":"jane@example.com","password":"secret1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"user":{"id":1,"first_name":"Jane","last_name":"Doe","email":"jane@example.com","county":"Nairobi","role":"member"}}`, rec.Body.String())
	})

	t.Run("unbindable body becomes empty credentials", func(t *testing.T) {
		ts := newTestServer(t)
		ts.auth.EXPECT().
			Login(mock.Anything, usecase.LoginInput{}).
			Return(nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "member not found")).
			Once()

		rec := ts.do(http.MethodPost, "/api/login", `not json`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
	})

	t.Run("account without password", func(t *testing.T) {
		ts := newTestServer(t)
		ts.auth.EXPECT().
			Login(mock.Anything, mock.Anything).
			Return(nil, errors.WithStack(domainerrors.ErrAccountNotUsable)).
			Once()

		rec := ts.do(http.MethodPost, "/api/login", `{"email":"seed@example.com","password":"x"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Account not set up for login. Please contact admin."}`, rec.Body.String())
	})
}

func TestListRegistrations(t *testing.T) {
	t.Run("returns a bare array without credentials", func(t *testing.T) {
		ts := newTestServer(t)
		role := "member"
		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		ts.directory.EXPECT().List(mock.Anything).Return([]*usecase.MemberView{
			{ID: 2, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Phone: "0700000002", IDNumber: "22222222", County: "Mombasa", Role: &role, CreatedAt: created.Add(time.Minute)},
			{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "0712345678", IDNumber: "12345678", County: "Nairobi", CreatedAt: created},
		}, nil).Once()

		rec := ts.do(http.MethodGet, "/api/registrations", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")

		var rows []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.EqualValues(t, 2, rows[0]["id"])
		assert.Equal(t, "member", rows[0]["role"])
		assert.Nil(t, rows[1]["role"])
		assert.Equal(t, "12345678", rows[1]["id_number"])
	})

	t.Run("empty store is an empty array", func(t *testing.T) {
		ts := newTestServer(t)
		ts.directory.EXPECT().List(mock.Anything).Return([]*usecase.MemberView{}, nil).Once()

		rec := ts.do(http.MethodGet, "/api/registrations", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("store fault", func(t *testing.T) {
		ts := newTestServer(t)
		ts.directory.EXPECT().List(mock.Anything).Return(nil, errors.Wrap(domainerrors.ErrInternal, "list members")).Once()

		rec := ts.do(http.MethodGet, "/api/registrations", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	})
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/health", "", "X-Request-Id", "client-id-1")
	assert.Equal(t, "client-id-1", rec.Header().Get("X-Request-Id"))

	rec = ts.do(http.MethodGet, "/health", "", "X-Request-Id", strings.Repeat("x", 500))
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)

	rec = ts.do(http.MethodGet, "/does-not-exist", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestAccessLogCarriesRequestID(t *testing.T) {
	ts := newTestServer(t)
	ts.directory.EXPECT().List(mock.Anything).Return([]*usecase.MemberView{}, nil).Once()

	ts.do(http.MethodGet, "/api/registrations", "", "X-Request-Id", "trace-me")

	entries := ts.buffer.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "HTTP Request", entries[0].Message)
	assert.Contains(t, entries[0].Attrs, logs.Attr{Key: "request_id", Value: "trace-me"})
}

func TestHealthAndNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = ts.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeBody(t, rec)["error"])
}

func TestLogsPage(t *testing.T) {
	ts := newTestServer(t)

	ts.do(http.MethodGet, "/health", "")
	require.Equal(t, 1, ts.buffer.Len())

	ts.buffer.Add(logs.Entry{Time: time.Now(), Level: "INFO", Message: "<script>alert(1)</script>"})

	rec := ts.do(http.MethodGet, "/logs", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), `http-equiv="refresh" content="2"`)
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")

	// newest entry renders first
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, "&lt;script&gt;"), strings.Index(body, "HTTP Request"))

	// viewing the logs does not log
	assert.Equal(t, 2, ts.buffer.Len())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.do(http.MethodGet, "/health", "")
	ts.do(http.MethodGet, "/nope", "")

	assert.InDelta(t, 1, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues("/health", http.MethodGet, "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")), 0)

	rec := ts.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "membership_http_requests_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
