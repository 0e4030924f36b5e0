package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/records-api/infrastructure/database"
	"github.com/vfg2006/records-api/infrastructure/repository"
	"github.com/vfg2006/records-api/internal/api/handler/router"
	"github.com/vfg2006/records-api/internal/cache"
	"github.com/vfg2006/records-api/internal/config"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/internal/usecases/authenticating"
	"github.com/vfg2006/records-api/internal/usecases/navigating"
	"github.com/vfg2006/records-api/internal/usecases/recording"
	"github.com/vfg2006/records-api/internal/usecases/reporting"
	"github.com/vfg2006/records-api/pkg/middleware"
)

type testEnv struct {
	router http.Handler
	auth   *authenticating.Service
	admin  *domain.Claims
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConfig := config.Database{
		Driver:      config.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "records.db"),
		AutoMigrate: true,
	}
	dbConfig.DSN = dbConfig.BuildDSN()

	conn, err := database.NewConnection(context.Background(), dbConfig)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, database.RunMigrations(conn, dbConfig))

	recordRepo := repository.NewRecordRepository(conn)
	resultCache := cache.New(time.Minute)

	recorder := recording.NewService(recordRepo, resultCache)
	reporter := reporting.NewService(recordRepo, resultCache, 30)
	auth := authenticating.NewService(repository.NewUserRepository(conn), repository.NewRoleRepository(conn), &config.Config{SecretKey: "segredo-de-teste"})
	navigator := navigating.NewService(repository.NewNavItemRepository(conn))

	admin, err := auth.CreateUser(context.Background(), &domain.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: "Senha@123",
		Active:       true,
		RoleID:       domain.RoleAdmin,
	})
	require.NoError(t, err)

	rt := router.New(
		router.WithRoutes(Healthcheck()...),
		router.WithRoutes(Authentication(auth)...),
		router.WithRoutes(User(auth)...),
		router.WithRoutes(Navigation(navigator)...),
		router.WithRoutes(Records(recorder, config.Records{DefaultPageSize: 50, UploadMaxBytes: 1 << 20})...),
		router.WithRoutes(Reports(reporter)...),
	)

	return &testEnv{
		router: rt,
		auth:   auth,
		admin:  &domain.Claims{UserID: admin.ID, UserRoleID: domain.RoleAdmin, UserRoleName: "Admin"},
	}
}

func (e *testEnv) do(t *testing.T, claims *domain.Claims, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.serve(req, claims)
}

func (e *testEnv) serve(req *http.Request, claims *domain.Claims) *httptest.ResponseRecorder {
	if claims != nil {
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func viewer() *domain.Claims {
	return &domain.Claims{UserID: 99, UserRoleID: domain.RoleViewer, UserRoleName: "Viewer"}
}

func TestRecordHandlers_CreateListGetDelete(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, env.admin, http.MethodPost, "/v1/records", `{"category":"A","subcategory":"x","value":10,"recorded_at":"2024-01-01T10:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := int(decode(t, rec)["id"].(float64))
	assert.Positive(t, id)

	rec = env.do(t, viewer(), http.MethodGet, "/v1/records?per_page=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode(t, rec)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, float64(10), page["per_page"])

	rec = env.do(t, viewer(), http.MethodGet, "/v1/records/"+strconv.Itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A", decode(t, rec)["category"])

	rec = env.do(t, viewer(), http.MethodGet, "/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["A"]`, rec.Body.String())

	rec = env.do(t, env.admin, http.MethodDelete, "/v1/records/"+strconv.Itoa(id), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, viewer(), http.MethodGet, "/v1/records/"+strconv.Itoa(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "REC_404", decode(t, rec)["code"])
}

func TestRecordHandlers_UpdateNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, env.admin, http.MethodPut, "/v1/records/999", `{"category":"A","value":1,"recorded_at":"2024-01-01"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "REC_404", decode(t, rec)["code"])
}

func TestRecordHandlers_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"valor ausente", `{"category":"A","recorded_at":"2024-01-01"}`, "value"},
		{"categoria vazia", `{"category":"  ","value":1,"recorded_at":"2024-01-01"}`, "category"},
		{"data inválida", `{"category":"A","value":1,"recorded_at":"ontem"}`, "recorded_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, env.admin, http.MethodPost, "/v1/records", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, "VAL_004", body["code"])
			assert.Equal(t, tt.field, body["details"].(map[string]any)["field"])
		})
	}
}

func TestRecordHandlers_ViewerCannotWrite(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, viewer(), http.MethodPost, "/v1/records", `{"category":"A","value":1,"recorded_at":"2024-01-01"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "AUTH_008", decode(t, rec)["code"])
}

func TestRecordHandlers_BulkIsAtomic(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, env.admin, http.MethodPost, "/v1/records/bulk", `{"records":[
		{"category":"A","value":1,"recorded_at":"2024-01-01"},
		{"category":"","value":2,"recorded_at":"2024-01-02"}
	]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "VAL_005", body["code"])
	assert.Equal(t, float64(1), body["details"].(map[string]any)["index"])

	rec = env.do(t, viewer(), http.MethodGet, "/v1/records", "")
	assert.Equal(t, float64(0), decode(t, rec)["total"])

	rec = env.do(t, env.admin, http.MethodPost, "/v1/records/bulk", `{"records":[
		{"category":"A","value":1,"recorded_at":"2024-01-01"},
		{"category":"B","value":2,"recorded_at":"2024-01-02"}
	]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, float64(2), body["rows"])
	assert.NotEmpty(t, body["batch_id"])
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/records/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadRecords(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(uploadRequest(t, "dados.csv", "Category,Value,Recorded_At\nA,1,2024-01-01\nB,2.5,2024-01-02 10:00\n"), env.admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, float64(2), decode(t, rec)["rows"])

	rec = env.serve(uploadRequest(t, "dados.txt", "category,value,recorded_at\n"), env.admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL_003", decode(t, rec)["code"])

	rec = env.serve(uploadRequest(t, "dados.csv", "category,amount\nA,1\n"), env.admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "VAL_006", body["code"])
	assert.Equal(t, []any{"value", "recorded_at"}, body["details"].(map[string]any)["missing"])

	rec = env.do(t, env.admin, http.MethodPost, "/v1/records/upload", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRecords_InvalidQuery(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{
		"/v1/records?page=0",
		"/v1/records?per_page=1001",
		"/v1/records?page=abc",
		"/v1/records?start_date=01-01-2024",
		"/v1/records?start_date=2024-02-01&end_date=2024-01-01",
	} {
		rec := env.do(t, viewer(), http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "VAL_007", decode(t, rec)["code"], target)
	}
}

func seedRecords(t *testing.T, env *testEnv) {
	t.Helper()

	rec := env.do(t, env.admin, http.MethodPost, "/v1/records/bulk", `{"records":[
		{"category":"A","subcategory":"x","value":10,"recorded_at":"2024-01-01T10:00:00Z"},
		{"category":"A","subcategory":"y","value":5,"recorded_at":"2024-01-01T12:00:00Z"},
		{"category":"B","value":3,"recorded_at":"2024-01-03T08:00:00Z"}
	]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestReportHandlers(t *testing.T) {
	env := newTestEnv(t)
	seedRecords(t, env)

	rec := env.do(t, viewer(), http.MethodGet, "/v1/reports/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)
	assert.Equal(t, float64(3), stats["total_records"])
	assert.Equal(t, float64(18), stats["total_value"])
	assert.Equal(t, float64(2), stats["distinct_category_count"])

	rec = env.do(t, viewer(), http.MethodGet, "/v1/reports/aggregate?group_by=category", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"group_key":"A","count":2,"total":15},{"group_key":"B","count":1,"total":3}]`, rec.Body.String())

	rec = env.do(t, viewer(), http.MethodGet, "/v1/reports/timeseries?frequency=day&start_date=2024-01-01&end_date=2024-01-03", "")
	require.Equal(t, http.StatusOK, rec.Code)
	series := decode(t, rec)
	points := series["points"].([]any)
	require.Len(t, points, 3)
	assert.Equal(t, float64(15), points[0].(map[string]any)["value"])
	assert.Equal(t, float64(0), points[1].(map[string]any)["value"])
	assert.Nil(t, points[0].(map[string]any)["moving_average"])

	rec = env.do(t, viewer(), http.MethodGet, "/v1/reports/timeseries?start_date=2024-01-01&end_date=2024-01-03&window=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	points = decode(t, rec)["points"].([]any)
	assert.Nil(t, points[0].(map[string]any)["moving_average"])
	assert.Equal(t, 7.5, points[1].(map[string]any)["moving_average"])
}

func TestReportHandlers_InvalidParameters(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{
		"/v1/reports/aggregate?group_by=mes",
		"/v1/reports/timeseries?frequency=year",
		"/v1/reports/timeseries?window=0",
		"/v1/reports/timeseries?days=abc",
		"/v1/reports/timeseries?days=4000",
		"/v1/exports/xlsx?frequency=quarter",
	} {
		rec := env.do(t, viewer(), http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "VAL_008", decode(t, rec)["code"], target)
	}
}

func TestTimeSeries_RejectsOversizedSeries(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, env.admin, http.MethodPost, "/v1/records/bulk", `{"records":[
		{"category":"A","value":1,"recorded_at":"2000-01-01T00:00:00Z"},
		{"category":"A","value":2,"recorded_at":"2024-12-31T00:00:00Z"}
	]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, viewer(), http.MethodGet, "/v1/reports/timeseries?frequency=hour&start_date=2000-01-01&end_date=2024-12-31", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL_008", decode(t, rec)["code"])

	rec = env.do(t, viewer(), http.MethodGet, "/v1/reports/timeseries?frequency=month&start_date=2000-01-01&end_date=2024-12-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["points"].([]any), 25*12)
}

func TestExportHandlers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, viewer(), http.MethodGet, "/v1/exports/csv", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EXP_001", decode(t, rec)["code"])

	seedRecords(t, env)

	rec = env.do(t, viewer(), http.MethodGet, "/v1/exports/csv?category=A", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,category"))

	rec = env.do(t, viewer(), http.MethodGet, "/v1/exports/xlsx?frequency=week", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestAuthenticationHandlers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, nil, http.MethodPost, "/v1/register", `{"username":"maria","email":"Maria@Example.com","password":"Senha@123","role_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, float64(domain.RoleViewer), created["role_id"])
	assert.Nil(t, created["password"])

	rec = env.do(t, nil, http.MethodPost, "/v1/register", `{"username":"maria","email":"outra@example.com","password":"Senha@123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "AUTH_009", decode(t, rec)["code"])

	rec = env.do(t, nil, http.MethodPost, "/v1/login", `{"login":"maria@example.com","password":"Senha@123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["token"].(string)

	claims, err := env.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "maria", claims.UserUsername)

	rec = env.do(t, nil, http.MethodPost, "/v1/login", `{"login":"maria","password":"errada"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_001", decode(t, rec)["code"])

	rec = env.do(t, nil, http.MethodPost, "/v1/login", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, claims, http.MethodGet, "/v1/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "maria", decode(t, rec)["username"])

	rec = env.do(t, claims, http.MethodPost, "/v1/users/"+strconv.Itoa(env.admin.UserID)+"/change-password", `{"current_password":"x","new_password":"y"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserHandlers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, env.admin, http.MethodPost, "/v1/users", `{"username":"ana","email":"ana@example.com","password":"Senha@123","role_id":2,"active":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	anaID := int(decode(t, rec)["id"].(float64))

	rec = env.do(t, env.admin, http.MethodGet, "/v1/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["total"])

	rec = env.do(t, env.admin, http.MethodPost, "/v1/users/"+strconv.Itoa(anaID)+"/generate-password", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["password"], 12)

	rec = env.do(t, env.admin, http.MethodDelete, "/v1/users/"+strconv.Itoa(env.admin.UserID), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "AUTH_010", decode(t, rec)["code"])

	rec = env.do(t, env.admin, http.MethodDelete, "/v1/users/"+strconv.Itoa(anaID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, env.admin, http.MethodGet, "/v1/users/"+strconv.Itoa(anaID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, env.admin, http.MethodGet, "/v1/roles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Analyst")

	rec = env.do(t, viewer(), http.MethodGet, "/v1/users", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNavigationHandlers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, env.admin, http.MethodPost, "/v1/nav/items", `{"title":"Importar","endpoint":"/import","position":2,"visible":true,"roles":["Admin","Analyst"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	importID := int(decode(t, rec)["id"].(float64))

	rec = env.do(t, env.admin, http.MethodPost, "/v1/nav/items", `{"title":"Relatórios","endpoint":"/reports","position":1,"visible":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, viewer(), http.MethodGet, "/v1/nav", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"title":"Relatórios","endpoint":"/reports"}]`, rec.Body.String())

	rec = env.do(t, env.admin, http.MethodGet, "/v1/nav", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Importar")

	rec = env.do(t, env.admin, http.MethodDelete, "/v1/nav/items/"+strconv.Itoa(importID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, env.admin, http.MethodDelete, "/v1/nav/items/"+strconv.Itoa(importID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NAV_404", decode(t, rec)["code"])
}

func TestHealthcheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, nil, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, nil, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
