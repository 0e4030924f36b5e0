package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/records-api/internal/api/handler/router"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/pkg/middleware"
)

type fakeCronJob struct {
	triggered int
}

func (f *fakeCronJob) TriggerManualSync() {
	f.triggered++
}

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"running": false, "triggered": f.triggered}
}

func TestCronJobHandlers(t *testing.T) {
	job := &fakeCronJob{}
	rt := router.New(router.WithRoutes(CronJobs(CronJobServices{CronJobTypeCacheJanitor: job})...))
	admin := &domain.Claims{UserID: 1, UserRoleID: domain.RoleAdmin}

	serve := func(method, target string, claims *domain.Claims) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(http.MethodPost, "/v1/cron/cache-janitor/run", admin)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, job.triggered)

	rec = serve(http.MethodPost, "/v1/cron/meta/run", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(http.MethodGet, "/v1/cron/status", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cache-janitor":{"running":false,"triggered":1}}`, rec.Body.String())

	rec = serve(http.MethodGet, "/v1/cron/status", &domain.Claims{UserID: 2, UserRoleID: domain.RoleAnalyst})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
