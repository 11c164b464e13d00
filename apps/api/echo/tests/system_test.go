package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/gce/apps/api/echo"
	"github.com/trezcool/gce/core/audit"
	"github.com/trezcool/gce/core/fee"
	"github.com/trezcool/gce/core/settings"
	"github.com/trezcool/gce/core/user"
	"github.com/trezcool/gce/tests"
)

func TestServer_home(t *testing.T) {
	app, _ := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to GCE Registry API!", rec.Body.String())
}

func Test_settingsApi(t *testing.T) {
	app, c := setup(t)
	testutil.CreateUser(t, c.UserSvc, "Officer", "officer", "pass", true)

	t.Run("officer", func(t *testing.T) {
		token := login(t, app, "officer", "pass")
		runHTTPTests(t, app, []httpTest{
			{name: "get", path: "/v1/settings", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, settings.Default())},
			{
				name: "update", method: http.MethodPut, path: "/v1/settings", token: token,
				body: marchallObj(t, settings.Default()), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
			},
		})
	})

	token := login(t, app, adminUname, adminPwd)
	updated := settings.Default()
	updated.FeeSubject = 250
	updated.SchoolName = "Lusaka Boys"
	invalid := settings.Default()
	invalid.FeeForm = -1

	runHTTPTests(t, app, []httpTest{
		{
			name: "invalid", method: http.MethodPut, path: "/v1/settings", token: token,
			body: marchallObj(t, invalid), wantCode: http.StatusBadRequest,
		},
		{
			name: "update", method: http.MethodPut, path: "/v1/settings", token: token,
			body: marchallObj(t, updated), wantCode: http.StatusOK, wantData: marchallObj(t, updated),
		},
		{name: "get updated", path: "/v1/settings", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, updated)},
		{
			name: "fees follow settings", path: "/v1/candidates/fees?subjects=Mathematics", token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, fee.Calculate([]string{"Mathematics"}, updated.Schedule(), fee.DefaultCatalogue)),
		},
		{
			name: "reset", method: http.MethodPost, path: "/v1/settings/reset", token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, settings.Default()),
		},
	})

	entries, err := c.AuditSvc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "System settings updated", entries[0].Action)
}

func Test_auditApi(t *testing.T) {
	app, c := setup(t)
	testutil.CreateUser(t, c.UserSvc, "Officer", "officer", "pass", true)

	t.Run("admin required", func(t *testing.T) {
		token := login(t, app, "officer", "pass")
		runHTTPTests(t, app, []httpTest{
			{name: "list", path: "/v1/audit", token: token, wantCode: http.StatusForbidden},
			{name: "clear", method: http.MethodDelete, path: "/v1/audit", token: token, wantCode: http.StatusForbidden},
		})
	})

	token := login(t, app, adminUname, adminPwd)
	req, rec := newAuthRequest(http.MethodGet, "/v1/audit", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []audit.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, "User Login", entries[0].Action)
	assert.Equal(t, adminUname, entries[0].User)

	runHTTPTests(t, app, []httpTest{
		{name: "clear", method: http.MethodDelete, path: "/v1/audit", token: token, wantCode: http.StatusNoContent},
		{name: "list cleared", path: "/v1/audit", token: token, wantCode: http.StatusOK, wantData: marchallList(t)},
	})
}

func Test_systemApi_factoryReset(t *testing.T) {
	app, c := setup(t)
	ctx := context.Background()
	testutil.CreateUser(t, c.UserSvc, "Officer", "officer", "pass", true)
	testutil.CreateCandidate(t, c.CandidateSvc, "Banda", "1", "Mathematics")

	t.Run("admin required", func(t *testing.T) {
		token := login(t, app, "officer", "pass")
		runHTTPTests(t, app, []httpTest{
			{name: "reset", method: http.MethodPost, path: "/v1/system/factory-reset", token: token, wantCode: http.StatusForbidden},
		})
	})

	token := login(t, app, adminUname, adminPwd)
	runHTTPTests(t, app, []httpTest{
		{
			name: "reset", method: http.MethodPost, path: "/v1/system/factory-reset", token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, SuccessResponse{Success: "System reset to factory defaults."}),
		},
		{name: "session cleared", path: "/v1/auth/me", token: token, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errExpired)},
	})

	records, err := c.CandidateSvc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	_, err = c.UserSvc.GetByUsername(ctx, "officer")
	assert.Equal(t, user.ErrNotFound, err)
	_, err = c.UserSvc.GetByUsername(ctx, adminUname)
	assert.NoError(t, err, "the admin account is seeded again")
}

func Test_catalogueApi(t *testing.T) {
	app, _ := setup(t)
	token := login(t, app, adminUname, adminPwd)

	runHTTPTests(t, app, []httpTest{
		{name: "token required", path: "/v1/catalogue/subjects", wantCode: http.StatusUnauthorized},
		{
			name: "subjects", path: "/v1/catalogue/subjects", token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, fee.DefaultCatalogue.Subjects()),
		},
		{name: "districts", path: "/v1/catalogue/districts", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, fee.Districts)},
	})
}
