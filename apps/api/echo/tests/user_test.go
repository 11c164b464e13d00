package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/gce/apps/api/echo"
	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/user"
	"github.com/trezcool/gce/tests"
)

func Test_authApi_signup(t *testing.T) {
	app, c := setup(t)
	testutil.CreateUser(t, c.UserSvc, "Taken", "taken", "pass", true)

	tests := []httpTest{
		{
			name: "empty", method: http.MethodPost, path: "/v1/auth/signup", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":     "this field is required",
				"username": "this field is required",
				"nrc":      "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name: "blank name", method: http.MethodPost, path: "/v1/auth/signup",
			body:     marchallObj(t, user.NewUser{Name: "   ", Username: "x", NRC: "1", Password: "pass"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
		{
			name: "short password", method: http.MethodPost, path: "/v1/auth/signup",
			body:     marchallObj(t, user.NewUser{Name: "X", Username: "x", NRC: "1", Password: "abc"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate username", method: http.MethodPost, path: "/v1/auth/signup",
			body:     marchallObj(t, user.NewUser{Name: "X", Username: " taken ", NRC: "1", Password: "pass"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": user.ErrUsernameExists.Error()}),
		},
	}
	runHTTPTests(t, app, tests)

	t.Run("ok", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/signup",
			marchallObj(t, user.NewUser{Name: "Jane Phiri", Username: "jane", NRC: "111/11/1", Password: "pass"}))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		usr, err := c.UserSvc.GetByUsername(context.Background(), "jane")
		require.NoError(t, err)
		assert.Equal(t, user.StatusPending, usr.Status)
		assert.NotContains(t, rec.Body.String(), "plainPassword")
	})
}

func Test_authApi_login(t *testing.T) {
	app, c := setup(t)
	testutil.CreateUser(t, c.UserSvc, "Pending", "pending", "pass", false)

	tests := []httpTest{
		{
			name: "empty", method: http.MethodPost, path: "/v1/auth/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/auth/login",
			body:     marchallObj(t, LoginRequest{Username: adminUname, Password: "nope"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "unknown user", method: http.MethodPost, path: "/v1/auth/login",
			body:     marchallObj(t, LoginRequest{Username: "ghost", Password: "nope"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "pending approval", method: http.MethodPost, path: "/v1/auth/login",
			body:     marchallObj(t, LoginRequest{Username: "pending", Password: "pass"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: user.ErrPendingApproval.Error()}),
		},
	}
	runHTTPTests(t, app, tests)

	t.Run("ok", func(t *testing.T) {
		token := login(t, app, adminUname, adminPwd)
		assert.NotEmpty(t, token)

		entries, err := c.AuditSvc.List(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, "User Login", entries[0].Action)
		assert.Equal(t, adminUname, entries[0].User)
	})
}

func Test_authApi_session(t *testing.T) {
	app, c := setup(t)
	testutil.CreateUser(t, c.UserSvc, "Officer", "officer", "pass", true)
	admin, err := c.UserSvc.GetByUsername(context.Background(), adminUname)
	require.NoError(t, err)

	t.Run("token required", func(t *testing.T) {
		runHTTPTests(t, app, []httpTest{
			{name: "me", path: "/v1/auth/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		})
	})

	t.Run("me", func(t *testing.T) {
		token := login(t, app, adminUname, adminPwd)
		runHTTPTests(t, app, []httpTest{
			{name: "me", path: "/v1/auth/me", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, admin.Public())},
		})
	})

	t.Run("replaced session", func(t *testing.T) {
		adminToken := login(t, app, adminUname, adminPwd)
		officerToken := login(t, app, "officer", "pass")
		runHTTPTests(t, app, []httpTest{
			{name: "old token", path: "/v1/auth/me", token: adminToken, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errExpired)},
			{name: "new token", path: "/v1/auth/me", token: officerToken, wantCode: http.StatusOK},
		})
	})

	t.Run("expired session", func(t *testing.T) {
		token := login(t, app, adminUname, adminPwd)
		start := time.Now()
		core.NowFunc = func() time.Time { return start.Add(31 * time.Minute) }
		defer func() { core.NowFunc = time.Now }()

		runHTTPTests(t, app, []httpTest{
			{name: "me", path: "/v1/auth/me", token: token, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errExpired)},
		})
	})

	t.Run("sliding session", func(t *testing.T) {
		token := login(t, app, adminUname, adminPwd)
		start := time.Now()
		defer func() { core.NowFunc = time.Now }()

		core.NowFunc = func() time.Time { return start.Add(20 * time.Minute) }
		runHTTPTests(t, app, []httpTest{{name: "at 20m", path: "/v1/auth/me", token: token, wantCode: http.StatusOK}})
		core.NowFunc = func() time.Time { return start.Add(40 * time.Minute) }
		runHTTPTests(t, app, []httpTest{{name: "at 40m", path: "/v1/auth/me", token: token, wantCode: http.StatusOK}})
	})

	t.Run("logout", func(t *testing.T) {
		token := login(t, app, adminUname, adminPwd)
		runHTTPTests(t, app, []httpTest{
			{name: "logout", method: http.MethodPost, path: "/v1/auth/logout", token: token, wantCode: http.StatusNoContent},
			{name: "me", path: "/v1/auth/me", token: token, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errExpired)},
		})

		entries, err := c.AuditSvc.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "User Logout", entries[0].Action)
		assert.Equal(t, adminUname, entries[0].User)
	})
}

func Test_authApi_changePassword(t *testing.T) {
	app, c := setup(t)
	testutil.CreateUser(t, c.UserSvc, "Officer", "officer", "pass", true)
	token := login(t, app, "officer", "pass")

	tests := []httpTest{
		{
			name: "mismatch", method: http.MethodPut, path: "/v1/auth/password", token: token,
			body:     marchallObj(t, user.PasswordChange{Password: "newpass", PasswordConfirm: "other"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "too short", method: http.MethodPut, path: "/v1/auth/password", token: token,
			body:     marchallObj(t, user.PasswordChange{Password: "abc", PasswordConfirm: "abc"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "ok", method: http.MethodPut, path: "/v1/auth/password", token: token,
			body:     marchallObj(t, user.PasswordChange{Password: "newpass", PasswordConfirm: "newpass"}),
			wantCode: http.StatusOK, wantData: marchallObj(t, SuccessResponse{Success: "Password updated successfully!"}),
		},
	}
	runHTTPTests(t, app, tests)

	assert.NotEmpty(t, login(t, app, "officer", "newpass"))
}

func Test_userApi(t *testing.T) {
	app, c := setup(t)
	ctx := context.Background()
	testutil.CreateUser(t, c.UserSvc, "Officer", "officer", "pass", true)
	testutil.CreateUser(t, c.UserSvc, "Pending", "pending", "pass", false)
	testutil.CreateUser(t, c.UserSvc, "Leaver", "leaver", "pass", true)

	t.Run("admin required", func(t *testing.T) {
		token := login(t, app, "officer", "pass")
		runHTTPTests(t, app, []httpTest{
			{name: "query", path: "/v1/users", token: token, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
			{name: "approve", method: http.MethodPost, path: "/v1/users/pending/approve", token: token, wantCode: http.StatusForbidden},
			{name: "delete", method: http.MethodDelete, path: "/v1/users/leaver", token: token, wantCode: http.StatusForbidden},
		})
	})

	token := login(t, app, adminUname, adminPwd)
	users, err := c.UserSvc.QueryAll(ctx)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "query", path: "/v1/users", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, users)},
		{
			name: "approve unknown", method: http.MethodPost, path: "/v1/users/ghost/approve", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: user.ErrNotFound.Error()}),
		},
		{name: "approve", method: http.MethodPost, path: "/v1/users/pending/approve", token: token, wantCode: http.StatusOK},
		{
			name: "delete self", method: http.MethodDelete, path: "/v1/users/admin", token: token,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "delete", method: http.MethodDelete, path: "/v1/users/leaver", token: token, wantCode: http.StatusNoContent},
		{name: "delete unknown", method: http.MethodDelete, path: "/v1/users/leaver", token: token, wantCode: http.StatusNotFound},
		{
			name: "update password", method: http.MethodPut, path: "/v1/users/officer/password", token: token,
			body:     marchallObj(t, user.PasswordChange{Password: "reset", PasswordConfirm: "reset"}),
			wantCode: http.StatusOK,
		},
	}
	runHTTPTests(t, app, tests)

	usr, err := c.UserSvc.GetByUsername(ctx, "pending")
	require.NoError(t, err)
	assert.True(t, usr.IsActive())
	_, err = c.UserSvc.GetByUsername(ctx, "leaver")
	assert.Equal(t, user.ErrNotFound, err)
	assert.NotEmpty(t, login(t, app, "officer", "reset"))
}

func Test_liveAccount(t *testing.T) {
	app, c := setup(t)
	testutil.CreateUser(t, c.UserSvc, "Officer", "officer", "pass", true)
	token := login(t, app, "officer", "pass")

	// the account disappears while its session is still open
	require.NoError(t, c.UserSvc.Delete(context.Background(), "officer"))

	runHTTPTests(t, app, []httpTest{
		{name: "candidates", path: "/v1/candidates", token: token, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errExpired)},
	})
}
