// Package testutil holds helpers shared by the app tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/gce/apps/container"
	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/candidate"
	"github.com/trezcool/gce/core/user"
	"github.com/trezcool/gce/storage/kvstore"
	"github.com/trezcool/gce/storage/kvstore/memstore"
)

// Config returns a test configuration over the in-memory store.
func Config() *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "GCE Registry",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
		},
		Session: core.SessionConfig{TTL: 30 * time.Minute},
		Auth:    core.AuthConfig{Hash: "md5"},
		Store:   core.StoreConfig{Driver: "memory"},
		Log:     core.LogConfig{Level: "disabled"},
	}
}

// NewContainer returns seeded services over a fresh in-memory store.
// A positive quota wraps the store with that many bytes.
func NewContainer(t *testing.T, quota ...int64) *container.Container {
	conf := Config()
	var store core.Store = memstore.Open()
	if len(quota) > 0 {
		conf.Store.QuotaBytes = quota[0]
		store = kvstore.WithQuota(store, quota[0])
	}
	c := container.NewWithStore(conf, nil, store)
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	return c
}

// CreateUser signs up an officer, approving the account when active is set.
func CreateUser(t *testing.T, svc *user.Service, name, uname, pwd string, active bool) user.User {
	ctx := context.Background()
	usr, err := svc.Signup(ctx, user.NewUser{Name: name, Username: uname, NRC: uname + "/00/1", Password: pwd})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if active {
		if usr, err = svc.Approve(ctx, uname); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	return usr
}

// CreateCandidate registers a candidate for subjects with nothing paid.
func CreateCandidate(t *testing.T, svc *candidate.Service, surname, nrc string, subjects ...string) candidate.Candidate {
	c, err := svc.Save(context.Background(), candidate.Registration{
		Surname:  surname,
		NRC:      nrc,
		Subjects: subjects,
	}, "admin")
	if err != nil {
		t.Fatalf("CreateCandidate() failed: %v", err)
	}
	return c
}
