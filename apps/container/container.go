// Package container wires every service of the registry from a configuration.
package container

import (
	"context"
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/audit"
	"github.com/trezcool/gce/core/candidate"
	"github.com/trezcool/gce/core/fee"
	"github.com/trezcool/gce/core/settings"
	"github.com/trezcool/gce/core/user"
	logsvc "github.com/trezcool/gce/services/logger"
	"github.com/trezcool/gce/storage/kvstore"
)

type Container struct {
	Conf       *core.Config
	Logger     core.Logger
	Store      core.Store
	Validate   *validator.Validate
	Translator ut.Translator

	AuditSvc     *audit.Service
	SettingsSvc  *settings.Service
	UserSvc      *user.Service
	CandidateSvc *candidate.Service
}

// NewLogger returns the zerolog logger, reporting to Rollbar when a token is configured.
func NewLogger(conf *core.Config) core.Logger {
	logsvc.Init(conf.Log.Level, conf.Log.Format)
	local := logsvc.NewZeroLogger(log.Logger)
	if conf.RollbarToken == "" {
		return local
	}
	logger := logsvc.NewRollbarLogger(local, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// New opens the configured store and builds the services over it.
func New(conf *core.Config, logger core.Logger) (*Container, error) {
	store, err := kvstore.Open(conf.Store)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q store", conf.Store.Driver)
	}
	return NewWithStore(conf, logger, store), nil
}

// NewWithStore builds the services over store.
func NewWithStore(conf *core.Config, logger core.Logger, store core.Store) *Container {
	if logger == nil {
		logger = core.NopLogger()
	}
	validate, translator := core.NewValidator()

	hasher := core.NewHasher(conf.Auth.Hash)
	if hasher == nil {
		logger.Error(fmt.Sprintf("unknown password hash %q", conf.Auth.Hash), core.ErrHasherUnavailable)
	}

	auditSvc := audit.NewService(store, user.SessionActor(store), logger)
	settingsSvc := settings.NewService(store, auditSvc, validate)
	return &Container{
		Conf:         conf,
		Logger:       logger,
		Store:        store,
		Validate:     validate,
		Translator:   translator,
		AuditSvc:     auditSvc,
		SettingsSvc:  settingsSvc,
		UserSvc:      user.NewService(store, hasher, auditSvc, validate, logger, conf.Session.TTL),
		CandidateSvc: candidate.NewService(store, settingsSvc, fee.DefaultCatalogue, auditSvc, validate),
	}
}

// Init seeds the default settings and the admin account on first run.
func (c *Container) Init(ctx context.Context) error {
	if err := c.SettingsSvc.Init(ctx); err != nil {
		return errors.Wrap(err, "seeding settings")
	}
	if err := c.UserSvc.Init(ctx); err != nil {
		return errors.Wrap(err, "seeding users")
	}
	return nil
}

// FactoryReset deletes every collection, then seeds again.
func (c *Container) FactoryReset(ctx context.Context) error {
	for _, key := range core.AllKeys {
		if err := c.Store.Delete(ctx, key); err != nil && errors.Cause(err) != core.ErrKeyNotFound {
			return errors.Wrapf(err, "deleting %s", key)
		}
	}
	c.Logger.Warn("factory reset: every collection deleted")
	return c.Init(ctx)
}

func (c *Container) Close() error {
	return c.Store.Close()
}
