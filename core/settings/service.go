package settings

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
)

type Service struct {
	store    core.Store
	auditor  core.Auditor
	validate *validator.Validate
}

func NewService(store core.Store, auditor core.Auditor, validate *validator.Validate) *Service {
	return &Service{store: store, auditor: auditor, validate: validate}
}

// Init seeds the default settings when none are stored yet.
func (svc *Service) Init(ctx context.Context) error {
	var s Settings
	found, err := core.LoadJSON(ctx, svc.store, core.KeySettings, &s)
	if err != nil || found {
		return err
	}
	return core.SaveJSON(ctx, svc.store, core.KeySettings, Default())
}

// Get returns the stored settings, or the defaults when none are stored.
func (svc *Service) Get(ctx context.Context) (Settings, error) {
	s := Default()
	if _, err := core.LoadJSON(ctx, svc.store, core.KeySettings, &s); err != nil {
		return Default(), errors.Wrap(err, "loading settings")
	}
	return s, nil
}

func (svc *Service) Save(ctx context.Context, s Settings) (Settings, error) {
	if err := s.Validate(svc.validate); err != nil {
		return Settings{}, err
	}
	if err := core.SaveJSON(ctx, svc.store, core.KeySettings, s); err != nil {
		return Settings{}, err
	}
	svc.auditor.Log(ctx, "System settings updated")
	return s, nil
}

// Reset restores the default schedule.
func (svc *Service) Reset(ctx context.Context) (Settings, error) {
	return svc.Save(ctx, Default())
}
