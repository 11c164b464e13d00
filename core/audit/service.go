package audit

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
)

// ActorFunc names whoever is acting in ctx, or "" when nobody is.
type ActorFunc func(ctx context.Context) string

type Service struct {
	store  core.Store
	actor  ActorFunc
	logger core.Logger
	mutex  sync.Mutex
}

var _ core.Auditor = (*Service)(nil)

func NewService(store core.Store, actor ActorFunc, logger core.Logger) *Service {
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Service{store: store, actor: actor, logger: logger}
}

// Log prepends an entry attributed to the current actor.
// Store failures are logged and swallowed so they never block the action being described.
// An unreadable trail is left untouched rather than overwritten.
func (svc *Service) Log(ctx context.Context, action string) {
	usr := SystemActor
	if svc.actor != nil {
		if name := svc.actor(ctx); name != "" {
			usr = name
		}
	}

	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	entries, err := svc.list(ctx)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("audit: dropped %q", action), err)
		return
	}
	entry := Entry{Timestamp: core.NowFunc().UTC(), Action: action, User: usr}
	entries = append([]Entry{entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	if err = core.SaveJSON(ctx, svc.store, core.KeyLogs, entries); err != nil {
		svc.logger.Warn(fmt.Sprintf("audit: dropped %q", action), err)
	}
}

func (svc *Service) list(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if _, err := core.LoadJSON(ctx, svc.store, core.KeyLogs, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// List returns the trail newest first.
func (svc *Service) List(ctx context.Context) ([]Entry, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	entries, err := svc.list(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing audit log")
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func (svc *Service) Clear(ctx context.Context) error {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	return core.SaveJSON(ctx, svc.store, core.KeyLogs, []Entry{})
}
