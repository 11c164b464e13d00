package user

import (
	"context"
	"time"

	"github.com/trezcool/gce/core"
)

// Session is the single logged-in state of the registry.
type Session struct {
	ID     string    `json:"id"`
	User   User      `json:"user"`
	Expiry time.Time `json:"expiry"` // UTC
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.Expiry)
}

func loadSession(ctx context.Context, store core.Store) (Session, bool, error) {
	var sess Session
	found, err := core.LoadJSON(ctx, store, core.KeySession, &sess)
	return sess, found, err
}

// SessionActor returns the username of the live session, without sliding its expiry.
func SessionActor(store core.Store) func(ctx context.Context) string {
	return func(ctx context.Context) string {
		sess, found, err := loadSession(ctx, store)
		if err != nil || !found || sess.Expired(core.NowFunc()) {
			return ""
		}
		return sess.User.Username
	}
}
