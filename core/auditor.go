package core

import "context"

// Auditor records mutating actions. Log never fails the caller.
type Auditor interface {
	Log(ctx context.Context, action string)
}
