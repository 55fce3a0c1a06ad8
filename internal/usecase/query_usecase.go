package usecase

import (
	"storefront/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrNoSession is returned by user-scoped queries when nobody is signed in.
var ErrNoSession = errors.New("no signed-in user")

// QueryState is what a watcher of a cached query sees.
type QueryState struct {
	Data    entity.Body
	Err     error
	Loading bool // no response has landed yet
	Stale   bool
}
