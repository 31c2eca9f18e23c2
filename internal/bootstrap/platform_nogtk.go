//go:build !gtk

package bootstrap

import (
	"context"
	"errors"

	"github.com/bnema/panehost/internal/config"
)

// ErrGTKUnavailable is returned when the gtk platform is selected in a build
// without the gtk tag.
var ErrGTKUnavailable = errors.New("gtk platform not compiled in (rebuild with -tags gtk)")

func newGTKPlatform(context.Context, *config.Config) (Platform, error) {
	return nil, ErrGTKUnavailable
}
