// Package besteffort runs optional sub-operations whose failure must degrade
// the enclosing result instead of failing it.
package besteffort

import (
	"context"

	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
)

// Try runs fn and returns a pointer to its value, or nil when fn fails.
// The error is logged under label and never propagated.
func Try[T any](ctx context.Context, label string, fn func(context.Context) (T, error)) *T {
	v, err := fn(ctx)
	if err != nil {
		logger.Warnf("best-effort %s failed: %v", label, err)
		return nil
	}
	return &v
}

// Do is Try for operations without a result. It reports whether fn succeeded.
func Do(ctx context.Context, label string, fn func(context.Context) error) bool {
	if err := fn(ctx); err != nil {
		logger.Warnf("best-effort %s failed: %v", label, err)
		return false
	}
	return true
}
