package tasks

import (
	"context"
	"os"
)

type launchDirKey struct{}

// WithLaunchDir attaches the launch directory a task runs in to ctx.
func WithLaunchDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, launchDirKey{}, dir)
}

// LaunchDir returns the launch directory from ctx, falling back to the
// process working directory when none was attached.
func LaunchDir(ctx context.Context) (string, error) {
	if dir, ok := ctx.Value(launchDirKey{}).(string); ok && dir != "" {
		return dir, nil
	}
	return os.Getwd()
}
