package logging

import (
	"context"
)

// WrapCtx returns a child context whose logging context also holds key=val.
func WrapCtx(ctx context.Context, key, val string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	mapCtx := make(map[string]string)
	if original, ok := ctx.Value(CtxValLoggingContext).(map[string]string); ok {
		for k, v := range original {
			mapCtx[k] = v
		}
	}
	mapCtx[key] = val
	return context.WithValue(ctx, CtxValLoggingContext, mapCtx)
}
