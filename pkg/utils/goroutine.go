package utils

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// GoSafe runs fn in a new goroutine and recovers from panics so one bad task
// cannot take the process down.
func GoSafe(fn func()) {
	go RunSafe(fn)
}

// RunSafe runs fn in the calling goroutine, recovering and logging a panic.
func RunSafe(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Recovered from panic",
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	fn()
}

// ShouldContinue reports whether ctx is still alive.
func ShouldContinue(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}
