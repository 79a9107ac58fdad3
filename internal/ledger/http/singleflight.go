package http

import (
	"context"
)

// buildShared runs fn once per key among concurrent callers of the same
// handler. A cancelled ctx abandons the wait, not the build.
func (h *Handler) buildShared(ctx context.Context, key string, fn func() (interface{}, error)) (interface{}, error, bool) {
	resultChan := h.builds.DoChan(key, fn)
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}
