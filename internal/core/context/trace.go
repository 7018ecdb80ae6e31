// Package appctx carries request-scoped metadata through context.
package appctx

import (
	"context"
)

// TraceInfo holds request correlation identifiers.
type TraceInfo struct {
	TraceID   string
	RequestID string
}

type traceKey struct{}

// WithTrace stores trace info in context.
func WithTrace(ctx context.Context, info *TraceInfo) context.Context {
	return context.WithValue(ctx, traceKey{}, info)
}

// GetTrace returns trace info from context or nil.
func GetTrace(ctx context.Context) *TraceInfo {
	if info, ok := ctx.Value(traceKey{}).(*TraceInfo); ok {
		return info
	}
	return nil
}
