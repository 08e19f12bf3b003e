package logger

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the entry.
func NewContext(ctx context.Context, e *Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

// FromContext returns the entry stored in ctx, or an entry without fields.
func FromContext(ctx context.Context) *Entry {
	if e, ok := ctx.Value(ctxKey{}).(*Entry); ok && e != nil {
		return e
	}
	return &Entry{}
}
