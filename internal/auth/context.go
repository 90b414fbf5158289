package auth

import "context"

type ctxKey string

const (
	ctxKeySub  ctxKey = "sub"
	ctxKeyName ctxKey = "name"
)

func WithSubject(ctx context.Context, sub, name string) context.Context {
	ctx = context.WithValue(ctx, ctxKeySub, sub)
	return context.WithValue(ctx, ctxKeyName, name)
}

// SubjectFromContext returns the learner's identity slug, or "".
func SubjectFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeySub).(string); ok {
		return s
	}
	return ""
}

// NameFromContext returns the learner's display name, or "".
func NameFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyName).(string); ok {
		return s
	}
	return ""
}
