package identity

import "context"

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

// WithPrincipal installs the request's principal into the context. Exactly
// one principal (possibly anonymous) is attached per request; re-installing
// simply replaces it, so middleware stays idempotent.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// CurrentPrincipal returns the principal installed for this request, or the
// anonymous principal when none was installed.
func CurrentPrincipal(ctx context.Context) Principal {
	if p, ok := ctx.Value(ctxKeyPrincipal).(Principal); ok {
		return p
	}
	return Principal{}
}
