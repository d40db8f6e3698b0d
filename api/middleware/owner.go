package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/oakfield-supplies/storefront-backend/internal/cart"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
)

const (
	userIDHeader    = "X-User-Id"
	sessionIDHeader = "X-Session-Id"
)

type contextKey string

const ctxOwner contextKey = "cart_owner"

// CartOwner resolves the cart owner from the request: an authenticated user
// id when the edge proxy forwards one, else the anonymous session id. Routes
// behind this middleware can still run ownerless; services reject ownerless
// mutations.
func CartOwner(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			owner := ownerFromHeaders(r)

			if logg != nil {
				if owner.UserID != nil {
					ctx = logg.WithUserID(ctx, owner.UserID.String())
				} else if owner.SessionID != nil {
					ctx = logg.WithSessionID(ctx, *owner.SessionID)
				}
			}

			ctx = context.WithValue(ctx, ctxOwner, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ownerFromHeaders(r *http.Request) cart.Owner {
	if raw := strings.TrimSpace(r.Header.Get(userIDHeader)); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return cart.Owner{UserID: &id}
		}
	}
	if raw := strings.TrimSpace(r.Header.Get(sessionIDHeader)); raw != "" {
		return cart.Owner{SessionID: &raw}
	}
	return cart.Owner{}
}

// WithOwner stores an owner on the context directly, bypassing the header
// resolution CartOwner performs.
func WithOwner(ctx context.Context, owner cart.Owner) context.Context {
	return context.WithValue(ctx, ctxOwner, owner)
}

// OwnerFromContext returns the cart owner resolved by CartOwner.
func OwnerFromContext(ctx context.Context) cart.Owner {
	if ctx == nil {
		return cart.Owner{}
	}
	if owner, ok := ctx.Value(ctxOwner).(cart.Owner); ok {
		return owner
	}
	return cart.Owner{}
}
