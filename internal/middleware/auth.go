package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// MemberKey is the context key for storing the authenticated member name.
const MemberKey contextKey = "member"

// GetMember extracts the member name from the context.
// Returns empty string if not found.
func GetMember(ctx context.Context) string {
	member, _ := ctx.Value(MemberKey).(string)
	return member
}

// WithMember returns a context carrying the member name.
func WithMember(ctx context.Context, member string) context.Context {
	return context.WithValue(ctx, MemberKey, member)
}

// RequireAuth rejects calls without a valid "Authorization: Bearer" token
// and puts the token's member on the context for the handlers.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			header := strings.TrimSpace(req.Header().Get("Authorization"))
			if header == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(strings.TrimSpace(token))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(WithMember(ctx, claims.Member), req)
		}
	}
}
