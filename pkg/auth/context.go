package auth

import "context"

type contextKey string

const claimsKey contextKey = "jwt_claims"

// AddClaimsToContext stores validated claims in ctx.
func AddClaimsToContext(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims stored by RequireToken.
func ClaimsFromContext(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*UserClaims)
	return claims, ok && claims != nil
}

// UsernameFromContext returns the authenticated user or "anonymous".
func UsernameFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.Username
	}
	return "anonymous"
}
