package middleware

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkdeck/internal/handlers"
	"github.com/serroba/linkdeck/internal/visitor"
)

// RequestMeta is a middleware that adds client IP, user-agent, referrer, and
// the visitor-identity token to the request context. When no identity cookie
// is present it mints a token and sets the cookie on the response.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, issued := visitor.ResolveIdentity(huma.ReadCookies(ctx))
		if issued {
			ctx.AppendHeader("Set-Cookie", visitor.IdentityCookie(token).String())
		}

		meta := handlers.RequestMeta{
			ClientIP:      extractClientIP(ctx),
			UserAgent:     ctx.Header("User-Agent"),
			Referrer:      referrerHeader(ctx),
			VisitorID:     token,
			VisitorIssued: issued,
		}

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

// referrerHeader honors both header spellings.
func referrerHeader(ctx huma.Context) string {
	if referer := ctx.Header("Referer"); referer != "" {
		return referer
	}

	return ctx.Header("Referrer")
}

func extractClientIP(ctx huma.Context) string {
	// Check X-Forwarded-For first (may contain multiple IPs)
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		// Take the first IP (original client)
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP
	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to remote addr
	host := ctx.Host()
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		return host[:idx]
	}

	return host
}
