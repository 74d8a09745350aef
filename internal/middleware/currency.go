package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"impactseed/internal/money"
)

type currencyContextKey struct{}
type countryContextKey struct{}

var (
	CurrencyKey = currencyContextKey{}
	CountryKey  = countryContextKey{}
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// Currency resolves a default donation currency for each request from the
// caller's country (proxy headers first, then a geo lookup on the client IP),
// replacing the browser-locale guessing of the original pages. The resolved
// currency and country land in the request context.
func Currency(defaultCode string, lookup CountryLookup) func(http.Handler) http.Handler {
	fallback, err := money.Parse(defaultCode)
	if err != nil {
		fallback = money.USD()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			cur := fallback
			if country != "" {
				cur = money.ForCountry(country)
			}
			ctx := context.WithValue(r.Context(), CurrencyKey, cur)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, strings.ToUpper(country))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrencyFromContext returns the request's resolved currency, defaulting to
// USD when the middleware did not run.
func CurrencyFromContext(ctx context.Context) money.Currency {
	if v, ok := ctx.Value(CurrencyKey).(money.Currency); ok {
		return v
	}
	return money.USD()
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveCountry resolves a best-effort ISO country code for the given request.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if lookup == nil {
		return ""
	}
	ip := ClientIP(r)
	if ip == "" {
		return ""
	}
	country, err := lookup(ip)
	if err != nil {
		return ""
	}
	return strings.ToUpper(country)
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
