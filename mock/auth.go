package mock

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/dynohub/addons/pkg/api"
)

type ctxKey int

const (
	bundleCtxKey ctxKey = iota
	tenantCtxKey
)

// TenantKey derives the tenant key from an Authorization header value:
// the trailing segment of the base64-decoded credential. An empty or
// undecodable header yields ErrNoCredentials.
func TenantKey(authorization string) (string, error) {
	if authorization == "" {
		return "", ErrNoCredentials
	}

	parts := strings.Fields(authorization)
	if len(parts) == 0 {
		return "", ErrNoCredentials
	}
	raw, err := base64.StdEncoding.DecodeString(parts[len(parts)-1])
	if err != nil {
		return "", ErrNoCredentials
	}

	decoded := string(raw)
	key := decoded[strings.LastIndexByte(decoded, ':')+1:]
	if key == "" {
		return "", ErrNoCredentials
	}
	return key, nil
}

// authenticator rejects credential-less requests before any route
// matches, then resolves the tenant's bundle and stashes it on the
// request context for the handlers.
func authenticator(store *Store, api *api.API) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			tenant, err := TenantKey(r.Header.Get("Authorization"))
			if err != nil {
				api.Err(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), tenantCtxKey, tenant)
			ctx = context.WithValue(ctx, bundleCtxKey, store.Bundle(tenant))
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// BundleFromContext returns the tenant bundle the authenticator resolved.
func BundleFromContext(ctx context.Context) *Bundle {
	b, _ := ctx.Value(bundleCtxKey).(*Bundle)
	return b
}

// TenantFromContext returns the tenant key the authenticator resolved.
func TenantFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tenantCtxKey).(string)
	return t
}
