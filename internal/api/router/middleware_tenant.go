package router

import (
	"net/http"
	"strings"

	"github.com/IgorAcender/AIGenda-sub001/internal/tenancy"
)

const tenantHeader = "X-Tenant-Id"

// requireTenantID enforces the multi-tenancy header on API requests and
// threads the tenant id through the request context.
func requireTenantID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := strings.TrimSpace(r.Header.Get(tenantHeader))
		if tenantID == "" {
			http.Error(w, "missing X-Tenant-Id", http.StatusBadRequest)
			return
		}
		ctx := tenancy.WithTenantID(r.Context(), tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
