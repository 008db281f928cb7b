package middleware

import (
	"net/http"

	"go-healthcare-records/internal/domain/entity"
	"go-healthcare-records/pkg/response"
)

// RequireRole creates a middleware that rejects callers whose role is not in
// the allowed set. The principal must already be in context, so this always
// runs after Authenticate.
func RequireRole(allowedRoles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipalFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			allowed := false
			for _, role := range allowedRoles {
				if principal.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireDoctor is a convenience middleware for doctor-only endpoints
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor)(next)
}

// RequireClinicalStaff allows doctors and nurses
func RequireClinicalStaff(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor, entity.RoleNurse)(next)
}

// RequireStaff allows any authenticated staff role
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, entity.RoleDoctor, entity.RoleNurse)(next)
}
