package http

import (
	"log"
	"net/http"
	"strings"
	"time"

	"crmd/internal/domain"
	"crmd/internal/infra/auth/rbac"

	"github.com/gin-gonic/gin"
)

const identityContextKey = "identity"

// requireAuth is the per-request authorization gate: extract the bearer
// token, verify it, evaluate the requirement and attach the identity to the
// request. Every token failure looks identical to the caller; the kind is
// kept for the log only.
func (s *Server) requireAuth(c *gin.Context, req rbac.Requirement) (domain.Identity, bool) {
	raw := extractBearerToken(c.GetHeader("Authorization"))
	if raw == "" {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return domain.Identity{}, false
	}
	identity, err := s.codec.Verify(raw, time.Now())
	if err != nil {
		log.Printf("token rejected: %v", err)
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token")
		return domain.Identity{}, false
	}
	if err := s.authz.Require(identity, req); err != nil {
		writeAuthzError(c, err)
		return domain.Identity{}, false
	}
	c.Set(identityContextKey, identity)
	return identity, true
}

// requireTenant guards handlers that take a tenant id from the path: it
// must match the tenant the token was issued for.
func (s *Server) requireTenant(c *gin.Context, identity domain.Identity, tenantID string) bool {
	if err := rbac.RequireTenant(identity, tenantID); err != nil {
		writeAuthzError(c, err)
		return false
	}
	return true
}

func extractBearerToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(value), "bearer ") {
		return ""
	}
	return strings.TrimSpace(value[len("bearer "):])
}

func getIdentity(c *gin.Context) (domain.Identity, bool) {
	raw, ok := c.Get(identityContextKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := raw.(domain.Identity)
	return identity, ok
}

func writeAuthzError(c *gin.Context, err error) {
	if authz, ok := rbac.IsAuthzError(err); ok {
		details := map[string]any{
			"current_role": string(authz.Actual),
			"tenant_id":    authz.TenantID,
		}
		if len(authz.Required) > 0 {
			required := make([]string, 0, len(authz.Required))
			for _, r := range authz.Required {
				required = append(required, string(r))
			}
			details["required_roles"] = required
		}
		c.JSON(http.StatusForbidden, errorResponse{
			Code:    authz.Code,
			Message: "you do not have permission for this action",
			Details: details,
		})
		return
	}
	if err == domain.ErrUnauthenticated {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	writeError(c, err)
}
