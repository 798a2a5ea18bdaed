package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"crmd/internal/domain"
	"crmd/internal/infra/auth/rbac"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type membershipResponse struct {
	TenantID   string `json:"tenant_id"`
	TenantName string `json:"tenant_name"`
	Role       string `json:"role"`
}

type loginResponse struct {
	Token         string               `json:"token"`
	CurrentTenant membershipResponse   `json:"current_tenant"`
	Tenants       []membershipResponse `json:"tenants"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	result, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	tenants := make([]membershipResponse, 0, len(result.Memberships))
	for _, m := range result.Memberships {
		tenants = append(tenants, membershipResponse{
			TenantID:   m.TenantID,
			TenantName: m.TenantName,
			Role:       string(m.Role),
		})
	}
	c.JSON(http.StatusOK, loginResponse{
		Token: result.Token,
		CurrentTenant: membershipResponse{
			TenantID:   result.CurrentTenant.TenantID,
			TenantName: result.CurrentTenant.TenantName,
			Role:       string(result.CurrentTenant.Role),
		},
		Tenants: tenants,
	})
}

func (s *Server) handleMe(c *gin.Context) {
	identity, ok := s.requireAuth(c, rbac.Requirement{})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":   identity.PrincipalID,
		"tenant_id": identity.TenantID,
		"role":      string(identity.Role),
	})
}

type switchTenantRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`
}

func (s *Server) handleSwitchTenant(c *gin.Context) {
	identity, ok := s.requireAuth(c, rbac.Requirement{})
	if !ok {
		return
	}
	var req switchTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	result, err := s.auth.SwitchTenant(c.Request.Context(), identity, req.TenantID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     result.Token,
		"tenant_id": result.TenantID,
		"role":      string(result.Role),
	})
}

type settingsResponse struct {
	TenantID         string  `json:"tenant_id"`
	Name             string  `json:"name"`
	LogoURL          *string `json:"logo_url"`
	WebsiteURL       *string `json:"website_url"`
	ShortDescription *string `json:"short_description"`
	Mission          *string `json:"mission"`
	Vision           *string `json:"vision"`
	Purpose          *string `json:"purpose"`
	CustomerProblems *string `json:"customer_problems"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func newSettingsResponse(rec *domain.GeneralSettings) settingsResponse {
	resp := settingsResponse{
		TenantID:         rec.TenantID,
		Name:             rec.Name,
		LogoURL:          rec.LogoURL,
		WebsiteURL:       rec.WebsiteURL,
		ShortDescription: rec.ShortDescription,
		Mission:          rec.Mission,
		Vision:           rec.Vision,
		Purpose:          rec.Purpose,
		CustomerProblems: rec.CustomerProblems,
	}
	if !rec.CreatedAt.IsZero() {
		resp.CreatedAt = rec.CreatedAt.Format(time.RFC3339)
	}
	if !rec.UpdatedAt.IsZero() {
		resp.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// The tenant for settings access always comes from the verified identity,
// never from the request.
func (s *Server) handleGetGeneralSettings(c *gin.Context) {
	identity, ok := s.requireAuth(c, rbac.MinRole(domain.RoleObserver))
	if !ok {
		return
	}
	rec, err := s.settings.Get(c.Request.Context(), identity.TenantID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSettingsResponse(rec))
}

type settingsUpdateRequest struct {
	Name             *string `json:"name"`
	LogoURL          *string `json:"logo_url"`
	WebsiteURL       *string `json:"website_url"`
	ShortDescription *string `json:"short_description"`
	Mission          *string `json:"mission"`
	Vision           *string `json:"vision"`
	Purpose          *string `json:"purpose"`
	CustomerProblems *string `json:"customer_problems"`
}

func (s *Server) handleUpdateGeneralSettings(c *gin.Context) {
	identity, ok := s.requireAuth(c, rbac.MinRole(domain.RoleAdmin))
	if !ok {
		return
	}
	var req settingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	patch := domain.SettingsPatch{
		Name:             req.Name,
		LogoURL:          req.LogoURL,
		WebsiteURL:       req.WebsiteURL,
		ShortDescription: req.ShortDescription,
		Mission:          req.Mission,
		Vision:           req.Vision,
		Purpose:          req.Purpose,
		CustomerProblems: req.CustomerProblems,
	}
	rec, err := s.settings.Update(c.Request.Context(), identity.TenantID, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSettingsResponse(rec))
}

type memberResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleListMembers(c *gin.Context) {
	identity, ok := s.requireAuth(c, rbac.MinRole(domain.RoleObserver))
	if !ok {
		return
	}
	tenantID := c.Param("tenant_id")
	if !s.requireTenant(c, identity, tenantID) {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	members, err := s.members.List(c.Request.Context(), identity.TenantID, page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	items := make([]memberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, memberResponse{
			UserID:    m.PrincipalID,
			Email:     m.Email,
			Role:      string(m.Role),
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (s *Server) handleChangeMemberRole(c *gin.Context) {
	identity, ok := s.requireAuth(c, rbac.AnyOf(domain.RoleOwner, domain.RoleAdmin))
	if !ok {
		return
	}
	tenantID := c.Param("tenant_id")
	if !s.requireTenant(c, identity, tenantID) {
		return
	}
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.members.ChangeRole(c.Request.Context(), identity.TenantID, c.Param("user_id"), role); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleRemoveMember(c *gin.Context) {
	identity, ok := s.requireAuth(c, rbac.MinRole(domain.RoleOwner))
	if !ok {
		return
	}
	tenantID := c.Param("tenant_id")
	if !s.requireTenant(c, identity, tenantID) {
		return
	}
	if err := s.members.Remove(c.Request.Context(), identity.TenantID, c.Param("user_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrMalformedToken):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConstraintViolation):
		status, code = http.StatusConflict, "CONSTRAINT_VIOLATION"
	case errors.Is(err, domain.ErrUnknownRole):
		status, code = http.StatusBadRequest, "UNKNOWN_ROLE"
	case errors.Is(err, domain.ErrConfig):
		status, code = http.StatusInternalServerError, "CONFIG_ERROR"
	case errors.Is(err, domain.ErrTransient):
		status, code = http.StatusServiceUnavailable, "TRANSIENT"
	}
	writeErrorCode(c, status, code, err.Error())
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}
