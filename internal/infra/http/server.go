package http

import (
	"net/http"

	"crmd/internal/config"
	"crmd/internal/infra/auth/rbac"
	"crmd/internal/infra/token"
	"crmd/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg config.Config
	r   *gin.Engine

	codec *token.Codec
	authz *rbac.Authorizer

	auth     *usecase.AuthService
	settings *usecase.SettingsService
	members  *usecase.MemberService
}

type ServerDeps struct {
	Codec      *token.Codec
	Authorizer *rbac.Authorizer
	Auth       *usecase.AuthService
	Settings   *usecase.SettingsService
	Members    *usecase.MemberService
}

func NewServer(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		r:        r,
		codec:    deps.Codec,
		authz:    deps.Authorizer,
		auth:     deps.Auth,
		settings: deps.Settings,
		members:  deps.Members,
	}
	if s.authz == nil {
		s.authz = rbac.NewAuthorizer()
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.GET("/healthz", s.handleHealth)

	v1 := s.r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", s.handleLogin)
	auth.GET("/me", s.handleMe)
	auth.POST("/switch-tenant", s.handleSwitchTenant)

	settings := v1.Group("/settings")
	settings.GET("/general", s.handleGetGeneralSettings)
	settings.PUT("/general", s.handleUpdateGeneralSettings)

	tenants := v1.Group("/tenants/:tenant_id")
	tenants.GET("/members", s.handleListMembers)
	tenants.PUT("/members/:user_id/role", s.handleChangeMemberRole)
	tenants.DELETE("/members/:user_id", s.handleRemoveMember)
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
