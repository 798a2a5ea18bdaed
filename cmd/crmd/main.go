package main

import (
	"context"
	"log"
	"time"

	"crmd/internal/config"
	"crmd/internal/infra/auth/rbac"
	"crmd/internal/infra/db"
	httpinfra "crmd/internal/infra/http"
	"crmd/internal/infra/settingscache"
	"crmd/internal/infra/token"
	"crmd/internal/usecase"
)

func main() {
	cfg := config.FromEnv()

	store, err := db.NewStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	codec, err := token.NewCodec(cfg.JWTSecret, time.Duration(cfg.JWTLifetimeMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	principals := db.NewPrincipalRepository(store.DB)
	memberships := db.NewMembershipRepository(store.DB)
	settingsRepo := db.NewSettingsRepository(store.DB)
	roles := db.NewRoleRepository(store.DB)

	if store.DB != nil {
		if err := rbac.CheckRoleTable(context.Background(), roles); err != nil {
			log.Fatalf("role table check: %v", err)
		}
	}

	var cacheClient settingscache.Client
	if cfg.RedisAddr != "" {
		cacheClient, err = settingscache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("settings cache: %v", err)
		}
	} else {
		log.Printf("REDIS_ADDR not set; using in-process settings cache.")
		cacheClient = settingscache.NewMemory()
	}
	cache := settingscache.New(settingsRepo, cacheClient, time.Duration(cfg.SettingsCacheTTLSeconds)*time.Second)

	srv := httpinfra.NewServer(cfg, httpinfra.ServerDeps{
		Codec:      codec,
		Authorizer: rbac.NewAuthorizer(),
		Auth:       usecase.NewAuthService(principals, memberships, codec),
		Settings:   usecase.NewSettingsService(cache),
		Members:    usecase.NewMemberService(memberships),
	})
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
