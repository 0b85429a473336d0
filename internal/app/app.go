// Package app wires configuration into the controllers shared by the HTTP
// bridge and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/salonbook/salonbook/internal/auth"
	"github.com/salonbook/salonbook/internal/booking"
	"github.com/salonbook/salonbook/internal/config"
	"github.com/salonbook/salonbook/internal/database"
	"github.com/salonbook/salonbook/internal/gateway"
	"github.com/salonbook/salonbook/internal/oidc"
	"github.com/salonbook/salonbook/internal/reservations"
	"github.com/salonbook/salonbook/internal/screens"
	"github.com/salonbook/salonbook/internal/sessions"
	"github.com/salonbook/salonbook/internal/users"
	"github.com/salonbook/salonbook/pkg/logger"
	"github.com/salonbook/salonbook/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

const connectAttempts = 5

// App holds the wired dependencies. Close releases connections.
type App struct {
	Config   *config.Config
	Sessions *sessions.Service
	Identity gateway.IdentityProvider
	Tables   gateway.TableBackend
	Verifier middleware.Verifier
	Deps     screens.Deps

	// Health reports which optional connections are up, for readiness.
	Health map[string]bool

	mongo   *mongo.Client
	closers []func()
}

// New builds the application from cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Health: map[string]bool{}}

	store, err := a.sessionStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Sessions = sessions.NewService(store)

	var memory *gateway.MemoryBackend
	if cfg.Tables.Driver == "memory" {
		memory = gateway.NewMemoryBackend(cfg.Backend.JWTSecret)
		a.Identity = memory
		logger.Warn("using the in-memory backend; nothing is sent to the hosted backend")
	} else {
		a.Identity = gateway.New(gateway.Config{
			URL:         cfg.Backend.URL,
			APIKey:      cfg.Backend.APIKey,
			HTTPClient:  &http.Client{Timeout: cfg.Backend.Timeout},
			AccessToken: a.Sessions.Token,
		})
	}

	if a.Tables, err = a.tables(ctx, memory); err != nil {
		a.Close()
		return nil, err
	}

	backend := cfg.Backend
	if memory != nil {
		backend = config.BackendConfig{JWTSecret: memory.Secret()}
	}
	a.Verifier = oidc.FromConfig(ctx, backend)

	a.Deps = screens.Deps{
		Auth:         auth.NewController(a.Identity, a.Sessions),
		Users:        users.NewService(a.Identity, a.Sessions, users.AdminPolicy{Role: cfg.Admin.Role, UserID: cfg.Admin.UserID}),
		Reservations: reservations.NewRepository(a.Tables),
		Validator:    booking.NewValidator(nil),
	}
	logger.Debugf("app wired: sessions=%s tables=%s", cfg.Session.Driver, cfg.Tables.Driver)
	return a, nil
}

func (a *App) sessionStore(ctx context.Context) (sessions.Store, error) {
	cfg := a.Config
	switch cfg.Session.Driver {
	case "", "file":
		logger.Debugf("session file: %s", cfg.Session.Path)
		return sessions.NewFileStore(cfg.Session.Path), nil
	case "memory":
		return sessions.NewMemoryStore(), nil
	case "redis":
		if cfg.Redis.Host == "" {
			return nil, fmt.Errorf("SESSION_DRIVER=redis needs REDIS_HOST")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			a.Health["redis"] = false
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		a.Health["redis"] = true
		logger.Infof("Using Redis for session storage: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		return sessions.NewRedisStore(client, cfg.Session.RedisKey), nil
	case "mongo":
		client, err := a.mongoClient(ctx)
		if err != nil {
			return nil, err
		}
		return sessions.NewMongoStore(client.Database(cfg.MongoDB.Database).Collection("prefs"), cfg.Session.RedisKey), nil
	}
	return nil, fmt.Errorf("unknown SESSION_DRIVER %q", cfg.Session.Driver)
}

func (a *App) tables(ctx context.Context, memory *gateway.MemoryBackend) (gateway.TableBackend, error) {
	cfg := a.Config
	switch cfg.Tables.Driver {
	case "", "rest":
		return a.Identity.(*gateway.Client), nil
	case "memory":
		return memory, nil
	case "mongo":
		client, err := a.mongoClient(ctx)
		if err != nil {
			return nil, err
		}
		return gateway.NewMongoTables(client.Database(cfg.MongoDB.Database)), nil
	case "postgres":
		pool, err := database.ConnectPostgres(ctx, cfg.Postgres.DSN, connectAttempts)
		if err != nil {
			a.Health["postgres"] = false
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		a.Health["postgres"] = true
		logger.Infof("Using Postgres for reservation tables")
		return gateway.NewPostgresTables(pool), nil
	}
	return nil, fmt.Errorf("unknown TABLES_DRIVER %q", cfg.Tables.Driver)
}

// mongoClient connects once; sessions and tables may share the client.
func (a *App) mongoClient(ctx context.Context) (*mongo.Client, error) {
	if a.mongo != nil {
		return a.mongo, nil
	}
	client, err := database.ConnectMongoRetry(ctx, a.Config.MongoDB.URI, a.Config.MongoDB.Timeout, connectAttempts)
	if err != nil {
		a.Health["mongodb"] = false
		return nil, err
	}
	a.mongo = client
	a.closers = append(a.closers, func() { _ = client.Disconnect(context.Background()) })
	a.Health["mongodb"] = true
	logger.Infof("Connected to MongoDB database %s", a.Config.MongoDB.Database)
	return client, nil
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
