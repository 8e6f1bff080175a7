package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/project-forms/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/redis/go-redis/v9"
)

// purgeInterval is how often stores without native expiry drop expired records.
const purgeInterval = 10 * time.Minute

// SessionModule records the sessions issued to newly registered users.
type SessionModule struct {
	cfg      config.Config
	store    Store
	service  *Service
	stopChan chan struct{}
	doneChan chan struct{}
}

// Compile-time interface checks.
var _ mono.Module = (*SessionModule)(nil)
var _ mono.ServiceProviderModule = (*SessionModule)(nil)
var _ mono.HealthCheckableModule = (*SessionModule)(nil)

// NewModule creates a new SessionModule.
func NewModule(cfg config.Config) *SessionModule {
	return &SessionModule{
		cfg: cfg,
	}
}

// Name returns the module name.
func (m *SessionModule) Name() string {
	return "session"
}

// Start opens the configured session store.
func (m *SessionModule) Start(ctx context.Context) error {
	switch m.cfg.SessionStore {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr: m.cfg.RedisAddr,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return fmt.Errorf("failed to connect to redis at %s: %w", m.cfg.RedisAddr, err)
		}
		m.store = NewRedisStore(client, "session:")
	default:
		store, err := OpenSQLite(m.cfg.SessionDBPath)
		if err != nil {
			return err
		}
		m.store = store
	}

	m.service = NewService(m.store, m.cfg.SessionTTL)

	if purger, ok := m.store.(Purger); ok {
		m.stopChan = make(chan struct{})
		m.doneChan = make(chan struct{})
		go m.purge(purger)
	}

	log.Printf("[session] Module started (store: %s)", m.storeDescription())
	return nil
}

// purge periodically removes expired records from the store.
func (m *SessionModule) purge(purger Purger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	defer close(m.doneChan)

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			removed, err := purger.Purge(context.Background(), time.Now())
			if err != nil {
				log.Printf("[session] Warning: %v", err)
			} else if removed > 0 {
				log.Printf("[session] Purged %d expired sessions", removed)
			}
		}
	}
}

// Stop closes the session store.
func (m *SessionModule) Stop(_ context.Context) error {
	if m.stopChan != nil {
		close(m.stopChan)
		<-m.doneChan
		m.stopChan = nil
	}
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			log.Printf("[session] Warning: failed to close store: %v", err)
		}
	}
	log.Println("[session] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *SessionModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "session store not initialized",
		}
	}

	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("session store ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"store": m.storeDescription(),
		},
	}
}

func (m *SessionModule) storeDescription() string {
	if m.cfg.SessionStore == config.SessionStoreRedis {
		return "redis " + m.cfg.RedisAddr
	}
	return "sqlite " + m.cfg.SessionDBPath
}

// RegisterServices registers request-reply services in the service container.
func (m *SessionModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"login",
		json.Unmarshal,
		json.Marshal,
		m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"get-session",
		json.Unmarshal,
		json.Marshal,
		m.handleGetSession,
	); err != nil {
		return fmt.Errorf("failed to register get-session service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"logout",
		json.Unmarshal,
		json.Marshal,
		m.handleLogout,
	); err != nil {
		return fmt.Errorf("failed to register logout service: %w", err)
	}

	log.Printf("[session] Registered services: login, get-session, logout")
	return nil
}

// handleLogin records a session.
func (m *SessionModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	record, err := m.service.Login(ctx, req.Session)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		SessionID: record.ID,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// handleGetSession looks up a session. A missing session is a normal reply.
func (m *SessionModule) handleGetSession(ctx context.Context, req GetSessionRequest, _ *mono.Msg) (GetSessionResponse, error) {
	record, err := m.service.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return GetSessionResponse{Found: false}, nil
		}
		return GetSessionResponse{}, err
	}

	out := *record
	out.Token = ""
	return GetSessionResponse{Found: true, Session: out}, nil
}

// handleLogout removes a session.
func (m *SessionModule) handleLogout(ctx context.Context, req LogoutRequest, _ *mono.Msg) (LogoutResponse, error) {
	if err := m.service.Logout(ctx, req.ID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return LogoutResponse{Removed: false}, nil
		}
		return LogoutResponse{}, err
	}
	return LogoutResponse{Removed: true}, nil
}
