package cmd

import (
	"context"
	"errors"
	"sync"

	"github.com/pterm/pterm"

	"github.com/taskbuddy/taskbuddy-go/internal/client"
	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
	"github.com/taskbuddy/taskbuddy-go/internal/core/service"
	"github.com/taskbuddy/taskbuddy-go/internal/pkg/config"
	"github.com/taskbuddy/taskbuddy-go/internal/realtime"
	"github.com/taskbuddy/taskbuddy-go/internal/storage"
	"github.com/taskbuddy/taskbuddy-go/pkg/logger"
)

// app lazily wires the shared dependency graph: config, credential store,
// HTTP client and session service. Commands reach it through the helpers
// below so every one of them observes the same session state.
type app struct {
	once sync.Once
	err  error

	cfg     *config.Client
	store   *storage.FileStore
	api     *client.Client
	session *service.SessionService
}

var shared app

func (a *app) init() {
	a.once.Do(func() {
		cfg, err := config.LoadClient()
		if err != nil {
			a.err = err
			return
		}
		if apiURLFlag != "" {
			cfg.APIURL = apiURLFlag
		}
		log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

		store, err := storage.NewFileStore(cfg.CredentialsDir)
		if err != nil {
			a.err = err
			return
		}

		api := client.New(cfg.APIURL, store,
			client.WithLogger(log),
			client.WithUnauthorizedHook(func() {
				pterm.Warning.Println("Session expired. Please login again.")
			}),
		)

		a.cfg = cfg
		a.store = store
		a.api = api
		a.session = service.NewSessionService(api, store,
			service.WithSessionLogger(log))
	})
}

// apiClient returns the shared HTTP client.
func apiClient() (*client.Client, error) {
	shared.init()
	return shared.api, shared.err
}

// sessionService returns the shared session store with the startup probe
// resolved.
func sessionService(ctx context.Context) (*service.SessionService, error) {
	shared.init()
	if shared.err != nil {
		return nil, shared.err
	}
	shared.session.Probe(ctx)
	return shared.session, nil
}

// wsBase returns the realtime endpoint base derived from configuration.
func wsBase() (string, error) {
	shared.init()
	if shared.err != nil {
		return "", shared.err
	}
	if shared.cfg.WSURL != "" {
		return shared.cfg.WSURL, nil
	}
	return realtime.WSBaseFromAPI(shared.cfg.APIURL), nil
}

// requireAuth resolves the session and fails when the caller is signed out.
func requireAuth(ctx context.Context) (*domain.Session, error) {
	sess, err := sessionService(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, errors.New("not signed in; run `taskbuddy auth login` first")
	}
	return sess.Current(), nil
}

// requireRole additionally enforces a role gate, mirroring the guarded
// views of the web client.
func requireRole(ctx context.Context, roles ...domain.Role) (*domain.Session, error) {
	current, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if !service.Allowed(current, roles) {
		return nil, errors.New(service.DenialReason(current, roles))
	}
	return current, nil
}
