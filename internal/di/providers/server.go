package providers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/shelfwise/shelfwise-server/internal/api"
	"github.com/shelfwise/shelfwise-server/internal/config"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer builds the API handler and starts listening in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:   do.MustInvoke[*service.AuthService](i),
		Book:   do.MustInvoke[*service.BookService](i),
		Review: do.MustInvoke[*service.ReviewService](i),
	}

	handler := api.NewServer(api.Config{
		Environment:   cfg.App.Environment,
		CORSOrigins:   cfg.Server.CORSOrigins,
		TrustProxy:    cfg.Server.TrustProxy,
		AuthRateLimit: cfg.Auth.RateLimit,
		AuthRateBurst: cfg.Auth.RateBurst,
	}, services, storeHandle.Store, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Bind synchronously so a taken port fails startup instead of a log line.
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		handler.Close()
		return nil, err
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "environment", cfg.App.Environment)

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
