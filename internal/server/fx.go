package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sysnyx/syspay/internal/config"
)

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(registerHTTP),
)

func registerHTTP(lc fx.Lifecycle, s *Server, cfg *config.Config, log *zap.Logger) {
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})
}
