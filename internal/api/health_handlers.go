package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfwise/shelfwise-server/internal/api/dto"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Health check",
		Description: "Returns server status and whether the database answers a ping",
		Tags:        []string{tagHealth},
	}, handle(s, s.handleHealth))
}

func (s *Server) handleHealth(ctx context.Context, _ *struct{}) (*dto.Output[dto.HealthData], error) {
	database := healthDBOK
	if s.db == nil {
		database = healthDBUnavailable
	} else if err := s.db.Ping(ctx); err != nil {
		s.logger.WithError(err).Warn("database ping failed")
		database = healthDBUnavailable
	}

	return dto.OK(msgServerRunning, dto.HealthData{
		Status:      healthStatusOK,
		Database:    database,
		Environment: s.cfg.Environment,
	}), nil
}
