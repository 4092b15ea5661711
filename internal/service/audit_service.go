package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/session-token-service/internal/events"
)

// AuditService writes session lifecycle events to the audit log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(a.handle, events.EventUserRegistered, events.EventSessionIssued, events.EventSessionRevoked)
	a.dispatcher.Subscribe(a.handleLoginFailed, events.EventLoginFailed)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("email", event.Email),
		zap.String("role", string(event.Role)),
		zap.Time("occurred_at", event.OccurredAt),
		zap.Any("payload", event.Payload),
	)
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	a.logger.Warn(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("email", event.Email),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
