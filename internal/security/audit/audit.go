package audit

import (
	"context"
	"log/slog"
	"time"
)

// Logger records security-relevant actions as structured log events
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, userID, action, resource, resourceID, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("details", details),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogSignIn(ctx context.Context, userID, status string) {
	al.LogAction(ctx, userID, "sign_in", "session", "", status, "")
}

func (al *Logger) LogSignOut(ctx context.Context, userID string) {
	al.LogAction(ctx, userID, "sign_out", "session", "", "ok", "")
}

func (al *Logger) LogRoleChange(ctx context.Context, actorID, targetID, newRole string) {
	al.LogAction(ctx, actorID, "role_change", "profile", targetID, "ok", "new role: "+newRole)
}

func (al *Logger) LogDelete(ctx context.Context, userID, resource, resourceID, status string) {
	al.LogAction(ctx, userID, "delete", resource, resourceID, status, "")
}

func (al *Logger) LogDenied(ctx context.Context, userID, reason string) {
	al.LogAction(ctx, userID, "access_denied", "api", "", "denied", reason)
}
