package businessflow

import (
	"context"
	"errors"

	"github.com/playvault/game-store/models"
	"github.com/playvault/game-store/repository"
)

// applyMetadata stamps client and request information onto an audit entry
func applyMetadata(audit *models.AuditLog, ctx context.Context, metadata *ClientMetadata) {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}
	audit.IPAddress = &ipAddress
	audit.UserAgent = &userAgent

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, repository.ErrDuplicateKey)
}
