package auditlog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/discoveryevent/ticketing-backend/internal/apperr"
)

type Service interface {
	LogAction(ctx context.Context, entry Entry) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LogAction writes one audit row. Called with a transactional ctx the row
// commits or rolls back with the mutation it describes.
func (s *service) LogAction(ctx context.Context, entry Entry) error {
	if entry.Details == nil {
		entry.Details = make(map[string]interface{})
	}

	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return s.repo.Create(ctx, &AuditLog{
		OrganizerID: entry.OrganizerID,
		EventID:     entry.EventID,
		Action:      entry.Action,
		Details:     detailsJSON,
		IPAddress:   entry.IP,
	})
}

func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, error) {
	filter.Action = strings.ToUpper(strings.TrimSpace(filter.Action))
	logs, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence("Error fetching audit logs", err)
	}
	if logs == nil {
		logs = []AuditLogResponse{}
	}
	return logs, nil
}
