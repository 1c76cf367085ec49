package model

import (
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
)

type Report struct {
	ID             int64                  `json:"id"`
	ReporterID     int64                  `json:"reporter_id"`
	TargetType     enums.ReportTarget     `json:"target_type"`
	TargetID       int64                  `json:"target_id"`
	Reason         enums.ReportReason     `json:"reason"`
	Details        string                 `json:"details,omitempty"`
	Status         enums.ModerationStatus `json:"status"`
	ResolutionNote string                 `json:"resolution_note,omitempty"`
	DecidedBy      *int64                 `json:"decided_by,omitempty"`
	DecidedAt      *time.Time             `json:"decided_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}
