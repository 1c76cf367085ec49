package dto

import (
	"time"

	"github.com/petnest/petnest/internal/domain/model"
)

type ReportResponse struct {
	ID             int64      `json:"id"`
	ReporterID     int64      `json:"reporterId"`
	TargetType     string     `json:"targetType"`
	TargetID       int64      `json:"targetId"`
	Reason         string     `json:"reason"`
	Details        string     `json:"details,omitempty"`
	Status         string     `json:"status"`
	ResolutionNote string     `json:"resolutionNote,omitempty"`
	DecidedBy      *int64     `json:"decidedBy,omitempty"`
	DecidedAt      *time.Time `json:"decidedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type SubmitReportRequest struct {
	TargetType string `json:"targetType"`
	TargetID   int64  `json:"targetId"`
	Reason     string `json:"reason"`
	Details    string `json:"details"`
}

type ReportDecisionRequest struct {
	Note string `json:"note"`
}

func NewReportResponse(r model.Report) ReportResponse {
	return ReportResponse{
		ID:             r.ID,
		ReporterID:     r.ReporterID,
		TargetType:     string(r.TargetType),
		TargetID:       r.TargetID,
		Reason:         string(r.Reason),
		Details:        r.Details,
		Status:         string(r.Status),
		ResolutionNote: r.ResolutionNote,
		DecidedBy:      r.DecidedBy,
		DecidedAt:      r.DecidedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
