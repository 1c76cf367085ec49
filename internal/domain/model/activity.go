package model

import (
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
)

type Activity struct {
	ID        int64                `json:"id"`
	Kind      enums.EntityKind     `json:"kind"`
	EntityID  int64                `json:"entity_id"`
	Action    enums.ActivityAction `json:"action"`
	ActorID   int64                `json:"actor_id,omitempty"`
	Summary   string               `json:"summary,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type DashboardStats struct {
	TotalUsers        int `json:"total_users"`
	TotalSellers      int `json:"total_sellers"`
	PendingSellers    int `json:"pending_sellers"`
	PendingPets       int `json:"pending_pets"`
	VerifiedPets      int `json:"verified_pets"`
	PendingAdRequests int `json:"pending_ad_requests"`
	PendingReports    int `json:"pending_reports"`
	TotalReports      int `json:"total_reports"`
}
