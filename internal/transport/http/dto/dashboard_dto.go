package dto

import "time"

type DashboardStatsResponse struct {
	TotalUsers        int `json:"totalUsers"`
	TotalSellers      int `json:"totalSellers"`
	PendingSellers    int `json:"pendingSellers"`
	PendingPets       int `json:"pendingPets"`
	VerifiedPets      int `json:"verifiedPets"`
	PendingAdRequests int `json:"pendingAdRequests"`
	PendingReports    int `json:"pendingReports"`
	TotalReports      int `json:"totalReports"`
}

type ActivityResponse struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	EntityID  int64     `json:"entityId"`
	Action    string    `json:"action"`
	ActorID   int64     `json:"actorId,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
