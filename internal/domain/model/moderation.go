package model

import (
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
)

// ListFilter is a normalized queue query. An empty Status means every state.
type ListFilter struct {
	Status   enums.ModerationStatus
	Page     int
	PageSize int
	Query    string
}

func (f ListFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

type Page[E any] struct {
	Items      []E
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Transition moves a pending record into a terminal state.
type Transition struct {
	To      enums.ModerationStatus
	Reason  string
	Notes   string
	ActorID int64
	At      time.Time
}
