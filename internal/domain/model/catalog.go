package model

import "time"

type Species struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Breed struct {
	ID        int64     `json:"id"`
	SpeciesID int64     `json:"species_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
