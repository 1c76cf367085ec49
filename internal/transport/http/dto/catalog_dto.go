package dto

type NameRequest struct {
	Name string `json:"name"`
}

type SpeciesResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BreedResponse struct {
	ID        int64  `json:"id"`
	SpeciesID int64  `json:"speciesId"`
	Name      string `json:"name"`
}
