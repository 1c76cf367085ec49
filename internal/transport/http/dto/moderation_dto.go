package dto

type RejectReasonResponse struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Text  string `json:"text"`
}
