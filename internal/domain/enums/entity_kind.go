package enums

type EntityKind string

const (
	EntityKindAdRequest EntityKind = "ad_request"
	EntityKindSeller    EntityKind = "seller"
	EntityKindPet       EntityKind = "pet"
	EntityKindReport    EntityKind = "report"
)

func EntityKinds() []EntityKind {
	return []EntityKind{EntityKindAdRequest, EntityKindSeller, EntityKindPet, EntityKindReport}
}
