package enums

type Placement string

const (
	PlacementHomeTopBanner   Placement = "home_top_banner"
	PlacementHomeSidebar     Placement = "home_sidebar"
	PlacementListingInline   Placement = "listing_inline"
	PlacementPetDetailBanner Placement = "pet_detail_banner"
)

func IsValidPlacement(v string) bool {
	switch Placement(v) {
	case PlacementHomeTopBanner, PlacementHomeSidebar, PlacementListingInline, PlacementPetDetailBanner:
		return true
	default:
		return false
	}
}
