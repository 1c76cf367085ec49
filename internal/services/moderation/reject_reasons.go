package moderation

import (
	"sort"

	"github.com/petnest/petnest/internal/domain/enums"
)

// RejectReason is a canned rejection text offered to moderators. The
// console pre-fills the reason field with Text; moderators may edit it.
type RejectReason struct {
	Code  string
	Label string
	Text  string
}

var rejectReasonTemplates = map[enums.EntityKind]map[string]RejectReason{
	enums.EntityKindAdRequest: {
		"OFF_TOPIC": {
			Label: "Not pet related",
			Text:  "The advertised product or service is not related to pets.",
		},
		"MISLEADING": {
			Label: "Misleading claims",
			Text:  "The ad makes claims we cannot verify.",
		},
		"BROKEN_LINK": {
			Label: "Broken target link",
			Text:  "The target URL does not open or points to an unrelated site.",
		},
		"PLACEMENT_FULL": {
			Label: "Placement unavailable",
			Text:  "The requested placement is fully booked for now.",
		},
		"OTHER": {
			Label: "Other",
			Text:  "The request does not meet our advertising guidelines.",
		},
	},
	enums.EntityKindSeller: {
		"INCOMPLETE_PROFILE": {
			Label: "Incomplete profile",
			Text:  "Business details are incomplete.",
		},
		"UNREACHABLE": {
			Label: "Unreachable",
			Text:  "We could not reach the seller by phone.",
		},
		"OTHER": {
			Label: "Other",
			Text:  "The application does not meet our seller requirements.",
		},
	},
}

// RejectReasons lists the canned reasons for kind ordered by code. Kinds
// without a reject decision have none.
func RejectReasons(kind enums.EntityKind) []RejectReason {
	templates := rejectReasonTemplates[kind]
	codes := make([]string, 0, len(templates))
	for code := range templates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	items := make([]RejectReason, 0, len(codes))
	for _, code := range codes {
		item := templates[code]
		item.Code = code
		items = append(items, item)
	}
	return items
}
