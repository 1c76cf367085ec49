package enums

type ModerationStatus string

const (
	ModerationStatusPending   ModerationStatus = "pending"
	ModerationStatusApproved  ModerationStatus = "approved"
	ModerationStatusRejected  ModerationStatus = "rejected"
	ModerationStatusVerified  ModerationStatus = "verified"
	ModerationStatusResolved  ModerationStatus = "resolved"
	ModerationStatusDismissed ModerationStatus = "dismissed"
)

// StatusAll is the list filter value that disables status filtering.
const StatusAll = "all"

func (s ModerationStatus) IsTerminal() bool {
	return s != "" && s != ModerationStatusPending
}
