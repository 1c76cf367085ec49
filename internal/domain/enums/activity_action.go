package enums

type ActivityAction string

const (
	ActivityActionSubmitted ActivityAction = "submitted"
	ActivityActionApproved  ActivityAction = "approved"
	ActivityActionRejected  ActivityAction = "rejected"
	ActivityActionVerified  ActivityAction = "verified"
	ActivityActionResolved  ActivityAction = "resolved"
	ActivityActionDismissed ActivityAction = "dismissed"
)
