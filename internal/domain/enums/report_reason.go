package enums

type ReportReason string

const (
	ReportReasonSpam        ReportReason = "spam"
	ReportReasonFake        ReportReason = "fake"
	ReportReasonAbusive     ReportReason = "abusive"
	ReportReasonAnimalAbuse ReportReason = "animal_welfare"
	ReportReasonOther       ReportReason = "other"
)

func IsValidReportReason(v string) bool {
	switch ReportReason(v) {
	case ReportReasonSpam, ReportReasonFake, ReportReasonAbusive, ReportReasonAnimalAbuse, ReportReasonOther:
		return true
	default:
		return false
	}
}

type ReportTarget string

const (
	ReportTargetPet    ReportTarget = "pet"
	ReportTargetSeller ReportTarget = "seller"
	ReportTargetAd     ReportTarget = "ad"
)

func IsValidReportTarget(v string) bool {
	switch ReportTarget(v) {
	case ReportTargetPet, ReportTargetSeller, ReportTargetAd:
		return true
	default:
		return false
	}
}
