package enum

type ProcessingStatus string

const (
	ProcessingStatusPending   ProcessingStatus = "PENDING"
	ProcessingStatusProcessed ProcessingStatus = "PROCESSED"
	ProcessingStatusNoMatch   ProcessingStatus = "NO_MATCH"
	ProcessingStatusError     ProcessingStatus = "ERROR"
	ProcessingStatusIgnored   ProcessingStatus = "IGNORED"
)

func (s ProcessingStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status ends the processing workflow.
// PENDING is the only status the scheduler picks up again.
func (s ProcessingStatus) IsTerminal() bool {
	switch s {
	case ProcessingStatusProcessed, ProcessingStatusNoMatch, ProcessingStatusError:
		return true
	}
	return false
}

func DecodeProcessingStatus(s string) ProcessingStatus {
	switch s {
	case "PENDING":
		return ProcessingStatusPending
	case "PROCESSED":
		return ProcessingStatusProcessed
	case "NO_MATCH":
		return ProcessingStatusNoMatch
	case "ERROR":
		return ProcessingStatusError
	case "IGNORED":
		return ProcessingStatusIgnored
	default:
		return ""
	}
}
