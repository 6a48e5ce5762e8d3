package enum

type ActionType string

const (
	ActionTypeSendEmail    ActionType = "send_email"
	ActionTypeAPICall      ActionType = "api_call"
	ActionTypeUpdateRecord ActionType = "update_record"
	ActionTypeNotification ActionType = "notification"
	ActionTypeCustom       ActionType = "custom"
)

func (t ActionType) String() string {
	return string(t)
}
