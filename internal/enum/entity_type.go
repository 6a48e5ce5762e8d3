package enum

type EntityType string

const (
	EMAIL     EntityType = "EMAIL"
	USER      EntityType = "USER"
	INTENTION EntityType = "INTENTION"
	ACTION    EntityType = "ACTION"
	PRICE     EntityType = "PRICE"
)
