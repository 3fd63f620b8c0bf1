package event

import "coffeetalk/domain"

// Technical events feed the telemetry worker only. They carry no user
// content and are dropped without blocking when the telemetry buffer is full.

type DecisionTaken struct {
	Decision  domain.Decision
	ChannelID string
	UserID    string
}

type ChannelProvisioned struct {
	Slug     string
	Conflict bool
	Failed   bool
}

type OnboardingSent struct {
	UserID string
}
