package models

import "time"

// Journal event types.
const (
	EventLinkConnecting = "LINK_CONNECTING"
	EventLinkUp         = "LINK_UP"
	EventLinkReady      = "LINK_READY"
	EventLinkLost       = "LINK_LOST"
	EventRunStarted     = "RUN_STARTED"
	EventRunEnded       = "RUN_ENDED"
	EventRunFinished    = "RUN_FINISHED"
	EventRunIncomplete  = "RUN_INCOMPLETE"
	EventRunAbandoned   = "RUN_ABANDONED"
	EventCommand        = "COMMAND"
)

// BeaconEvent is a single journal entry.
type BeaconEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
