package models

import "time"

type XPEntryKind string

const (
	XPEarn   XPEntryKind = "earn"
	XPRevoke XPEntryKind = "revoke"
	XPRedeem XPEntryKind = "redeem"
)

// XPEntry is one row of the append-only XP ledger. Amount is signed:
// earn > 0, revoke and redeem < 0.
type XPEntry struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Kind      XPEntryKind `json:"kind"`
	Amount    int         `json:"amount"`
	TaskID    *string     `json:"task_id,omitempty"`
	RewardID  *int64      `json:"reward_id,omitempty"`
	Note      string      `json:"note"`
	Day       Date        `json:"day"`
	CreatedAt time.Time   `json:"created_at"`
}
