// Package queue moves broadcast jobs through the message broker so a
// long fan-out never blocks the bot's update loop.
package queue

import "github.com/otabek-dev/kinoteka-bot/internal/broadcast"

const broadcastQueueName = "broadcast.requested"

// BroadcastRequestedEvent is published when an admin finishes the
// broadcast dialogue.  RequestedBy is the admin's Telegram id; the
// summary is reported back to that chat when the run completes.
type BroadcastRequestedEvent struct {
	Job         broadcast.Job `json:"job"`
	RequestedBy int64         `json:"requested_by"`
	RequestedAt string        `json:"requested_at"`
}
