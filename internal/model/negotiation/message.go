package negotiation

import "time"

// Roles recorded on transcript turns. The values match what the generation
// service expects, so transcripts replay verbatim.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message persists individual turns for audit and transcript replay.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
