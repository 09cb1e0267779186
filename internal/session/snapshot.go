package session

import (
	"fmt"

	"github.com/mockmate/interview-service/internal/models"
)

// Snapshot is the serializable form of a controller, used to park live
// session state between requests.
type Snapshot struct {
	State         State                  `json:"state"`
	Index         int                    `json:"index"`
	ThinkLeft     int                    `json:"think_left"`
	Repeats       int                    `json:"repeats"`
	Pending       PendingAction          `json:"pending"`
	InFollowUp    bool                   `json:"in_follow_up"`
	Permission    bool                   `json:"permission"`
	PermissionErr bool                   `json:"permission_err"`
	Answers       []models.AnswerRecord  `json:"answers"`
	QueueActive   *models.AudioSegment   `json:"queue_active,omitempty"`
	QueuePending  []models.AudioSegment  `json:"queue_pending,omitempty"`
}

// Snapshot captures the controller's full transient state.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:         c.state,
		Index:         c.index,
		ThinkLeft:     c.thinkLeft,
		Repeats:       c.repeats,
		Pending:       c.pending,
		InFollowUp:    c.inFollowUp,
		Permission:    c.permission,
		PermissionErr: c.permissionErr,
		Answers:       c.ledger.Payload(),
		QueueActive:   c.queue.Active(),
	}
	snap.QueuePending = append(snap.QueuePending, c.queue.pending...)
	return snap
}

// Restore rebuilds a controller from a snapshot taken against the same
// question plan.
func Restore(questions []models.Question, thinkTimeSeconds int, snap Snapshot) (*Controller, error) {
	c, err := NewController(questions, thinkTimeSeconds)
	if err != nil {
		return nil, err
	}
	if snap.Index < 0 || snap.Index >= len(questions) {
		return nil, fmt.Errorf("session: snapshot index %d out of range", snap.Index)
	}
	switch snap.State {
	case StateIdle, StateThinkTime, StateRecording, StateTranscribing,
		StateAwaitingFollowUp, StateReadyToAdvance, StateEnded:
	default:
		return nil, fmt.Errorf("session: unknown snapshot state %q", snap.State)
	}

	c.state = snap.State
	c.index = snap.Index
	c.thinkLeft = snap.ThinkLeft
	c.repeats = snap.Repeats
	c.pending = snap.Pending
	c.inFollowUp = snap.InFollowUp
	c.permission = snap.Permission
	c.permissionErr = snap.PermissionErr
	for _, rec := range snap.Answers {
		c.ledger.Upsert(rec)
	}
	c.queue.active = snap.QueueActive
	c.queue.pending = append(c.queue.pending, snap.QueuePending...)
	return c, nil
}
