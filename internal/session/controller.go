package session

import (
	"github.com/mockmate/interview-service/internal/models"
)

// Controller is the turn-taking state machine for one interview session. It
// sequences think-time, capture, transcription, optional follow-up probes and
// progression across the planned question list.
//
// The controller is pure: it performs no I/O and owns no goroutines. Callers
// feed it events (think-time ticks, stop-recording, transcript resolution)
// and read back the resulting state. It is not safe for concurrent use; the
// service layer serializes access per session.
type Controller struct {
	questions []models.Question
	index     int
	state     State

	thinkTotal int
	thinkLeft  int

	permission    bool
	permissionErr bool

	repeats    int
	pending    PendingAction
	inFollowUp bool

	ledger *Ledger
	queue  *PlaybackQueue
}

// NewController builds a controller over an immutable question plan.
// thinkTimeSeconds is the fixed countdown applied before each question.
func NewController(questions []models.Question, thinkTimeSeconds int) (*Controller, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if thinkTimeSeconds <= 0 {
		thinkTimeSeconds = 5
	}
	return &Controller{
		questions:  questions,
		state:      StateIdle,
		thinkTotal: thinkTimeSeconds,
		ledger:     NewLedger(),
		queue:      NewPlaybackQueue(),
	}, nil
}

// GrantPermission records that camera/microphone access was granted. Recording
// is unreachable until this has been called.
func (c *Controller) GrantPermission() {
	c.permission = true
	c.permissionErr = false
}

// DenyPermission records a denied media permission. The controller surfaces a
// persistent permission error and refuses to enter Recording until a retry
// succeeds.
func (c *Controller) DenyPermission() {
	c.permission = false
	c.permissionErr = true
}

// Begin starts the first question's turn.
func (c *Controller) Begin() error {
	if c.state != StateIdle {
		return ErrInvalidTransition
	}
	c.enterQuestion(0)
	return nil
}

// Tick advances the think-time countdown by one second. The countdown does
// not run while the playback queue is busy, so queued interviewer audio from
// the previous turn always finishes before the next countdown progresses.
// When the countdown reaches zero the question prompt is enqueued for
// playback and capture starts; capture is not gated on playback completion.
func (c *Controller) Tick() State {
	if c.state != StateThinkTime {
		return c.state
	}
	if c.queue.Busy() {
		return c.state
	}
	if c.thinkLeft > 0 {
		c.thinkLeft--
	}
	if c.thinkLeft == 0 {
		c.beginCapture()
	}
	return c.state
}

func (c *Controller) beginCapture() {
	if !c.permission {
		c.permissionErr = true
		return
	}
	c.enqueuePrompt()
	c.state = StateRecording
}

// StopRecording ends the capture segment and hands the audio off to
// transcription. The given action is parked in the single pending slot and
// executed once the transcript settles.
func (c *Controller) StopRecording(action PendingAction) error {
	if c.state != StateRecording {
		return ErrInvalidTransition
	}
	if c.pending != ActionNone {
		return ErrPendingActionSet
	}
	c.pending = action
	c.state = StateTranscribing
	return nil
}

// ResolveTranscript completes the transcription suspension point. failed
// marks a transcription error, which stores the sentinel answer rather than
// an empty string. The pending action, if any, is consumed exactly once.
func (c *Controller) ResolveTranscript(raw string, failed bool) (State, error) {
	if c.state != StateTranscribing {
		return c.state, ErrInvalidTransition
	}

	answer := NormalizeTranscript(raw)
	if failed {
		answer = TranscriptionFailedAnswer
	}

	q := c.questions[c.index]
	if c.inFollowUp {
		c.ledger.MergeFollowUp(q.ID, answer)
		c.inFollowUp = false
	} else {
		c.ledger.Upsert(models.AnswerRecord{
			SessionID:   q.SessionID,
			QuestionID:  q.ID,
			Prompt:      q.Prompt,
			Interviewer: q.Interviewer,
			Type:        q.Type,
			UserAnswer:  answer,
			IdealAnswer: q.IdealAnswer,
		})
	}

	action := c.pending
	c.pending = ActionNone

	switch action {
	case ActionEnd:
		c.finalize()
	case ActionNext:
		c.advance()
	case ActionFollowUp:
		c.state = StateAwaitingFollowUp
	default:
		c.state = StateReadyToAdvance
	}
	return c.state, nil
}

// IssueFollowUp halts forward progress for a backend-requested elaboration on
// the answer just given. The probe is a sub-turn of the current question, not
// a new top-level question.
func (c *Controller) IssueFollowUp(audio *models.AudioSegment) error {
	if c.state != StateReadyToAdvance {
		return ErrInvalidTransition
	}
	if audio != nil {
		c.queue.Enqueue(*audio)
	}
	c.state = StateAwaitingFollowUp
	return nil
}

// StartFollowUpRecording begins capture for the follow-up sub-turn.
func (c *Controller) StartFollowUpRecording() error {
	if c.state != StateAwaitingFollowUp {
		return ErrInvalidTransition
	}
	if !c.permission {
		c.permissionErr = true
		return ErrPermissionDenied
	}
	c.inFollowUp = true
	c.state = StateRecording
	return nil
}

// RepeatPrompt re-queues the current question's audio without resetting
// recording state or advancing the index. At most two repeats per question;
// further attempts return false and change nothing.
func (c *Controller) RepeatPrompt() bool {
	if c.state != StateThinkTime && c.state != StateRecording {
		return false
	}
	if c.repeats >= MaxRepeats {
		return false
	}
	c.repeats++
	c.enqueuePrompt()
	return true
}

// Advance moves to the next question, or ends the session when none remain.
// Invoked mid-recording it stops the recorder first and defers the move until
// the transcript has been merged.
func (c *Controller) Advance() error {
	switch c.state {
	case StateRecording:
		return c.StopRecording(ActionNext)
	case StateTranscribing:
		if c.pending != ActionNone {
			return ErrPendingActionSet
		}
		c.pending = ActionNext
		return nil
	case StateReadyToAdvance:
		c.advance()
		return nil
	case StateEnded:
		return ErrSessionEnded
	default:
		return ErrInvalidTransition
	}
}

// End finishes the session. Invoked mid-recording it stops the recorder,
// waits for the in-flight transcript and merges it before finalizing, so
// the last answer is never silently dropped.
func (c *Controller) End() error {
	switch c.state {
	case StateRecording:
		return c.StopRecording(ActionEnd)
	case StateTranscribing:
		if c.pending != ActionNone {
			return ErrPendingActionSet
		}
		c.pending = ActionEnd
		return nil
	case StateEnded:
		return ErrSessionEnded
	default:
		c.finalize()
		return nil
	}
}

func (c *Controller) enterQuestion(i int) {
	c.index = i
	c.repeats = 0
	c.inFollowUp = false
	c.thinkLeft = c.thinkTotal
	c.state = StateThinkTime
}

func (c *Controller) advance() {
	if c.index+1 >= len(c.questions) {
		c.finalize()
		return
	}
	c.enterQuestion(c.index + 1)
}

// finalize releases playback and marks the session ended. Persisting the
// ledger is the caller's job.
func (c *Controller) finalize() {
	c.queue.Clear()
	c.state = StateEnded
}

func (c *Controller) enqueuePrompt() {
	q := c.questions[c.index]
	if q.AudioURL == nil {
		return
	}
	c.queue.Enqueue(models.AudioSegment{URL: *q.AudioURL, Label: "question"})
}

// ===== ACCESSORS =====

func (c *Controller) State() State { return c.state }

func (c *Controller) Index() int { return c.index }

// Current returns the active question. Exactly one question is current at any
// time until the session ends.
func (c *Controller) Current() models.Question { return c.questions[c.index] }

func (c *Controller) ThinkTimeRemaining() int { return c.thinkLeft }

func (c *Controller) Repeats() int { return c.repeats }

func (c *Controller) Pending() PendingAction { return c.pending }

func (c *Controller) InFollowUp() bool { return c.inFollowUp }

// PermissionError reports whether a turn tried to reach Recording without
// media permission. It clears when permission is granted.
func (c *Controller) PermissionError() bool { return c.permissionErr }

func (c *Controller) Ended() bool { return c.state == StateEnded }

func (c *Controller) Ledger() *Ledger { return c.ledger }

func (c *Controller) Queue() *PlaybackQueue { return c.queue }

func (c *Controller) QuestionCount() int { return len(c.questions) }
