package session

import "errors"

// State names the turn controller's position within one question turn.
type State string

const (
	StateIdle             State = "Idle"
	StateThinkTime        State = "ThinkTime"
	StateRecording        State = "Recording"
	StateTranscribing     State = "Transcribing"
	StateAwaitingFollowUp State = "AwaitingFollowUp"
	StateReadyToAdvance   State = "ReadyToAdvance"
	StateEnded            State = "Ended"
)

// PendingAction is the navigation intent parked while a transcription call is
// in flight. The slot holds at most one action and is consumed exactly once,
// after the transcript settles.
type PendingAction string

const (
	ActionNone     PendingAction = ""
	ActionNext     PendingAction = "next"
	ActionEnd      PendingAction = "end"
	ActionFollowUp PendingAction = "followup"
)

// MaxRepeats bounds prompt repeats per question. A third repeat is a no-op.
const MaxRepeats = 2

var (
	ErrNoQuestions       = errors.New("session: plan contains no questions")
	ErrPermissionDenied  = errors.New("session: media permission not granted")
	ErrInvalidTransition = errors.New("session: operation not valid in current state")
	ErrPendingActionSet  = errors.New("session: a pending action is already queued")
	ErrSessionEnded      = errors.New("session: session already ended")
)
