package session

import "github.com/mockmate/interview-service/internal/models"

// PlaybackQueue sequences interviewer audio segments. Segments play strictly
// in enqueue order, one at a time; the queue advances on natural completion
// or an explicit skip. The queue owns the audio output channel; nothing else
// may play while a segment is active.
type PlaybackQueue struct {
	active  *models.AudioSegment
	pending []models.AudioSegment
}

func NewPlaybackQueue() *PlaybackQueue {
	return &PlaybackQueue{}
}

// Enqueue appends segments. If nothing is playing, the first segment becomes
// active immediately.
func (q *PlaybackQueue) Enqueue(segments ...models.AudioSegment) {
	q.pending = append(q.pending, segments...)
	q.promote()
}

// Active returns the segment currently playing, or nil.
func (q *PlaybackQueue) Active() *models.AudioSegment {
	return q.active
}

// Busy reports whether a segment is playing or waiting to play.
func (q *PlaybackQueue) Busy() bool {
	return q.active != nil || len(q.pending) > 0
}

// Len returns the number of segments not yet started.
func (q *PlaybackQueue) Len() int {
	return len(q.pending)
}

// CompleteCurrent marks the active segment as finished and starts the next
// one, if any.
func (q *PlaybackQueue) CompleteCurrent() {
	q.active = nil
	q.promote()
}

// Skip cancels the active segment without waiting for completion and starts
// the next one. Skipping an idle queue is a no-op.
func (q *PlaybackQueue) Skip() {
	if q.active == nil {
		return
	}
	q.active = nil
	q.promote()
}

// Clear drops the active segment and everything queued behind it. Used on
// session teardown.
func (q *PlaybackQueue) Clear() {
	q.active = nil
	q.pending = nil
}

func (q *PlaybackQueue) promote() {
	if q.active != nil || len(q.pending) == 0 {
		return
	}
	next := q.pending[0]
	q.pending = q.pending[1:]
	q.active = &next
}
