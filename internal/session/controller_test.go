package session

import (
	"testing"

	"github.com/mockmate/interview-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeQuestions(n int) []models.Question {
	questions := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		audio := "https://audio.test/" + id + ".mp3"
		questions = append(questions, models.Question{
			ID:          "q-" + id,
			SessionID:   "s-1",
			Prompt:      "Tell me about topic " + id,
			Type:        models.QuestionStandard,
			Interviewer: "Alex",
			Position:    i,
			AudioURL:    &audio,
		})
	}
	return questions
}

// drainThinkTime ticks until the controller leaves ThinkTime, completing any
// queued audio between ticks so the countdown can run.
func drainThinkTime(t *testing.T, c *Controller) {
	t.Helper()
	for i := 0; i < 30; i++ {
		if c.State() != StateThinkTime {
			return
		}
		for c.Queue().Busy() {
			c.Queue().CompleteCurrent()
		}
		c.Tick()
	}
	t.Fatalf("controller stuck in ThinkTime")
}

func startRecording(t *testing.T, c *Controller) {
	t.Helper()
	drainThinkTime(t, c)
	require.Equal(t, StateRecording, c.State())
}

func TestController_HappyPathTurn(t *testing.T) {
	c, err := NewController(makeQuestions(2), 3)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, c.State())

	c.GrantPermission()
	require.NoError(t, c.Begin())
	assert.Equal(t, StateThinkTime, c.State())
	assert.Equal(t, 3, c.ThinkTimeRemaining())

	startRecording(t, c)

	require.NoError(t, c.StopRecording(ActionNone))
	assert.Equal(t, StateTranscribing, c.State())

	state, err := c.ResolveTranscript("I would use a queue here.", false)
	require.NoError(t, err)
	assert.Equal(t, StateReadyToAdvance, state)

	rec, ok := c.Ledger().Get("q-a")
	require.True(t, ok)
	assert.Equal(t, "I would use a queue here.", rec.UserAnswer)

	require.NoError(t, c.Advance())
	assert.Equal(t, StateThinkTime, c.State())
	assert.Equal(t, 1, c.Index())
}

func TestController_CaptureOverlapsPromptPlayback(t *testing.T) {
	c, err := NewController(makeQuestions(1), 1)
	require.NoError(t, err)
	c.GrantPermission()
	require.NoError(t, c.Begin())

	c.Tick()

	// Recording starts while the question prompt is still playing.
	assert.Equal(t, StateRecording, c.State())
	require.NotNil(t, c.Queue().Active())
	assert.Equal(t, "question", c.Queue().Active().Label)
}

func TestController_ThinkTimeGatedOnPlaybackQueue(t *testing.T) {
	c, err := NewController(makeQuestions(1), 2)
	require.NoError(t, err)
	c.GrantPermission()
	require.NoError(t, c.Begin())

	c.Queue().Enqueue(models.AudioSegment{URL: "https://audio.test/intro.mp3", Label: "comment"})

	for i := 0; i < 5; i++ {
		c.Tick()
	}
	// Countdown must not progress while a segment is active.
	assert.Equal(t, StateThinkTime, c.State())
	assert.Equal(t, 2, c.ThinkTimeRemaining())

	c.Queue().CompleteCurrent()
	c.Tick()
	assert.Equal(t, 1, c.ThinkTimeRemaining())
}

func TestController_PermissionDeniedNeverRecords(t *testing.T) {
	c, err := NewController(makeQuestions(1), 1)
	require.NoError(t, err)
	c.DenyPermission()
	require.NoError(t, c.Begin())

	for i := 0; i < 10; i++ {
		c.Tick()
		require.NotEqual(t, StateRecording, c.State())
	}
	assert.Equal(t, StateThinkTime, c.State())
	assert.True(t, c.PermissionError())

	// Granting permission unblocks the stalled turn on the next tick.
	c.GrantPermission()
	c.Tick()
	assert.Equal(t, StateRecording, c.State())
	assert.False(t, c.PermissionError())
}

func TestController_RepeatBoundedAtTwo(t *testing.T) {
	c, err := NewController(makeQuestions(2), 1)
	require.NoError(t, err)
	c.GrantPermission()
	require.NoError(t, c.Begin())
	startRecording(t, c)

	idx := c.Index()
	assert.True(t, c.RepeatPrompt())
	assert.True(t, c.RepeatPrompt())
	assert.False(t, c.RepeatPrompt(), "third repeat must be a no-op")
	assert.Equal(t, 2, c.Repeats())
	assert.Equal(t, idx, c.Index(), "repeat must not advance the index")
	assert.Equal(t, StateRecording, c.State(), "repeat must not reset recording state")
}

func TestController_EndWhileRecordingKeepsLastAnswer(t *testing.T) {
	questions := makeQuestions(3)
	c, err := NewController(questions, 1)
	require.NoError(t, err)
	c.GrantPermission()
	require.NoError(t, c.Begin())

	answers := []string{"Answer one.", "Answer two."}
	for _, a := range answers {
		startRecording(t, c)
		require.NoError(t, c.StopRecording(ActionNext))
		_, err := c.ResolveTranscript(a, false)
		require.NoError(t, err)
	}

	// Q3: user clicks End while still recording.
	startRecording(t, c)
	require.NoError(t, c.End())
	assert.Equal(t, StateTranscribing, c.State(), "end must wait for the in-flight transcript")
	assert.Equal(t, ActionEnd, c.Pending())

	state, err := c.ResolveTranscript("Answer three, cut short.", false)
	require.NoError(t, err)
	assert.Equal(t, StateEnded, state)

	payload := c.Ledger().Payload()
	require.Len(t, payload, 3)
	assert.Equal(t, "q-c", payload[2].QuestionID)
	assert.Equal(t, "Answer three, cut short.", payload[2].UserAnswer)
}

func TestController_PendingActionConsumedOnce(t *testing.T) {
	c, err := NewController(makeQuestions(2), 1)
	require.NoError(t, err)
	c.GrantPermission()
	require.NoError(t, c.Begin())
	startRecording(t, c)

	require.NoError(t, c.Advance())
	assert.Equal(t, StateTranscribing, c.State())
	assert.Equal(t, ActionNext, c.Pending())

	// A second navigation cannot overwrite the parked action.
	assert.ErrorIs(t, c.End(), ErrPendingActionSet)

	_, err = c.ResolveTranscript("done", false)
	require.NoError(t, err)
	assert.Equal(t, ActionNone, c.Pending())
	assert.Equal(t, 1, c.Index())
}

func TestController_TranscriptionFailureStoresSentinel(t *testing.T) {
	c, err := NewController(makeQuestions(1), 1)
	require.NoError(t, err)
	c.GrantPermission()
	require.NoError(t, c.Begin())
	startRecording(t, c)
	require.NoError(t, c.StopRecording(ActionNone))

	_, err = c.ResolveTranscript("", true)
	require.NoError(t, err)

	rec, ok := c.Ledger().Get("q-a")
	require.True(t, ok)
	assert.Equal(t, TranscriptionFailedAnswer, rec.UserAnswer)
}

func TestController_FillerOnlyStoresEmptyAnswer(t *testing.T) {
	c, err := NewController(makeQuestions(1), 1)
	require.NoError(t, err)
	c.GrantPermission()
	require.NoError(t, c.Begin())
	startRecording(t, c)
	require.NoError(t, c.StopRecording(ActionNone))

	_, err = c.ResolveTranscript("I don't know why.", false)
	require.NoError(t, err)

	rec, ok := c.Ledger().Get("q-a")
	require.True(t, ok)
	assert.Equal(t, "", rec.UserAnswer, "a no-answer is informative and must stay empty")
}

func TestController_FollowUpSubTurn(t *testing.T) {
	c, err := NewController(makeQuestions(2), 1)
	require.NoError(t, err)
	c.GrantPermission()
	require.NoError(t, c.Begin())
	startRecording(t, c)
	require.NoError(t, c.StopRecording(ActionNone))
	_, err = c.ResolveTranscript("We sharded by tenant.", false)
	require.NoError(t, err)

	probe := models.AudioSegment{URL: "https://audio.test/probe.mp3", Label: "follow_up"}
	require.NoError(t, c.IssueFollowUp(&probe))
	assert.Equal(t, StateAwaitingFollowUp, c.State())
	assert.Equal(t, 0, c.Index(), "a follow-up probe is not a new top-level question")

	require.NoError(t, c.StartFollowUpRecording())
	require.NoError(t, c.StopRecording(ActionNone))
	_, err = c.ResolveTranscript("Because tenants are isolated.", false)
	require.NoError(t, err)
	assert.Equal(t, StateReadyToAdvance, c.State())

	rec, ok := c.Ledger().Get("q-a")
	require.True(t, ok)
	assert.Equal(t, "We sharded by tenant.", rec.UserAnswer)
	require.NotNil(t, rec.FollowUpAnswer)
	assert.Equal(t, "Because tenants are isolated.", *rec.FollowUpAnswer)
	assert.Equal(t, 1, c.Ledger().Len())
}

func TestController_AdvancePastLastQuestionEnds(t *testing.T) {
	c, err := NewController(makeQuestions(1), 1)
	require.NoError(t, err)
	c.GrantPermission()
	require.NoError(t, c.Begin())
	startRecording(t, c)
	require.NoError(t, c.StopRecording(ActionNext))
	state, err := c.ResolveTranscript("only answer", false)
	require.NoError(t, err)

	assert.Equal(t, StateEnded, state)
	assert.True(t, c.Ended())
	assert.False(t, c.Queue().Busy(), "ending must release all playback")
	assert.ErrorIs(t, c.End(), ErrSessionEnded)
}

func TestController_EmptyPlanRejected(t *testing.T) {
	_, err := NewController(nil, 5)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	questions := makeQuestions(3)
	c, err := NewController(questions, 4)
	require.NoError(t, err)
	c.GrantPermission()
	require.NoError(t, c.Begin())
	startRecording(t, c)
	require.NoError(t, c.StopRecording(ActionNext))
	_, err = c.ResolveTranscript("first", false)
	require.NoError(t, err)

	snap := c.Snapshot()
	restored, err := Restore(questions, 4, snap)
	require.NoError(t, err)

	assert.Equal(t, c.State(), restored.State())
	assert.Equal(t, c.Index(), restored.Index())
	assert.Equal(t, c.ThinkTimeRemaining(), restored.ThinkTimeRemaining())
	assert.Equal(t, c.Ledger().Payload(), restored.Ledger().Payload())
}

func TestSnapshot_RestoreRejectsCorruptState(t *testing.T) {
	questions := makeQuestions(2)

	_, err := Restore(questions, 4, Snapshot{State: "Sideways", Index: 0})
	assert.Error(t, err)

	_, err = Restore(questions, 4, Snapshot{State: StateThinkTime, Index: 9})
	assert.Error(t, err)
}
