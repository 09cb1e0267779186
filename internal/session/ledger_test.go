package session

import (
	"testing"

	"github.com/mockmate/interview-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answer(questionID, text string) models.AnswerRecord {
	return models.AnswerRecord{
		SessionID:  "s-1",
		QuestionID: questionID,
		Prompt:     "prompt for " + questionID,
		Type:       models.QuestionStandard,
		UserAnswer: text,
	}
}

func TestLedger_UpsertReplacesByID(t *testing.T) {
	l := NewLedger()

	l.Upsert(answer("q-1", "first take"))
	l.Upsert(answer("q-2", "second question"))
	l.Upsert(answer("q-1", "second take"))

	assert.Equal(t, 2, l.Len(), "same id must never appear twice")

	rec, ok := l.Get("q-1")
	require.True(t, ok)
	assert.Equal(t, "second take", rec.UserAnswer)
}

func TestLedger_PayloadPreservesInsertionOrder(t *testing.T) {
	l := NewLedger()
	l.Upsert(answer("q-2", "b"))
	l.Upsert(answer("q-1", "a"))
	l.Upsert(answer("q-3", "c"))
	l.Upsert(answer("q-1", "a2"))

	payload := l.Payload()
	require.Len(t, payload, 3)
	assert.Equal(t, "q-2", payload[0].QuestionID)
	assert.Equal(t, "q-1", payload[1].QuestionID)
	assert.Equal(t, "q-3", payload[2].QuestionID)
	assert.Equal(t, "a2", payload[1].UserAnswer)
}

func TestLedger_PayloadIsACopy(t *testing.T) {
	l := NewLedger()
	l.Upsert(answer("q-1", "original"))

	payload := l.Payload()
	payload[0].UserAnswer = "mutated"

	rec, _ := l.Get("q-1")
	assert.Equal(t, "original", rec.UserAnswer)
}

func TestLedger_MergeFollowUp(t *testing.T) {
	l := NewLedger()

	assert.False(t, l.MergeFollowUp("q-1", "elaboration"), "no base record yet")

	l.Upsert(answer("q-1", "base"))
	assert.True(t, l.MergeFollowUp("q-1", "elaboration"))

	rec, _ := l.Get("q-1")
	require.NotNil(t, rec.FollowUpAnswer)
	assert.Equal(t, "elaboration", *rec.FollowUpAnswer)
	assert.Equal(t, "base", rec.UserAnswer)
}
