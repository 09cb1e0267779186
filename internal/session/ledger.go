package session

import "github.com/mockmate/interview-service/internal/models"

// Ledger is the ordered, id-keyed collection of answers for one session.
// It only grows or overwrites; records are never deleted during a session.
type Ledger struct {
	order []string
	byID  map[string]*models.AnswerRecord
}

func NewLedger() *Ledger {
	return &Ledger{
		byID: make(map[string]*models.AnswerRecord),
	}
}

// Upsert replaces the record with the same question id, or appends. A
// question answered twice keeps the latest answer.
func (l *Ledger) Upsert(rec models.AnswerRecord) {
	if _, ok := l.byID[rec.QuestionID]; !ok {
		l.order = append(l.order, rec.QuestionID)
	}
	stored := rec
	l.byID[rec.QuestionID] = &stored
}

// MergeFollowUp attaches a follow-up elaboration to an existing record.
// Returns false if no record exists for the question yet.
func (l *Ledger) MergeFollowUp(questionID, answer string) bool {
	rec, ok := l.byID[questionID]
	if !ok {
		return false
	}
	rec.FollowUpAnswer = &answer
	return true
}

// Get returns a copy of the record for a question id.
func (l *Ledger) Get(questionID string) (models.AnswerRecord, bool) {
	rec, ok := l.byID[questionID]
	if !ok {
		return models.AnswerRecord{}, false
	}
	return *rec, true
}

// Len returns the number of answered questions.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Payload returns the ordered answer list consumed by the scoring call.
func (l *Ledger) Payload() []models.AnswerRecord {
	out := make([]models.AnswerRecord, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.byID[id])
	}
	return out
}
