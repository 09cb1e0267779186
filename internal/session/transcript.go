package session

import "strings"

// TranscriptionFailedAnswer is stored when the transcription call itself
// failed. It is distinct from "", which means the user said nothing usable.
const TranscriptionFailedAnswer = "[could not transcribe answer]"

// fillerPhrases are utterances that carry no answer content when they make up
// the entire transcript. Matching is case-insensitive and ignores surrounding
// whitespace and trailing punctuation.
var fillerPhrases = map[string]struct{}{
	"i don't know why": {},
	"i don't know":     {},
	"i dont know why":  {},
	"i dont know":      {},
	"um":               {},
	"uh":               {},
	"hmm":              {},
	"no comment":       {},
	"nothing":          {},
}

// NormalizeTranscript collapses filler-only transcripts to the empty string
// and returns everything else verbatim.
func NormalizeTranscript(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.TrimRight(key, ".!?,;: ")
	if _, ok := fillerPhrases[key]; ok {
		return ""
	}
	if key == "" {
		return ""
	}
	return raw
}
