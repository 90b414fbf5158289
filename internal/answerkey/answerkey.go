// Package answerkey decodes the mini-format used to embed multiple-choice
// answers inside a single tabular cell: one choice per line, "CA:" marks
// the correct answer and "IA:" a distractor.
package answerkey

import "strings"

// FallbackText is the choice text synthesized for an empty answer cell.
const FallbackText = "True"

type Choice struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is the decoded cell: choices in source order plus the text of
// the designated correct answer. Exactly one choice is correct.
type Question struct {
	Choices     []Choice `json:"choices"`
	CorrectText string   `json:"correct_text"`
}

// Decode parses a raw answer cell. Tags are case-insensitive, lines
// without a recognizable tag are skipped, and duplicate choice texts
// (case-insensitive) keep their first occurrence. The first CA line
// designates the correct answer, even when its text duplicates an
// earlier IA line. A cell that designates no correct answer gets a
// single correct choice synthesized from the cell text so the question
// stays answerable.
func Decode(rawCell string) Question {
	var q Question
	seen := map[string]int{} // normalized text -> index in q.Choices

	for _, line := range strings.Split(rawCell, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		correct, text, ok := splitTag(line)
		if !ok {
			continue
		}
		key := strings.ToLower(text)
		if idx, dup := seen[key]; dup {
			// A CA line duplicating an earlier choice still designates
			// the correct answer: promote the kept occurrence.
			if correct && q.CorrectText == "" {
				q.Choices[idx].Correct = true
				q.CorrectText = q.Choices[idx].Text
			}
			continue
		}
		seen[key] = len(q.Choices)
		isCorrect := correct && q.CorrectText == ""
		q.Choices = append(q.Choices, Choice{Text: text, Correct: isCorrect})
		if isCorrect {
			q.CorrectText = text
		}
	}

	if q.CorrectText == "" {
		text := strings.TrimSpace(rawCell)
		if text == "" {
			text = FallbackText
		}
		q.Choices = []Choice{{Text: text, Correct: true}}
		q.CorrectText = text
	}
	return q
}

// Tagged reports whether rawCell contains at least one recognizable
// CA:/IA: line. Loaders use it to warn about cells that will fall back
// to a synthesized always-correct choice.
func Tagged(rawCell string) bool {
	for _, line := range strings.Split(rawCell, "\n") {
		if _, _, ok := splitTag(strings.TrimSpace(strings.TrimSuffix(line, "\r"))); ok {
			return true
		}
	}
	return false
}

func splitTag(line string) (correct bool, text string, ok bool) {
	if len(line) < 3 {
		return false, "", false
	}
	tag := strings.ToUpper(line[:2])
	if line[2] != ':' || (tag != "CA" && tag != "IA") {
		return false, "", false
	}
	return tag == "CA", strings.TrimSpace(line[3:]), true
}
