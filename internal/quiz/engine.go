// Package quiz scores a learner's recorded selections against decoded
// quiz questions. Scoring is a pure reduction; persistence of the result
// belongs to the progress store.
package quiz

import (
	"math"
	"strings"
	"time"
)

// Question is the minimal view needed for scoring.
type Question struct {
	ID          string
	CorrectText string
}

type Result struct {
	Correct int       `json:"correct"`
	Total   int       `json:"total"`
	Percent int       `json:"percent"`
	Pass    bool      `json:"pass"`
	When    time.Time `json:"when"`
}

// Verdict is the graded outcome for one question.
type Verdict struct {
	ID       string
	Selected string
	Correct  bool
}

// Grade evaluates each question in order. Correctness is trimmed exact
// match; an unanswered question (no entry in selections) is incorrect.
func Grade(questions []Question, selections map[string]string) []Verdict {
	out := make([]Verdict, 0, len(questions))
	for _, q := range questions {
		sel, answered := selections[q.ID]
		out = append(out, Verdict{
			ID:       q.ID,
			Selected: sel,
			Correct:  answered && strings.TrimSpace(sel) == strings.TrimSpace(q.CorrectText),
		})
	}
	return out
}

// Score reduces Grade's verdicts to a result. The pass boundary is
// inclusive: percent == passMarkPercent passes. A module with zero
// questions scores 0 percent rather than dividing by zero.
func Score(questions []Question, selections map[string]string, passMarkPercent int) Result {
	correct := 0
	for _, v := range Grade(questions, selections) {
		if v.Correct {
			correct++
		}
	}
	total := len(questions)
	div := total
	if div < 1 {
		div = 1
	}
	percent := int(math.Round(100 * float64(correct) / float64(div)))
	return Result{
		Correct: correct,
		Total:   total,
		Percent: percent,
		Pass:    percent >= passMarkPercent,
		When:    time.Now().UTC(),
	}
}
