// Package http holds the chi handlers for the course player API: catalog
// reads, learner identity, progress writes and quiz submission. Answer
// keys never leave this layer in learner-facing payloads.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/microlearn/courseplayer/internal/answerkey"
	"github.com/microlearn/courseplayer/internal/course"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// choiceTexts strips correctness flags, keeping the decoder's stable
// order. Shuffling for presentation is the frontend's concern.
func choiceTexts(q answerkey.Question) []string {
	out := make([]string, 0, len(q.Choices))
	for _, c := range q.Choices {
		out = append(out, c.Text)
	}
	return out
}

type clipQuestionView struct {
	ModuleID string   `json:"module_id"`
	ClipID   string   `json:"clip_id"`
	Order    int      `json:"question_order"`
	Type     string   `json:"question_type"`
	Key      string   `json:"key"`
	Text     string   `json:"question_text"`
	Choices  []string `json:"choices,omitempty"`
}

func clipQuestionViews(qs []course.ClipQuestion) []clipQuestionView {
	out := make([]clipQuestionView, 0, len(qs))
	for _, q := range qs {
		v := clipQuestionView{
			ModuleID: q.ModuleID,
			ClipID:   q.ClipID,
			Order:    q.Order,
			Type:     q.Type,
			Key:      q.Key(),
			Text:     q.Text,
		}
		if q.Type == course.TypeChoice {
			v.Choices = choiceTexts(q.Decoded)
		}
		out = append(out, v)
	}
	return out
}

type quizQuestionView struct {
	ID       string   `json:"question_id"`
	ModuleID string   `json:"module_id"`
	Order    int      `json:"question_order"`
	Text     string   `json:"question_text"`
	Choices  []string `json:"choices"`
}

func quizQuestionViews(qs []course.QuizQuestion) []quizQuestionView {
	out := make([]quizQuestionView, 0, len(qs))
	for _, q := range qs {
		out = append(out, quizQuestionView{
			ID:       q.ID,
			ModuleID: q.ModuleID,
			Order:    q.Order,
			Text:     q.Text,
			Choices:  choiceTexts(q.Decoded),
		})
	}
	return out
}
