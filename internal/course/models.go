package course

import (
	"strconv"

	"github.com/microlearn/courseplayer/internal/answerkey"
)

// Question types for clip questions.
const (
	TypeReflect = "reflect" // free text, saved but never graded
	TypeChoice  = "choice"  // graded against the decoded answer key
)

type Module struct {
	ID              string `json:"module_id"`
	Title           string `json:"module_title"`
	Description     string `json:"module_description,omitempty"`
	PassMarkPercent int    `json:"pass_mark_percent"`
	Order           int    `json:"order"`
}

type Clip struct {
	ID       string `json:"clip_id"`
	ModuleID string `json:"module_id"`
	Title    string `json:"clip_title"`
	AudioURL string `json:"audio_url"`
	Order    int    `json:"order"`
}

// ClipQuestion is asked while a clip plays. Choice questions carry a
// decoded answer key; reflect questions carry none.
type ClipQuestion struct {
	ModuleID string             `json:"module_id"`
	ClipID   string             `json:"clip_id"`
	Order    int                `json:"question_order"`
	Type     string             `json:"question_type"`
	Text     string             `json:"question_text"`
	Decoded  answerkey.Question `json:"-"`
}

// Key is the slot this question's answer occupies in the learner state.
func (q ClipQuestion) Key() string {
	return "c_" + q.ClipID + "_" + strconv.Itoa(q.Order)
}

type QuizQuestion struct {
	ID          string             `json:"question_id"`
	ModuleID    string             `json:"module_id"`
	Order       int                `json:"question_order"`
	Text        string             `json:"question_text"`
	Explanation string             `json:"explanation,omitempty"`
	Decoded     answerkey.Question `json:"-"`
}
