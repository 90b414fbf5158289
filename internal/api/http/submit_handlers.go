package http

import (
	"net/http"
	"time"

	"github.com/microlearn/courseplayer/internal/auth"
	"github.com/microlearn/courseplayer/internal/course"
	"github.com/microlearn/courseplayer/internal/progress"
	"github.com/microlearn/courseplayer/internal/quiz"

	"github.com/go-chi/chi/v5"
)

type verdictView struct {
	QuestionID  string `json:"question_id"`
	Selected    string `json:"selected,omitempty"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// SubmitQuizHandler scores the learner's saved selections against the
// module quiz and persists the result. A module with no quiz rows scores
// zero rather than erroring, matching the store's default-reading stance.
func SubmitQuizHandler(store *progress.Store, cat *course.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		moduleID := chi.URLParam(r, "moduleID")

		passMark := course.DefaultPassMark
		if m, ok := cat.Module(moduleID); ok {
			passMark = m.PassMarkPercent
		}
		questions := cat.Quiz(moduleID)
		engineQs := make([]quiz.Question, 0, len(questions))
		for _, q := range questions {
			engineQs = append(engineQs, quiz.Question{ID: q.ID, CorrectText: q.Decoded.CorrectText})
		}

		st := store.State(r.Context(), sub, moduleID)
		res := quiz.Score(engineQs, st.Quiz, passMark)
		st.ApplyResult(res)
		if err := store.SetState(r.Context(), sub, moduleID, st); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}

		// Grade walks questions in order, so verdicts line up with the
		// catalog rows and cannot disagree with the persisted result.
		graded := quiz.Grade(engineQs, st.Quiz)
		verdicts := make([]verdictView, 0, len(questions))
		for i, q := range questions {
			v := graded[i]
			expl := q.Explanation
			if expl == "" {
				if v.Correct {
					expl = "Correct."
				} else {
					expl = "Review the lesson and try again."
				}
			}
			verdicts = append(verdicts, verdictView{
				QuestionID:  q.ID,
				Selected:    v.Selected,
				Correct:     v.Correct,
				Explanation: expl,
			})
		}

		writeJSON(w, map[string]interface{}{
			"result":    res,
			"completed": st.Completed,
			"verdicts":  verdicts,
		})
	}
}

// CertificateHandler returns the data the certificate renderer needs.
// Drawing the image is the frontend's job.
func CertificateHandler(store *progress.Store, cat *course.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sub := auth.SubjectFromContext(ctx)
		moduleID := chi.URLParam(r, "moduleID")

		st := store.State(ctx, sub, moduleID)
		if st.Result == nil || !st.Result.Pass {
			http.Error(w, "pass the quiz first", http.StatusConflict)
			return
		}

		name := store.Identity(ctx, sub).Name
		if name == "" {
			name = auth.NameFromContext(ctx)
		}
		title := moduleID
		if m, ok := cat.Module(moduleID); ok {
			title = m.Title
		}
		writeJSON(w, map[string]interface{}{
			"name":         name,
			"module_id":    moduleID,
			"module_title": title,
			"percent":      st.Result.Percent,
			"date":         time.Now().UTC().Format("2006-01-02"),
		})
	}
}
