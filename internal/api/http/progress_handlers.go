package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/microlearn/courseplayer/internal/auth"
	"github.com/microlearn/courseplayer/internal/course"
	"github.com/microlearn/courseplayer/internal/progress"

	"github.com/go-chi/chi/v5"
)

// GetProgressHandler returns the learner's state for a module. Unknown
// module ids read as empty state by design.
func GetProgressHandler(store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		writeJSON(w, store.State(r.Context(), sub, chi.URLParam(r, "moduleID")))
	}
}

// PutProgressHandler replaces the learner's whole state record.
func PutProgressHandler(store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var st progress.UserState
		if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if err := store.SetState(r.Context(), sub, chi.URLParam(r, "moduleID"), st); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, st)
	}
}

// SaveAudioTimeHandler records playback position for a clip.
func SaveAudioTimeHandler(store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			ClipID  string  `json:"clip_id"`
			Seconds float64 `json:"seconds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.ClipID == "" {
			http.Error(w, "clip_id required", 400)
			return
		}
		st, err := store.Update(r.Context(), sub, chi.URLParam(r, "moduleID"), func(s *progress.UserState) {
			s.SetAudioTime(req.ClipID, req.Seconds)
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, st)
	}
}

// SaveReflectionsHandler records free-text reflection answers.
func SaveReflectionsHandler(store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		st, err := store.Update(r.Context(), sub, chi.URLParam(r, "moduleID"), func(s *progress.UserState) {
			for k, v := range req {
				s.SetReflection(k, strings.TrimSpace(v))
			}
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, st)
	}
}

// SaveClipAnswerHandler grades a clip comprehension answer at save time
// and records the verdict alongside the value.
func SaveClipAnswerHandler(store *progress.Store, cat *course.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		moduleID := chi.URLParam(r, "moduleID")
		var req struct {
			ClipID        string `json:"clip_id"`
			QuestionOrder int    `json:"question_order"`
			Value         string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		var match *course.ClipQuestion
		for _, q := range cat.ClipQuestions(moduleID, req.ClipID) {
			if q.Order == req.QuestionOrder && q.Type == course.TypeChoice {
				q := q
				match = &q
				break
			}
		}
		if match == nil {
			http.Error(w, "question not found", 404)
			return
		}
		ans := progress.ClipAnswer{
			Value:   req.Value,
			Correct: strings.TrimSpace(req.Value) == strings.TrimSpace(match.Decoded.CorrectText),
		}
		st, err := store.Update(r.Context(), sub, moduleID, func(s *progress.UserState) {
			s.SetClipAnswer(match.Key(), ans)
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, st)
	}
}

// SaveSelectionHandler records a final-quiz answer.
func SaveSelectionHandler(store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		var req struct {
			QuestionID string `json:"question_id"`
			Choice     string `json:"choice"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.QuestionID == "" {
			http.Error(w, "question_id required", 400)
			return
		}
		st, err := store.Update(r.Context(), sub, chi.URLParam(r, "moduleID"), func(s *progress.UserState) {
			s.SetSelection(req.QuestionID, req.Choice)
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, st)
	}
}
