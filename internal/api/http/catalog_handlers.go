package http

import (
	"net/http"

	"github.com/microlearn/courseplayer/internal/course"

	"github.com/go-chi/chi/v5"
)

func ListModulesHandler(cat *course.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mods := cat.Modules()
		type moduleView struct {
			course.Module
			ClipCount int `json:"clip_count"`
		}
		out := make([]moduleView, 0, len(mods))
		for _, m := range mods {
			out = append(out, moduleView{Module: m, ClipCount: len(cat.Clips(m.ID))})
		}
		writeJSON(w, out)
	}
}

func GetModuleHandler(cat *course.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := cat.Module(chi.URLParam(r, "moduleID"))
		if !ok {
			http.Error(w, "module not found", 404)
			return
		}
		writeJSON(w, m)
	}
}

func ListClipsHandler(cat *course.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, cat.Clips(chi.URLParam(r, "moduleID")))
	}
}

func ListClipQuestionsHandler(cat *course.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := cat.ClipQuestions(chi.URLParam(r, "moduleID"), chi.URLParam(r, "clipID"))
		writeJSON(w, clipQuestionViews(qs))
	}
}

func GetQuizHandler(cat *course.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleID := chi.URLParam(r, "moduleID")
		passMark := course.DefaultPassMark
		if m, ok := cat.Module(moduleID); ok {
			passMark = m.PassMarkPercent
		}
		writeJSON(w, map[string]interface{}{
			"module_id":         moduleID,
			"pass_mark_percent": passMark,
			"questions":         quizQuestionViews(cat.Quiz(moduleID)),
		})
	}
}
