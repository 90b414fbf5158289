package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/microlearn/courseplayer/internal/auth"
	"github.com/microlearn/courseplayer/internal/progress"
)

// IdentifyHandler registers (or re-asserts) a learner identity and hands
// back a bearer token whose subject is the derived slug.
func IdentifyHandler(a *auth.AuthService, store *progress.Store) http.HandlerFunc {
	type out struct {
		AccessToken string            `json:"access_token"`
		Identity    progress.Identity `json:"identity"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "name required", 400)
			return
		}
		ident, err := store.SetIdentity(r.Context(), req.Name)
		if err != nil {
			http.Error(w, "persist identity", 500)
			return
		}
		tok, err := a.IssueJWT(ident.ID, ident.Name)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		writeJSON(w, out{AccessToken: tok, Identity: ident})
	}
}

// WhoAmIHandler echoes the persisted identity for the current token,
// exercising the store's self-healing read path.
func WhoAmIHandler(store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		ident := store.Identity(r.Context(), sub)
		if ident == (progress.Identity{}) {
			ident = progress.Identity{Name: auth.NameFromContext(r.Context()), ID: sub}
		}
		writeJSON(w, ident)
	}
}
