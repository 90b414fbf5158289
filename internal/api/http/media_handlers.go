package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/microlearn/courseplayer/internal/storage"

	"github.com/go-chi/chi/v5"
)

// MountMedia serves the audio files the catalog's audio_url cells point
// at. GET is public (the player streams clips without a token); PUT-style
// uploads go through the admin-guarded POST.
func MountMedia(r chi.Router, bs storage.BlobStore) {
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", mediaContentType(key))
		_, _ = io.Copy(w, rc)
	})
}

// UploadMediaHandler stores an audio file under the given key.
func UploadMediaHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if key == "" {
			http.Error(w, "key required", 400)
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", 400)
			return
		}
		defer f.Close()
		stored, err := bs.Put(key, f)
		if err != nil {
			http.Error(w, "store error: "+err.Error(), 500)
			return
		}
		writeJSON(w, map[string]string{"key": stored})
	}
}

func mediaContentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(key, ".m4a"):
		return "audio/mp4"
	case strings.HasSuffix(key, ".ogg"):
		return "audio/ogg"
	case strings.HasSuffix(key, ".wav"):
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}
