package http_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/microlearn/courseplayer/internal/api/http"
	"github.com/microlearn/courseplayer/internal/storage"

	"github.com/go-chi/chi/v5"
)

func mediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	bs, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := chi.NewRouter()
	r.Route("/media", func(mr chi.Router) {
		api.MountMedia(mr, bs)
	})
	r.Post("/admin/media/*", api.UploadMediaHandler(bs))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func uploadMedia(t *testing.T, srv *httptest.Server, key, body string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "clip.bin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest("POST", srv.URL+"/admin/media/"+key, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestMediaUploadThenStream(t *testing.T) {
	srv := mediaServer(t)

	resp := uploadMedia(t, srv, "m1/c1.mp3", "audio-bytes")
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("upload: status %d", resp.StatusCode)
	}

	got, err := http.Get(srv.URL + "/media/m1/c1.mp3")
	if err != nil {
		t.Fatal(err)
	}
	defer got.Body.Close()
	if got.StatusCode != 200 {
		t.Fatalf("stream: status %d", got.StatusCode)
	}
	if ct := got.Header.Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("content type = %q, want audio/mpeg", ct)
	}
	body, err := io.ReadAll(got.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "audio-bytes" {
		t.Errorf("body = %q", body)
	}
}

func TestMediaContentTypes(t *testing.T) {
	srv := mediaServer(t)
	cases := map[string]string{
		"a.mp3": "audio/mpeg",
		"a.m4a": "audio/mp4",
		"a.ogg": "audio/ogg",
		"a.wav": "audio/wav",
		"a.bin": "application/octet-stream",
	}
	for key, want := range cases {
		uploadMedia(t, srv, key, "x").Body.Close()
		got, err := http.Get(srv.URL + "/media/" + key)
		if err != nil {
			t.Fatal(err)
		}
		got.Body.Close()
		if ct := got.Header.Get("Content-Type"); ct != want {
			t.Errorf("%s: content type = %q, want %q", key, ct, want)
		}
	}
}

func TestMediaMissingKey(t *testing.T) {
	srv := mediaServer(t)
	resp, err := http.Get(srv.URL + "/media/nope.mp3")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
