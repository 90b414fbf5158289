package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	api "github.com/microlearn/courseplayer/internal/api/http"
	"github.com/microlearn/courseplayer/internal/auth"
	"github.com/microlearn/courseplayer/internal/course"
	"github.com/microlearn/courseplayer/internal/kv"
	"github.com/microlearn/courseplayer/internal/progress"

	"github.com/go-chi/chi/v5"
)

func testCatalog(t *testing.T) *course.Catalog {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		course.FileModules: "module_id,module_title,order,pass_mark_percent\nm1,Prospecting,1,50\n",
		course.FileClips:   "clip_id,module_id,clip_title,audio_url,order\nc1,m1,Opening,media/c1.mp3,1\n",
		course.FileClipQuestions: "module_id,clip_id,question_order,question_type,question_text,answers\n" +
			"m1,c1,1,choice,Qualified?,\"CA: Yes\nIA: No\"\n",
		course.FileModuleQuiz: "module_id,question_id,question_order,question_text,answers\n" +
			"m1,q1,1,First?,\"CA: a\nIA: b\"\n" +
			"m1,q2,2,Second?,\"CA: c\nIA: d\"\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return course.Load(dir)
}

func testServer(t *testing.T) (*httptest.Server, *auth.AuthService, *progress.Store) {
	t.Helper()
	store := progress.NewStore(kv.NewInMemoryStore())
	cat := testCatalog(t)
	authSvc := auth.NewAuthService("test-secret")

	r := chi.NewRouter()
	r.Post("/auth/identify", api.IdentifyHandler(authSvc, store))
	r.Get("/courses/modules", api.ListModulesHandler(cat))
	r.Get("/courses/modules/{moduleID}/quiz", api.GetQuizHandler(cat))
	r.Get("/courses/modules/{moduleID}/clips/{clipID}/questions", api.ListClipQuestionsHandler(cat))
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Route("/progress/{moduleID}", func(mr chi.Router) {
			mr.Get("/", api.GetProgressHandler(store))
			mr.Post("/audio", api.SaveAudioTimeHandler(store))
			mr.Post("/clip-answers", api.SaveClipAnswerHandler(store, cat))
			mr.Post("/selections", api.SaveSelectionHandler(store))
			mr.Post("/submit", api.SubmitQuizHandler(store, cat))
			mr.Get("/certificate", api.CertificateHandler(store, cat))
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, authSvc, store
}

func do(t *testing.T, method, url, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp
}

func identify(t *testing.T, srv *httptest.Server, name string) string {
	t.Helper()
	var res struct {
		AccessToken string            `json:"access_token"`
		Identity    progress.Identity `json:"identity"`
	}
	resp := do(t, "POST", srv.URL+"/auth/identify", "", map[string]string{"name": name}, &res)
	if resp.StatusCode != 200 || res.AccessToken == "" {
		t.Fatalf("identify: status %d, token %q", resp.StatusCode, res.AccessToken)
	}
	return res.AccessToken
}

func TestQuizStripsAnswerKeys(t *testing.T) {
	srv, _, _ := testServer(t)
	var res struct {
		PassMark  int               `json:"pass_mark_percent"`
		Questions []json.RawMessage `json:"questions"`
	}
	do(t, "GET", srv.URL+"/courses/modules/m1/quiz", "", nil, &res)
	if res.PassMark != 50 || len(res.Questions) != 2 {
		t.Fatalf("got %+v", res)
	}
	for _, raw := range res.Questions {
		if bytes.Contains(raw, []byte("correct")) {
			t.Errorf("answer key leaked: %s", raw)
		}
	}
}

func TestProgressRequiresToken(t *testing.T) {
	srv, _, _ := testServer(t)
	resp := do(t, "GET", srv.URL+"/progress/m1/", "", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestLearnerFlow(t *testing.T) {
	srv, _, _ := testServer(t)
	token := identify(t, srv, "Jane Q. Public")

	// certificate before passing is refused
	if resp := do(t, "GET", srv.URL+"/progress/m1/certificate", token, nil, nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("certificate before pass: status %d", resp.StatusCode)
	}

	do(t, "POST", srv.URL+"/progress/m1/audio", token,
		map[string]interface{}{"clip_id": "c1", "seconds": 12.5}, nil)
	do(t, "POST", srv.URL+"/progress/m1/clip-answers", token,
		map[string]interface{}{"clip_id": "c1", "question_order": 1, "value": "Yes"}, nil)
	do(t, "POST", srv.URL+"/progress/m1/selections", token,
		map[string]string{"question_id": "q1", "choice": "a"}, nil)
	do(t, "POST", srv.URL+"/progress/m1/selections", token,
		map[string]string{"question_id": "q2", "choice": "wrong"}, nil)

	var st progress.UserState
	do(t, "GET", srv.URL+"/progress/m1/", token, nil, &st)
	if st.AudioTime["c1"] != 12.5 || st.LastClipID != "c1" {
		t.Errorf("audio state: %+v", st)
	}
	if !st.ClipQuiz["c_c1_1"].Correct {
		t.Errorf("clip answer not graded: %+v", st.ClipQuiz)
	}

	// 1 of 2 = 50%, inclusive boundary on a 50% pass mark
	var sub struct {
		Result struct {
			Percent int  `json:"percent"`
			Pass    bool `json:"pass"`
		} `json:"result"`
		Completed bool `json:"completed"`
		Verdicts  []struct {
			QuestionID string `json:"question_id"`
			Correct    bool   `json:"correct"`
		} `json:"verdicts"`
	}
	do(t, "POST", srv.URL+"/progress/m1/submit", token, nil, &sub)
	if sub.Result.Percent != 50 || !sub.Result.Pass || !sub.Completed {
		t.Fatalf("submit: %+v", sub)
	}
	if len(sub.Verdicts) != 2 || !sub.Verdicts[0].Correct || sub.Verdicts[1].Correct {
		t.Errorf("verdicts: %+v", sub.Verdicts)
	}

	// failing re-attempt keeps completion
	do(t, "POST", srv.URL+"/progress/m1/selections", token,
		map[string]string{"question_id": "q1", "choice": "wrong"}, nil)
	do(t, "POST", srv.URL+"/progress/m1/submit", token, nil, &sub)
	if sub.Result.Pass {
		t.Fatalf("re-attempt should fail: %+v", sub)
	}
	if !sub.Completed {
		t.Error("failing re-attempt cleared completion")
	}

	// certificate after a recorded pass... latest result failed, so 409
	if resp := do(t, "GET", srv.URL+"/progress/m1/certificate", token, nil, nil); resp.StatusCode != http.StatusConflict {
		t.Errorf("certificate with failing latest result: status %d", resp.StatusCode)
	}
}

func TestCertificatePayload(t *testing.T) {
	srv, _, _ := testServer(t)
	token := identify(t, srv, "Jane Q. Public")
	do(t, "POST", srv.URL+"/progress/m1/selections", token,
		map[string]string{"question_id": "q1", "choice": "a"}, nil)
	do(t, "POST", srv.URL+"/progress/m1/selections", token,
		map[string]string{"question_id": "q2", "choice": "c"}, nil)
	do(t, "POST", srv.URL+"/progress/m1/submit", token, nil, nil)

	var cert struct {
		Name        string `json:"name"`
		ModuleTitle string `json:"module_title"`
		Percent     int    `json:"percent"`
	}
	resp := do(t, "GET", srv.URL+"/progress/m1/certificate", token, nil, &cert)
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if cert.Name != "Jane Q. Public" || cert.ModuleTitle != "Prospecting" || cert.Percent != 100 {
		t.Fatalf("cert: %+v", cert)
	}
}

func TestStateIsolatedPerIdentity(t *testing.T) {
	srv, _, _ := testServer(t)
	jane := identify(t, srv, "Jane")
	john := identify(t, srv, "John")

	do(t, "POST", srv.URL+"/progress/m1/selections", jane,
		map[string]string{"question_id": "q1", "choice": "a"}, nil)

	var st progress.UserState
	do(t, "GET", srv.URL+"/progress/m1/", john, nil, &st)
	if len(st.Quiz) != 0 {
		t.Errorf("state leaked across identities: %+v", st)
	}
}
