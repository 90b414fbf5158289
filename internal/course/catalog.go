// Package course loads the catalog (modules, clips, questions, quizzes)
// from tabular data files and serves it read-only to the API layer.
package course

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/microlearn/courseplayer/internal/answerkey"
	"github.com/microlearn/courseplayer/internal/tabular"
)

// Data file names expected under the data directory.
const (
	FileModules       = "Modules.csv"
	FileClips         = "Clips.csv"
	FileClipQuestions = "Clip_Questions.csv"
	FileModuleQuiz    = "Module_Quiz.csv"
)

const (
	defaultOrder    = 999
	DefaultPassMark = 80
)

// Legacy quiz sheets carry choices in fixed columns instead of a CA:/IA:
// answers cell.
var legacyChoiceColumns = []string{
	"choice_a", "choice_b", "choice_c", "choice_d",
	"distractor_1", "distractor_2", "distractor_3", "distractor_4",
}

type Catalog struct {
	mu            sync.RWMutex
	modules       []Module
	clips         map[string][]Clip         // moduleID -> ordered clips
	clipQuestions map[string][]ClipQuestion // moduleID|clipID -> ordered questions
	quizzes       map[string][]QuizQuestion // moduleID -> ordered questions
}

// Load reads the four data files from dir. A missing or unreadable file
// is logged and treated as empty; hand-curated data sets often ship
// without clip questions.
func Load(dir string) *Catalog {
	c := &Catalog{}
	c.reload(dir)
	return c
}

// Reload re-reads the data files, replacing the catalog atomically.
func (c *Catalog) Reload(dir string) { c.reload(dir) }

func (c *Catalog) reload(dir string) {
	modules := parseModules(readFile(dir, FileModules))
	clips := parseClips(readFile(dir, FileClips))
	clipQs := parseClipQuestions(readFile(dir, FileClipQuestions))
	quizzes := parseQuizzes(readFile(dir, FileModuleQuiz))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules = modules
	c.clips = clips
	c.clipQuestions = clipQs
	c.quizzes = quizzes
}

// Modules returns all modules sorted by order.
func (c *Catalog) Modules() []Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Module, len(c.modules))
	copy(out, c.modules)
	return out
}

// Module looks up a module by id.
func (c *Catalog) Module(id string) (Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// Clips returns a module's clips sorted by order.
func (c *Catalog) Clips(moduleID string) []Clip {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Clip(nil), c.clips[moduleID]...)
}

// Clip looks up one clip within a module.
func (c *Catalog) Clip(moduleID, clipID string) (Clip, bool) {
	for _, cl := range c.Clips(moduleID) {
		if cl.ID == clipID {
			return cl, true
		}
	}
	return Clip{}, false
}

// ClipQuestions returns the ordered questions for one clip.
func (c *Catalog) ClipQuestions(moduleID, clipID string) []ClipQuestion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ClipQuestion(nil), c.clipQuestions[moduleID+"|"+clipID]...)
}

// Quiz returns a module's final quiz questions sorted by order.
func (c *Catalog) Quiz(moduleID string) []QuizQuestion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]QuizQuestion(nil), c.quizzes[moduleID]...)
}

func readFile(dir, name string) string {
	buf, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		log.Printf("course: %s: %v (treating as empty)", name, err)
		return ""
	}
	return string(buf)
}

func parseModules(text string) []Module {
	var out []Module
	for _, r := range tabular.Parse(text) {
		id := r.Get("module_id")
		if id == "" {
			continue
		}
		out = append(out, Module{
			ID:              id,
			Title:           r.Get("module_title"),
			Description:     r.Get("module_description"),
			PassMarkPercent: atoiOr(r.Get("pass_mark_percent"), DefaultPassMark),
			Order:           atoiOr(r.Get("order"), defaultOrder),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func parseClips(text string) map[string][]Clip {
	byModule := map[string][]Clip{}
	for _, r := range tabular.Parse(text) {
		cl := Clip{
			ID:       r.Get("clip_id"),
			ModuleID: r.Get("module_id"),
			Title:    r.Get("clip_title"),
			AudioURL: r.Get("audio_url"),
			Order:    atoiOr(r.Get("order"), defaultOrder),
		}
		if cl.ID == "" || cl.ModuleID == "" {
			continue
		}
		byModule[cl.ModuleID] = append(byModule[cl.ModuleID], cl)
	}
	for id := range byModule {
		cs := byModule[id]
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].Order < cs[j].Order })
	}
	return byModule
}

func parseClipQuestions(text string) map[string][]ClipQuestion {
	byClip := map[string][]ClipQuestion{}
	for _, r := range tabular.Parse(text) {
		q := ClipQuestion{
			ModuleID: r.Get("module_id"),
			ClipID:   r.Get("clip_id"),
			Order:    atoiOr(r.Get("question_order"), defaultOrder),
			Type:     r.Get("question_type"),
			Text:     r.Get("question_text"),
		}
		if q.ModuleID == "" || q.ClipID == "" {
			continue
		}
		answers := r.Get("answers")
		if q.Type == "" {
			if answerkey.Tagged(answers) {
				q.Type = TypeChoice
			} else {
				q.Type = TypeReflect
			}
		}
		if q.Type == TypeChoice {
			if !answerkey.Tagged(answers) {
				log.Printf("course: clip question %s/%s #%d has no CA:/IA: lines; falling back to an always-correct choice",
					q.ModuleID, q.ClipID, q.Order)
			}
			q.Decoded = answerkey.Decode(answers)
		}
		key := q.ModuleID + "|" + q.ClipID
		byClip[key] = append(byClip[key], q)
	}
	for key := range byClip {
		qs := byClip[key]
		sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	}
	return byClip
}

func parseQuizzes(text string) map[string][]QuizQuestion {
	byModule := map[string][]QuizQuestion{}
	for _, r := range tabular.Parse(text) {
		q := QuizQuestion{
			ID:          r.Get("question_id"),
			ModuleID:    r.Get("module_id"),
			Order:       atoiOr(r.Get("question_order"), defaultOrder),
			Text:        r.Get("question_text"),
			Explanation: r.Get("explanation"),
		}
		if q.ID == "" || q.ModuleID == "" {
			continue
		}
		q.Decoded = decodeQuizRow(r)
		byModule[q.ModuleID] = append(byModule[q.ModuleID], q)
	}
	for id := range byModule {
		qs := byModule[id]
		sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	}
	return byModule
}

// decodeQuizRow prefers a CA:/IA: answers cell; sheets predating that
// format carry a correct_answer column plus choice/distractor columns,
// which are rewritten into the same tagged form before decoding.
func decodeQuizRow(r tabular.Record) answerkey.Question {
	if cell := r.Get("answers"); answerkey.Tagged(cell) {
		return answerkey.Decode(cell)
	}
	var lines []string
	correct := r.Get("correct_answer")
	if correct != "" {
		lines = append(lines, "CA: "+correct)
	}
	for _, col := range legacyChoiceColumns {
		if v := r.Get(col); v != "" && v != correct {
			lines = append(lines, "IA: "+v)
		}
	}
	if len(lines) == 0 {
		log.Printf("course: quiz question %s/%s has no answer key; falling back to an always-correct choice",
			r.Get("module_id"), r.Get("question_id"))
		return answerkey.Decode(r.Get("answers"))
	}
	return answerkey.Decode(strings.Join(lines, "\n"))
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
