package progress

import "github.com/microlearn/courseplayer/internal/quiz"

// ClipAnswer is one graded comprehension answer recorded while listening
// to a clip.
type ClipAnswer struct {
	Value   string `json:"value"`
	Correct bool   `json:"correct"`
}

// UserState is everything persisted for one learner within one module.
// Created lazily on first read, mutated incrementally, never deleted.
type UserState struct {
	Quiz        map[string]string     `json:"quiz,omitempty"`        // questionID -> selected text
	ClipQuiz    map[string]ClipAnswer `json:"clipQuiz,omitempty"`    // clip question key -> graded answer
	Reflections map[string]string     `json:"reflections,omitempty"` // reflection key -> free text
	AudioTime   map[string]float64    `json:"audioTime,omitempty"`   // clipID -> elapsed seconds
	LastClipID  string                `json:"lastClipId,omitempty"`
	Result      *quiz.Result          `json:"result,omitempty"`
	Completed   bool                  `json:"completed,omitempty"`
}

// SetSelection records a quiz answer.
func (s *UserState) SetSelection(questionID, text string) {
	if s.Quiz == nil {
		s.Quiz = map[string]string{}
	}
	s.Quiz[questionID] = text
}

// SetClipAnswer records a graded clip-question answer.
func (s *UserState) SetClipAnswer(key string, a ClipAnswer) {
	if s.ClipQuiz == nil {
		s.ClipQuiz = map[string]ClipAnswer{}
	}
	s.ClipQuiz[key] = a
}

// SetReflection records a free-text reflection answer.
func (s *UserState) SetReflection(key, text string) {
	if s.Reflections == nil {
		s.Reflections = map[string]string{}
	}
	s.Reflections[key] = text
}

// SetAudioTime records playback position for a clip and remembers it as
// the last clip visited.
func (s *UserState) SetAudioTime(clipID string, seconds float64) {
	if s.AudioTime == nil {
		s.AudioTime = map[string]float64{}
	}
	s.AudioTime[clipID] = seconds
	s.LastClipID = clipID
}

// ApplyResult stores a quiz outcome. Completion is monotonic: a passing
// result marks the module completed and a later failing attempt never
// clears that mark.
func (s *UserState) ApplyResult(res quiz.Result) {
	s.Result = &res
	if res.Pass {
		s.Completed = true
	}
}
