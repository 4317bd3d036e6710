package prompt

import (
	"io"
	"strings"
	"sync"

	"keyfob/internal/domain"
)

// Script replays canned answers in order, one per question, and records every
// prompt it was shown. Running out of answers reports io.EOF.
type Script struct {
	mu      sync.Mutex
	answers []string

	// Asked holds every prompt shown, in order.
	Asked []string
}

var _ domain.Prompter = (*Script)(nil)

func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

func (s *Script) next(prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, prompt)
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *Script) Ask(prompt string) (string, error) {
	return s.next(prompt)
}

func (s *Script) AskSecret(prompt string) ([]byte, error) {
	a, err := s.next(prompt)
	if err != nil {
		return nil, err
	}
	return []byte(a), nil
}

func (s *Script) Confirm(prompt string, def bool) (bool, error) {
	a, err := s.next(prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(a) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
