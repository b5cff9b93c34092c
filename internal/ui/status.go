package ui

import (
	"io"
	"sync"
)

// SpinnerStatus is the transient "working" indicator of a watch session.
// Update is ignored while enabled reports false; Clear always stops it.
type SpinnerStatus struct {
	mu      sync.Mutex
	spinner *SmartSpinner
	enabled func() bool
	text    string
	active  bool
}

func NewSpinnerStatus(w io.Writer, enabled func() bool) *SpinnerStatus {
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &SpinnerStatus{
		spinner: NewSmartSpinner(w, ""),
		enabled: enabled,
	}
}

func (s *SpinnerStatus) Update(text string) {
	if !s.enabled() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	s.spinner.UpdateMessage(text)
	if !s.active {
		s.spinner.Start()
		s.active = true
	}
}

func (s *SpinnerStatus) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		s.spinner.Stop()
		s.active = false
	}
	s.text = ""
}

// Text returns the message currently shown, or "" when cleared.
func (s *SpinnerStatus) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *SpinnerStatus) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
