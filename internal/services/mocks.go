package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/commitintent/internal/config"
	"github.com/thomas-vilte/commitintent/internal/models"
)

type (
	MockDiffProvider struct {
		mock.Mock
	}

	MockIntentAnalyzer struct {
		mock.Mock
	}

	MockNotifier struct {
		mock.Mock
	}

	MockClipboard struct {
		mock.Mock
	}

	MockRunner struct {
		mock.Mock
	}
)

func (m *MockDiffProvider) IsRepository(ctx context.Context, path string) bool {
	args := m.Called(ctx, path)
	return args.Bool(0)
}

func (m *MockDiffProvider) GetDiff(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockIntentAnalyzer) Analyze(ctx context.Context, diff string, cfg config.Config) (string, error) {
	args := m.Called(ctx, diff, cfg)
	return args.String(0), args.Error(1)
}

func (m *MockNotifier) Notify(ctx context.Context, message string, actions ...models.Action) {
	m.Called(ctx, message, actions)
}

func (m *MockClipboard) SetText(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

func (m *MockRunner) Run(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// RecordingStatus records every status indicator call in order.
type RecordingStatus struct {
	mu    sync.Mutex
	Calls []string
}

func (s *RecordingStatus) Update(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "update:"+text)
}

func (s *RecordingStatus) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "clear")
}

func (s *RecordingStatus) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Calls...)
}

// FakeSource is an in-memory save-event source.
type FakeSource struct {
	mu       sync.Mutex
	handlers map[int]func(models.SaveEvent)
	next     int
}

func NewFakeSource() *FakeSource {
	return &FakeSource{handlers: make(map[int]func(models.SaveEvent))}
}

func (s *FakeSource) Subscribe(handler func(models.SaveEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.handlers[id] = handler
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

func (s *FakeSource) Emit(evt models.SaveEvent) {
	s.mu.Lock()
	handlers := make([]func(models.SaveEvent), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()
	for _, h := range handlers {
		h(evt)
	}
}

func (s *FakeSource) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}
