package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/commitintent/internal/models"
)

type fakeBanner struct {
	err      error
	panicVal interface{}
	messages []string
	actions  [][]models.Action
}

func (f *fakeBanner) ShowBanner(message string, actions []models.Action) error {
	if f.panicVal != nil {
		panic(f.panicVal)
	}
	f.messages = append(f.messages, message)
	f.actions = append(f.actions, actions)
	return f.err
}

type fakeStatus struct {
	err   error
	texts []string
}

func (f *fakeStatus) SetText(text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

func TestNotifier_Notify(t *testing.T) {
	copyAction := models.Action{Key: "c", Label: "Copy to Clipboard"}

	t.Run("should use the banner when it works", func(t *testing.T) {
		// Arrange
		banner := &fakeBanner{}
		status := &fakeStatus{}
		n := NewNotifier(banner, status)

		// Act
		n.Notify(context.Background(), "Feature: adds retry", copyAction)

		// Assert
		assert.Equal(t, []string{"Feature: adds retry"}, banner.messages)
		require.Len(t, banner.actions, 1)
		assert.Equal(t, "c", banner.actions[0][0].Key)
		assert.Empty(t, status.texts)
	})

	tests := []struct {
		name   string
		banner *fakeBanner
	}{
		{name: "banner unavailable", banner: nil},
		{name: "banner fails", banner: &fakeBanner{err: errors.New("no tty")}},
		{name: "banner panics", banner: &fakeBanner{panicVal: "boom"}},
	}
	for _, tt := range tests {
		t.Run("should fall back exactly once when "+tt.name, func(t *testing.T) {
			status := &fakeStatus{}
			var n *Notifier
			if tt.banner == nil {
				n = NewNotifier(nil, status)
			} else {
				n = NewNotifier(tt.banner, status)
			}

			n.Notify(context.Background(), "Failed to detect commit intent: timeout")

			assert.Equal(t, []string{"✓ Failed to detect commit intent: timeout"}, status.texts)
		})
	}

	t.Run("should swallow a failing fallback", func(t *testing.T) {
		n := NewNotifier(&fakeBanner{err: errors.New("down")}, &fakeStatus{err: errors.New("also down")})

		assert.NotPanics(t, func() {
			n.Notify(context.Background(), "message")
		})
	})

	t.Run("should survive with no surfaces at all", func(t *testing.T) {
		n := NewNotifier(nil, nil)

		assert.NotPanics(t, func() {
			n.Notify(context.Background(), "message")
		})
	})
}

func TestTerminalBanner(t *testing.T) {
	color.NoColor = true

	t.Run("should box the message and list actions", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		banner := NewTerminalBanner(&buf)

		// Act
		err := banner.ShowBanner("Feature: adds retry", []models.Action{{Key: "c", Label: "Copy to Clipboard"}})

		// Assert
		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "│ Feature: adds retry │")
		assert.Contains(t, out, "[c] Copy to Clipboard")
	})

	t.Run("should trigger the latest action by key", func(t *testing.T) {
		var buf bytes.Buffer
		banner := NewTerminalBanner(&buf)
		var copied []string
		action := func(text string) models.Action {
			return models.Action{Key: "c", Label: "Copy", Run: func() error {
				copied = append(copied, text)
				return nil
			}}
		}
		require.NoError(t, banner.ShowBanner("first", []models.Action{action("first")}))
		require.NoError(t, banner.ShowBanner("second", []models.Action{action("second")}))

		matched, err := banner.Trigger("C")
		missed, _ := banner.Trigger("x")

		require.NoError(t, err)
		assert.True(t, matched)
		assert.False(t, missed)
		assert.Equal(t, []string{"second"}, copied)
	})

	t.Run("should report nothing to trigger before any banner", func(t *testing.T) {
		banner := NewTerminalBanner(&bytes.Buffer{})

		matched, err := banner.Trigger("c")

		assert.NoError(t, err)
		assert.False(t, matched)
	})
}

func TestStatusLine(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	err := NewStatusLine(&buf).SetText("✓ Intent: docs")

	require.NoError(t, err)
	assert.Equal(t, "✓ Intent: docs\n", buf.String())
}
