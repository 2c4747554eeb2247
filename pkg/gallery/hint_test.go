package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHintFires(t *testing.T) {
	done := make(chan struct{})
	h := ShowHint(10*time.Millisecond, func() { close(done) })
	assert.True(t, h.Visible())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hint was not dismissed")
	}
	assert.False(t, h.Visible())
}

func TestHintCancel(t *testing.T) {
	fired := make(chan struct{}, 1)
	h := ShowHint(20*time.Millisecond, func() { fired <- struct{}{} })
	h.Cancel()
	h.Cancel()
	assert.False(t, h.Visible())

	select {
	case <-fired:
		t.Fatal("dismiss ran after Cancel")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestHintDisabled(t *testing.T) {
	h := ShowHint(-1, func() { t.Error("disabled hint fired") })
	assert.False(t, h.Visible())
	h.Cancel()
}
