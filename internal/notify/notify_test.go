package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurface_ShowReplacesAndDismissClears(t *testing.T) {
	s := New()
	_, ok := s.Current()
	assert.False(t, ok)

	s.Show("first")
	s.Show("second")
	msg, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "second", msg)

	s.Show("")
	msg, _ = s.Current()
	assert.Equal(t, "second", msg)

	s.Dismiss()
	_, ok = s.Current()
	assert.False(t, ok)
}
