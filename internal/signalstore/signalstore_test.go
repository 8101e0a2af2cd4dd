package signalstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minicortex/core/internal/signalstore"
)

func TestFeedbackReadsNoneOnTickZero(t *testing.T) {
	s := signalstore.New()
	_, ok := s.ReadPrevious(signalstore.Key{InstanceID: "a", OutputKey: "out"})
	assert.False(t, ok)
}

func TestAdvancePromotesCurrentToPrevious(t *testing.T) {
	s := signalstore.New()
	k := signalstore.Key{InstanceID: "a", OutputKey: "out"}
	s.WriteCurrent(k, 42.0)
	s.Advance()

	prev, ok := s.ReadPrevious(k)
	assert.True(t, ok)
	assert.Equal(t, 42.0, prev)

	_, ok = s.ReadCurrent(k)
	assert.False(t, ok)
}

func TestForgetRemovesInstanceSlots(t *testing.T) {
	s := signalstore.New()
	k := signalstore.Key{InstanceID: "a", OutputKey: "out"}
	s.WriteCurrent(k, 1.0)
	s.Advance()
	s.Forget("a")
	_, ok := s.ReadPrevious(k)
	assert.False(t, ok)
}
