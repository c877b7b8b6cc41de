package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortPair(t *testing.T) {
	a, b := SortPair(9, 3)
	assert.Equal(t, uint(3), a)
	assert.Equal(t, uint(9), b)

	a, b = SortPair(3, 9)
	assert.Equal(t, uint(3), a)
	assert.Equal(t, uint(9), b)
}

func TestHasParticipant(t *testing.T) {
	c := &Chat{ParticipantA: 3, ParticipantB: 9}
	assert.True(t, c.HasParticipant(3))
	assert.True(t, c.HasParticipant(9))
	assert.False(t, c.HasParticipant(4))
}

func TestMessageTypeSets(t *testing.T) {
	for _, mt := range []MessageType{MessageText, MessageImage, MessageVideo, MessageAudio, MessageFile, MessageVoice, MessageGeolocation} {
		assert.True(t, mt.IsValid(), string(mt))
	}
	assert.False(t, MessageType("sticker").IsValid())
	assert.False(t, MessageType("").IsValid())

	assert.True(t, MessageImage.IsMedia())
	assert.True(t, MessageVoice.IsMedia())
	assert.False(t, MessageText.IsMedia())
	assert.False(t, MessageGeolocation.IsMedia())
}
