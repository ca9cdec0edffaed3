package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleReturnsNewValue(t *testing.T) {
	st := New(true, false, false, "model-a")

	assert.False(t, st.ToggleProfanity())
	assert.False(t, st.ProfanityEnabled())

	assert.True(t, st.ToggleAdvertising())
	assert.True(t, st.AdvertisingEnabled())

	assert.True(t, st.ToggleSemantic())
	assert.True(t, st.SemanticEnabled())
}

func TestDoubleToggleRestoresOriginal(t *testing.T) {
	st := New(true, true, false, "model-a")

	st.ToggleProfanity()
	st.ToggleProfanity()
	assert.True(t, st.ProfanityEnabled())

	st.ToggleSemantic()
	st.ToggleSemantic()
	assert.False(t, st.SemanticEnabled())
}

func TestSetModel(t *testing.T) {
	st := New(true, true, true, "model-a")
	assert.Equal(t, "model-a", st.Model())

	st.SetModel("model-b")
	assert.Equal(t, "model-b", st.Model())
}

func TestExplicitSetters(t *testing.T) {
	st := New(false, false, false, "m")

	st.SetProfanity(true)
	st.SetAdvertising(true)
	st.SetSemantic(true)

	assert.True(t, st.ProfanityEnabled())
	assert.True(t, st.AdvertisingEnabled())
	assert.True(t, st.SemanticEnabled())
}
