package domain_test

import (
	"testing"
	"time"

	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsValidReactionType(t *testing.T) {
	for _, rt := range domain.ReactionTypes {
		assert.True(t, domain.IsValidReactionType(string(rt)), rt)
	}

	assert.False(t, domain.IsValidReactionType(""))
	assert.False(t, domain.IsValidReactionType("LIKE"))
	assert.False(t, domain.IsValidReactionType("laugh"))
}

func TestChirp_IsEdited(t *testing.T) {
	created := time.Date(2024, 3, 10, 12, 0, 0, 100_000_000, time.UTC)

	chirp := domain.Chirp{BaseModel: domain.BaseModel{CreatedAt: created, UpdatedAt: created}}
	assert.False(t, chirp.IsEdited())

	chirp.UpdatedAt = created.Add(300 * time.Millisecond)
	assert.False(t, chirp.IsEdited(), "same rendered second")

	chirp.UpdatedAt = created.Add(950 * time.Millisecond)
	assert.True(t, chirp.IsEdited(), "an edit within a second of posting still counts")

	chirp.UpdatedAt = created.Add(time.Hour)
	assert.True(t, chirp.IsEdited())
}
