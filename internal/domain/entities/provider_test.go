package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFallbackProvider(t *testing.T) {
	p := FallbackProvider()

	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Maria Rodriguez", p.Name)
	assert.Equal(t, 5, p.Rating)
	assert.Contains(t, p.Bio, "MOCK")
	assert.Nil(t, p.CreatedAt)

	// Callers may mutate their copy without affecting later fallbacks.
	p.Name = "changed"
	assert.Equal(t, "Maria Rodriguez", FallbackProvider().Name)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "MR", Initials("Maria Rodriguez"))
	assert.Equal(t, "ÉB", Initials("élodie  bernard"))
	assert.Equal(t, "MC", Initials("   "))

	var p *Provider
	assert.Equal(t, "MC", p.Initials())
}

func TestStarGlyphs(t *testing.T) {
	assert.Equal(t, []bool{true, true, true, true, false}, StarGlyphs(4))
	assert.Equal(t, []bool{false, false, false, false, false}, StarGlyphs(0))
	assert.Len(t, StarGlyphs(9), MaxRating)
}

func TestProvider_DisplayRating(t *testing.T) {
	assert.Equal(t, 5, (&Provider{}).DisplayRating())
	assert.Equal(t, 3, (&Provider{Rating: 3}).DisplayRating())
}

func TestNewBooking(t *testing.T) {
	at := time.Date(2024, 2, 15, 9, 30, 0, 123456789, time.FixedZone("EST", -5*3600))
	b := NewBooking(1, at)

	assert.Equal(t, int64(1), b.ProviderID)
	assert.Equal(t, "2024-02-15T14:30:00.123Z", b.Timestamp)
	assert.Zero(t, b.ID)
}

func TestMockReviews_ReturnsIndependentCopies(t *testing.T) {
	first := MockReviews()
	first[0].Rating = 1
	first[1], first[2] = first[2], first[1]

	second := MockReviews()
	assert.Equal(t, []int{4, 5, 5}, []int{second[0].Rating, second[1].Rating, second[2].Rating})
	assert.Equal(t, []int{1, 2, 3}, []int{second[0].ID, second[1].ID, second[2].ID})
}
