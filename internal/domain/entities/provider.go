package entities

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ProfileProviderID is the provider shown on the profile page
const ProfileProviderID int64 = 1

// MaxRating is the number of stars on every rating display
const MaxRating = 5

// Provider represents the cleaning professional on the profile page
type Provider struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Bio       string     `json:"bio" db:"bio"`
	Rating    int        `json:"rating" db:"rating"`
	CreatedAt *time.Time `json:"created_at,omitempty" db:"created_at"`
}

// FallbackProvider returns the mock provider shown whenever the backend cannot supply one.
// Every call returns a new value with identical content.
func FallbackProvider() *Provider {
	return &Provider{
		ID:     ProfileProviderID,
		Name:   "Maria Rodriguez",
		Bio:    "MOCK Professional house cleaner with 8+ years experience. Trusted by 200+ families for deep cleaning, weekly maintenance, and move-in/out services. Eco-friendly products and satisfaction guaranteed.",
		Rating: 5,
	}
}

// DisplayRating is the rating used for the star row; an unset rating shows as five stars
func (p *Provider) DisplayRating() int {
	if p == nil || p.Rating == 0 {
		return MaxRating
	}
	return p.Rating
}

// Initials returns the avatar placeholder text, e.g. "MR" for "Maria Rodriguez"
func (p *Provider) Initials() string {
	if p == nil {
		return "MC"
	}
	return Initials(p.Name)
}

// Initials returns the first letter of each word in name, or "MC" when name is blank
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "MC"
	}
	return b.String()
}

// StarGlyphs returns MaxRating flags, true for each filled star
func StarGlyphs(rating int) []bool {
	stars := make([]bool, MaxRating)
	for i := range stars {
		stars[i] = i < rating
	}
	return stars
}
