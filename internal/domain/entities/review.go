package entities

// Review is a customer testimonial. Reviews are client-side literals and are never persisted.
type Review struct {
	ID     int    `json:"id"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Date   string `json:"date"`
}

var mockReviews = [...]Review{
	{
		ID:     1,
		Rating: 4,
		Text:   "Amazing service! My house has never been cleaner. Professional and trustworthy.",
		Author: "Sarah M.",
		Date:   "2024-02-15",
	},
	{
		ID:     2,
		Rating: 5,
		Text:   "Great service! Always on time and does excellent work. Highly recommended.",
		Author: "Jennifer K.",
		Date:   "2024-02-10",
	},
	{
		ID:     3,
		Rating: 5,
		Text:   "Very thorough cleaning and friendly staff. Will book again!",
		Author: "Michael R.",
		Date:   "2024-02-05",
	},
}

// MockReviews returns a fresh copy of the literal review list in its original order
func MockReviews() []Review {
	out := make([]Review, len(mockReviews))
	copy(out, mockReviews[:])
	return out
}
