package services

import (
	"cmp"
	"slices"

	"github.com/zatekoja/lickingclean/internal/domain/entities"
)

// SortMode governs the order of the review list
type SortMode string

const (
	SortOriginal   SortMode = "original"
	SortDescending SortMode = "desc"
	SortAscending  SortMode = "asc"
)

// Next returns the mode the toggle moves to from m
func (m SortMode) Next() SortMode {
	switch m {
	case SortOriginal:
		return SortDescending
	case SortDescending:
		return SortAscending
	default:
		return SortOriginal
	}
}

// NextActionLabel is the toggle button text. It names the action the next
// click performs, not the current order.
func (m SortMode) NextActionLabel() string {
	switch m {
	case SortOriginal:
		return "↓ Sort by Highest Rating"
	case SortDescending:
		return "↑ Sort by Lowest Rating"
	default:
		return "⟲ Reset to Original Order"
	}
}

// AriaLabel is the accessible description of the next toggle action
func (m SortMode) AriaLabel() string {
	switch m {
	case SortOriginal:
		return "Sort reviews by highest rating first"
	case SortDescending:
		return "Sort reviews by lowest rating first"
	default:
		return "Sort reviews to original order"
	}
}

// ToggleReviewSort applies one step of the original → desc → asc → original cycle.
// It never modifies current; the returned slice is always newly allocated.
// Sorting is stable relative to current. The reset step ignores current and
// returns a fresh copy of the literal review list.
func ToggleReviewSort(current []entities.Review, mode SortMode) ([]entities.Review, SortMode) {
	switch mode {
	case SortOriginal:
		sorted := slices.Clone(current)
		slices.SortStableFunc(sorted, func(a, b entities.Review) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
		return sorted, SortDescending
	case SortDescending:
		sorted := slices.Clone(current)
		slices.SortStableFunc(sorted, func(a, b entities.Review) int {
			return cmp.Compare(a.Rating, b.Rating)
		})
		return sorted, SortAscending
	default:
		return entities.MockReviews(), SortOriginal
	}
}
