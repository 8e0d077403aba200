// Package projection builds read-side views over stored messages.
// Handles ordering and windowing only.
// Does not load, persist, or mutate messages.
package projection

import (
	"sort"

	"collab-lab/domain"

	"github.com/samber/lo"
)

// RecentWindow returns the n most recent messages in chronological order.
// The input is sorted newest first, truncated to n, then reversed, which
// guarantees the window holds the latest entries while reading oldest
// to newest. The input slice is left untouched.
func RecentWindow(messages []domain.Message, n int) []domain.Message {
	window := make([]domain.Message, len(messages))
	copy(window, messages)

	sort.SliceStable(window, func(i, j int) bool {
		return window[i].CreatedAt.After(window[j].CreatedAt)
	})
	if n < 0 {
		n = 0
	}
	if len(window) > n {
		window = window[:n]
	}
	return lo.Reverse(window)
}
