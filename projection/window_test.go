package projection

import (
	"testing"
	"time"

	"collab-lab/domain"
	"github.com/stretchr/testify/require"
)

func messageAt(contents string, at time.Time) domain.Message {
	return domain.Message{Contents: contents, CreatedAt: at}
}

func TestRecentWindow_KeepsLatestInChronologicalOrder(t *testing.T) {
	base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	messages := []domain.Message{
		messageAt("second", base.Add(1*time.Minute)),
		messageAt("fourth", base.Add(3*time.Minute)),
		messageAt("first", base),
		messageAt("third", base.Add(2*time.Minute)),
	}

	window := RecentWindow(messages, 3)

	require.Len(t, window, 3)
	require.Equal(t, "second", window[0].Contents)
	require.Equal(t, "third", window[1].Contents)
	require.Equal(t, "fourth", window[2].Contents)
}

func TestRecentWindow_ShorterInputIsReturnedWhole(t *testing.T) {
	base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	messages := []domain.Message{
		messageAt("b", base.Add(time.Minute)),
		messageAt("a", base),
	}

	window := RecentWindow(messages, 20)

	require.Len(t, window, 2)
	require.Equal(t, "a", window[0].Contents)
	require.Equal(t, "b", window[1].Contents)
}

func TestRecentWindow_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	messages := []domain.Message{
		messageAt("b", base.Add(time.Minute)),
		messageAt("a", base),
	}

	_ = RecentWindow(messages, 1)

	require.Equal(t, "b", messages[0].Contents)
	require.Equal(t, "a", messages[1].Contents)
}

func TestRecentWindow_ZeroAndEmpty(t *testing.T) {
	require.Empty(t, RecentWindow(nil, 20))
	require.Empty(t, RecentWindow([]domain.Message{messageAt("a", time.Now())}, 0))
}
