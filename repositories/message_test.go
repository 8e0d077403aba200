package repositories

import (
	"fmt"
	"testing"
	"time"

	"collab-lab/domain"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/database"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func message(sender string, dest domain.Destination, contents string, at time.Time) domain.Message {
	return domain.Message{
		ID:          uuid.New(),
		Sender:      sender,
		Destination: dest,
		Contents:    contents,
		CreatedAt:   at,
	}
}

func Test_Store_And_Recent_SortedNewestFirst(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := database.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	repository := NewMessageRepository(badgerDB, blugeWriter, log, nil, 10)
	dest := domain.ChannelDestination("general")
	at := time.Now().UTC().Truncate(time.Microsecond)
	messages := []domain.Message{
		message("Alice", dest, "first", at),
		message("Bob", dest, "second", at.Add(1*time.Minute)),
		message("Clara", dest, "third", at.Add(2*time.Minute)),
	}
	for _, m := range messages {
		req.NoError(repository.Store(m))
	}

	// When fetching recent messages
	fetched, err := repository.Recent(dest)
	req.NoError(err)

	// Then they come out newest first, fully round-tripped
	req.Len(fetched, 3)
	req.Equal("third", fetched[0].Contents)
	req.Equal("second", fetched[1].Contents)
	req.Equal("first", fetched[2].Contents)
	req.Equal(messages[2], fetched[0])
}

func Test_Recent_HonorsLimit(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := database.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	repository := NewMessageRepository(badgerDB, blugeWriter, log, lo.ToPtr(2), 10)
	dest := domain.UserDestination("bob")
	at := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(repository.Store(message("Alice", dest, fmt.Sprintf("message %d", i), at.Add(time.Duration(i)*time.Minute))))
	}

	fetched, err := repository.Recent(dest)
	req.NoError(err)

	// Then only the two most recent messages survive the window
	req.Len(fetched, 2)
	req.Equal("message 4", fetched[0].Contents)
	req.Equal("message 3", fetched[1].Contents)
}

func Test_Recent_MatchesDestinationIgnoringCase(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := database.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	repository := NewMessageRepository(badgerDB, blugeWriter, log, nil, 10)
	at := time.Now().UTC()
	req.NoError(repository.Store(message("Alice", domain.ChannelDestination("General"), "hello", at)))

	fetched, err := repository.Recent(domain.ChannelDestination("gEnErAl"))
	req.NoError(err)
	req.Len(fetched, 1)
}

func Test_Recent_KeepsKindsSeparate(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := database.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	repository := NewMessageRepository(badgerDB, blugeWriter, log, nil, 10)
	at := time.Now().UTC()

	// Given a channel and a user sharing the same key
	req.NoError(repository.Store(message("Alice", domain.ChannelDestination("sam"), "to the channel", at)))
	req.NoError(repository.Store(message("Bob", domain.UserDestination("sam"), "to the user", at)))

	channelMessages, err := repository.Recent(domain.ChannelDestination("sam"))
	req.NoError(err)
	userMessages, err := repository.Recent(domain.UserDestination("sam"))
	req.NoError(err)

	req.Len(channelMessages, 1)
	req.Equal("to the channel", channelMessages[0].Contents)
	req.Len(userMessages, 1)
	req.Equal("to the user", userMessages[0].Contents)
}

func Test_Recent_EmptyDestination(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := database.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	repository := NewMessageRepository(badgerDB, blugeWriter, log, nil, 10)

	fetched, err := repository.Recent(domain.ChannelDestination("ghost-town"))
	req.NoError(err)
	req.Empty(fetched)
}

func Test_Search_FindsByContents(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := database.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	repository := NewMessageRepository(badgerDB, blugeWriter, log, nil, 10)
	dest := domain.ChannelDestination("general")
	at := time.Now().UTC()
	req.NoError(repository.Store(message("Alice", dest, "the deployment failed again", at)))
	req.NoError(repository.Store(message("Bob", dest, "lunch anyone?", at.Add(time.Minute))))
	req.NoError(repository.Store(message("Clara", domain.UserDestination("alice"), "deployment is green now", at.Add(2*time.Minute))))

	found, total, err := repository.Search(ctx, "deployment", 0)
	req.NoError(err)

	req.Equal(uint64(2), total)
	req.Len(found, 2)
	for _, m := range found {
		req.Contains(m.Contents, "deployment")
	}
}

func Test_Search_PagesWithOffset(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := database.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	searchLimit := 3
	repository := NewMessageRepository(badgerDB, blugeWriter, log, nil, searchLimit)
	dest := domain.ChannelDestination("general")
	at := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(repository.Store(message("Alice", dest, fmt.Sprintf("incident report %d", i), at.Add(time.Duration(i)*time.Second))))
	}

	page1, total, err := repository.Search(ctx, "incident", 0)
	req.NoError(err)
	req.Equal(uint64(5), total)
	req.Len(page1, searchLimit)

	page2, total, err := repository.Search(ctx, "incident", searchLimit)
	req.NoError(err)
	req.Equal(uint64(5), total)
	req.Len(page2, 2)

	// No document appears on both pages
	seen := make(map[uuid.UUID]struct{})
	for _, m := range append(page1, page2...) {
		_, duplicated := seen[m.ID]
		req.False(duplicated)
		seen[m.ID] = struct{}{}
	}
}

func Test_Search_NoMatch(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := database.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	repository := NewMessageRepository(badgerDB, blugeWriter, log, nil, 10)
	req.NoError(repository.Store(message("Alice", domain.ChannelDestination("general"), "hello world", time.Now().UTC())))

	found, total, err := repository.Search(ctx, "unobtainium", 0)
	req.NoError(err)
	req.Zero(total)
	req.Empty(found)
}

func Test_Count_TracksStores(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := database.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	repository := NewMessageRepository(badgerDB, blugeWriter, log, nil, 10)
	req.Zero(repository.Count())

	at := time.Now().UTC()
	req.NoError(repository.Store(message("Alice", domain.ChannelDestination("general"), "one", at)))
	req.NoError(repository.Store(message("Bob", domain.ChannelDestination("general"), "two", at.Add(time.Second))))

	req.Equal(uint64(2), repository.Count())
}
