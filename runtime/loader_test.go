package runtime

import (
	"testing"
	"testing/fstest"

	"collab-lab/errors"
	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)

	// Given two dictionaries sharing a word, with mixed line endings
	fsys := fstest.MapFS{
		"censored/en.txt": {Data: []byte("badger\nsnake\r\nbadger\n\n")},
		"censored/fr.txt": {Data: []byte("blaireau\nbadger\n")},
		"censored/notes":  {Data: []byte("ignored, not a dictionary")},
	}

	data, err := NewCensoredLoader(fsys).LoadAll("censored")

	req.NoError(err)
	// Then words are unique and sorted
	req.Equal([]string{"badger", "blaireau", "snake"}, data.Words)
	req.Equal([]string{"en", "fr"}, data.Languages)
}

func TestCensoredLoader_EmptyDictionaries(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/en.txt": {Data: []byte("\n  \n")},
	}

	_, err := NewCensoredLoader(fsys).LoadAll("censored")

	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestCensoredLoader_RejectsSubdirectories(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/extra/en.txt": {Data: []byte("badger\n")},
	}

	_, err := NewCensoredLoader(fsys).LoadAll("censored")

	req.ErrorIs(err, errors.ErrOnlyCensoredFiles)
}

func TestCensoredLoader_MissingDirectory(t *testing.T) {
	req := require.New(t)

	_, err := NewCensoredLoader(fstest.MapFS{}).LoadAll("censored")

	req.Error(err)
}
