package domain

import (
	"testing"

	"collab-lab/errors"
	"github.com/stretchr/testify/require"
)

func TestParseStatus_AcceptsAnyCase(t *testing.T) {
	for token, expected := range map[string]Status{
		"ONLINE":  StatusOnline,
		"online":  StatusOnline,
		"Away":    StatusAway,
		"busy":    StatusBusy,
		"OFFLINE": StatusOffline,
		" online ": StatusOnline,
	} {
		status, err := ParseStatus(token)
		require.NoError(t, err, "token %q", token)
		require.Equal(t, expected, status)
	}
}

func TestParseStatus_RejectsUnknownToken(t *testing.T) {
	_, err := ParseStatus("INVISIBLE")
	require.ErrorIs(t, err, errors.ErrUnknownStatus)
}
