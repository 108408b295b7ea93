package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRosterCacheRequiresClient(t *testing.T) {
	require.Nil(t, NewRosterCache(nil))
	require.Nil(t, NewRosterCache(&Redis{}))
}
