package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertEntryKeepsAscendingOrder(t *testing.T) {
	board := []Entry{}
	board = upsertEntry(board, "alice", 0.5)
	board = upsertEntry(board, "bob", 0.3)
	board = upsertEntry(board, "carol", 0.7)

	require.Len(t, board, 3)
	assert.Equal(t, []Entry{
		{Name: "bob", ReactionTime: 0.3},
		{Name: "alice", ReactionTime: 0.5},
		{Name: "carol", ReactionTime: 0.7},
	}, board)
}

func TestUpsertEntryReplacesExistingName(t *testing.T) {
	board := []Entry{
		{Name: "bob", ReactionTime: 0.3},
		{Name: "alice", ReactionTime: 0.5},
	}
	board = upsertEntry(board, "alice", 0.1)

	require.Len(t, board, 2)
	assert.Equal(t, "alice", board[0].Name)
	assert.Equal(t, 0.1, board[0].ReactionTime)
}

func TestUpsertEntryTiesKeepArrivalOrder(t *testing.T) {
	board := []Entry{}
	board = upsertEntry(board, "first", 0.4)
	board = upsertEntry(board, "second", 0.4)

	require.Len(t, board, 2)
	assert.Equal(t, "first", board[0].Name)
	assert.Equal(t, "second", board[1].Name)
}

func TestEnsureAndResetAll(t *testing.T) {
	players := map[string]Participant{}
	assert.True(t, ensure(players, "alice"))
	assert.False(t, ensure(players, "alice"), "ensure must be idempotent")

	// Names are taken as-is: empty and whitespace are acceptable keys.
	assert.True(t, ensure(players, ""))
	assert.True(t, ensure(players, "  "))

	rt := 0.2
	players["alice"] = Participant{ReactionTime: &rt, Locked: true, Connected: true}
	resetAll(players)

	for name, p := range players {
		assert.False(t, p.Locked, name)
		assert.Nil(t, p.ReactionTime, name)
	}
}
