// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenRead_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	c := Checkpoint{
		Timestamp: 1700000000,
		DryRun:    false,
		Statistics: Statistics{
			Attempted: 2, Succeeded: 2, Skipped: 0, Errors: 0, BytesMoved: 30,
		},
		Moves: []Move{
			{Src: "/a", Dst: "/b", Size: 10, Timestamp: 1700000000},
			{Src: "/c", Dst: "/d", Size: 20, Timestamp: 1700000001},
		},
	}
	require.NoError(t, Write(path, c))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestWrite_NilMovesSerializeAsEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, Write(path, Checkpoint{DryRun: true}))

	got, err := Read(path)
	require.NoError(t, err)
	assert.NotNil(t, got.Moves)
	assert.Empty(t, got.Moves)
}

func TestRead_MissingFileIsError(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	var cerr *Error
	assert.ErrorAs(t, err, &cerr)
}

func TestRead_MalformedJSONIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, Write(path, Checkpoint{}))
	// Overwrite with invalid JSON directly (bypassing the durable writer).
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Read(path)
	var cerr *Error
	assert.ErrorAs(t, err, &cerr)
}
