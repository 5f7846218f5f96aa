// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_MatchesSHA256OfContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	content := []byte("hello")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	got, err := File(path)
	require.NoError(t, err)

	want := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestFile_IsDeterministicAcrossRepeatedCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repeat.txt")
	require.NoError(t, os.WriteFile(path, []byte("repeatable content"), 0o644))

	first, err := File(path)
	require.NoError(t, err)
	second, err := File(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFile_EmptyFileHashesToKnownConstant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", got)
}

func TestFile_ContentLargerThanChunkSizeStillHashesCorrectly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large.bin")
	content := strings.Repeat("x", ChunkSize+17)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := File(path)
	require.NoError(t, err)

	want := sha256.Sum256([]byte(content))
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestFile_MissingFileReturnsReadError(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope.txt"))
	var rerr *ReadError
	assert.ErrorAs(t, err, &rerr)
}

func TestFile_DirectoryReturnsReadError(t *testing.T) {
	dir := t.TempDir()
	_, err := File(dir)
	var rerr *ReadError
	assert.ErrorAs(t, err, &rerr)
}
