// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package group

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allaunthefox/DeDupeLab/internal/contextclass"
	"github.com/allaunthefox/DeDupeLab/internal/record"
)

type fakeSource struct {
	groups []record.DuplicateGroup
	err    error
}

func (f fakeSource) GetDuplicates(ctx context.Context) ([]record.DuplicateGroup, error) {
	return f.groups, f.err
}

func TestResolve_PicksLexicographicMinimumAsKeeper(t *testing.T) {
	r := Resolve(record.DuplicateGroup{
		SHA256:     "abc",
		ContextTag: contextclass.Unarchived,
		Paths:      []string{"/z.txt", "/a.txt", "/m.txt"},
	})
	assert.Equal(t, "/a.txt", r.Keeper)
	assert.Equal(t, []string{"/m.txt", "/z.txt"}, r.Sources)
	assert.Equal(t, contextclass.Unarchived, r.ContextTag)
}

func TestRun_ResolvesEveryGroup(t *testing.T) {
	src := fakeSource{groups: []record.DuplicateGroup{
		{SHA256: "a", ContextTag: contextclass.Unarchived, Paths: []string{"/b", "/a"}},
		{SHA256: "b", ContextTag: contextclass.Archived, Paths: []string{"/y", "/x"}},
	}}

	out, err := Run(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "/a", out[0].Keeper)
	assert.Equal(t, "/x", out[1].Keeper)
}

func TestRun_PropagatesSourceError(t *testing.T) {
	src := fakeSource{err: assert.AnError}
	_, err := Run(context.Background(), src)
	assert.ErrorIs(t, err, assert.AnError)
}
