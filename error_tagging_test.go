package dispatch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJobTaggedError(t *testing.T) {
	base := errors.New("base")
	err := newJobTaggedError(base, "b-1", 3)

	require.ErrorIs(t, err, base)
	require.Equal(t, "base", err.Error())
	require.Equal(t, "base", fmt.Sprintf("%v", err))
	require.Equal(t, "job(batch=b-1,index=3): base", fmt.Sprintf("%+v", err))
	require.Equal(t, `"base"`, fmt.Sprintf("%q", err))

	var jme JobMetaError
	require.ErrorAs(t, err, &jme)
	require.Equal(t, "b-1", jme.BatchID())
	require.Equal(t, 3, jme.JobIndex())

	require.NoError(t, newJobTaggedError(nil, "b-1", 0))
}

func TestExtract_WrappedAndMissing(t *testing.T) {
	err := fmt.Errorf("render: %w", newJobTaggedError(errors.New("x"), "b-2", 7))

	idx, ok := ExtractJobIndex(err)
	require.True(t, ok)
	require.Equal(t, 7, idx)

	id, ok := ExtractBatchID(err)
	require.True(t, ok)
	require.Equal(t, "b-2", id)

	_, ok = ExtractJobIndex(errors.New("plain"))
	require.False(t, ok)
	_, ok = ExtractBatchID(nil)
	require.False(t, ok)
}
