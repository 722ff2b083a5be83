package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	simdiskerrors "simdisk/errors"
)

func TestWithMessageWraps(t *testing.T) {
	err := simdiskerrors.ErrExists.WithMessage("/home/foo")
	require.Equal(t, "/home/foo", err.Error())
	require.True(t, stderrors.Is(err, simdiskerrors.ErrExists))
}

func TestWrapErrorIncludesUnderlying(t *testing.T) {
	inner := stderrors.New("disk full")
	err := simdiskerrors.ErrIO.WrapError(inner)
	require.Contains(t, err.Error(), "disk full")
	require.True(t, stderrors.Is(err, inner))
}

func TestDistinctKindsAreNotEqual(t *testing.T) {
	require.NotEqual(t, simdiskerrors.ErrExists, simdiskerrors.ErrExceeded)
}
