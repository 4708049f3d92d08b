package blocks

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoiSize(t *testing.T) {
	require.Equal(t, int64(0), Roi{}.Size())
	require.Equal(t, int64(64), Roi{Offset: []int64{0}, Shape: []int64{64}}.Size())
	require.Equal(t, int64(24), Roi{Offset: []int64{1, 2, 3}, Shape: []int64{2, 3, 4}}.Size())
}

func TestRoiEnd(t *testing.T) {
	roi := Roi{Offset: []int64{10, 20}, Shape: []int64{5, 5}}
	require.Equal(t, []int64{15, 25}, roi.End())
}
