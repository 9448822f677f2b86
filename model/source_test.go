package model

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_BufferSource_Read(t *testing.T) {
	src := NewBufferSource([]byte("0123456789"))
	require.Equal(t, int64(10), src.Size())
	require.Equal(t, int64(0), src.Tell())

	buf := make([]byte, 4)
	n, err := src.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "0123", string(buf))
	require.Equal(t, int64(4), src.Tell())

	all, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, "456789", string(all))

	_, err = src.Read(buf)
	require.ErrorIs(t, err, io.EOF)
}

func Test_BufferSource_Seek(t *testing.T) {
	tests := []struct {
		name     string
		offset   int64
		whence   int
		expected int64
	}{
		{"Start", 3, io.SeekStart, 3},
		{"Current", 2, io.SeekCurrent, 2},
		{"End", -4, io.SeekEnd, 6},
		{"Clamp below zero", -100, io.SeekStart, 0},
		{"Clamp past end", 100, io.SeekStart, 10},
		{"Clamp negative from end", -100, io.SeekEnd, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewBufferSource([]byte("0123456789"))
			pos, err := src.Seek(tt.offset, tt.whence)
			require.NoError(t, err)
			require.Equal(t, tt.expected, pos)
			require.Equal(t, tt.expected, src.Tell())
		})
	}
}

func Test_BufferSource_Seek_InvalidWhence(t *testing.T) {
	src := NewBufferSource([]byte("0123456789"))
	_, err := src.Seek(0, 7)
	require.Error(t, err)
}

func Test_BufferSource_SeekThenRead(t *testing.T) {
	src := NewBufferSource([]byte("0123456789"))
	_, err := src.Seek(-3, io.SeekEnd)
	require.NoError(t, err)

	rest, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, "789", string(rest))
}
