package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_PhysicalTypeName(t *testing.T) {
	tests := []struct {
		name     string
		code     int32
		expected string
	}{
		{"BOOLEAN", 0, "BOOLEAN"},
		{"INT32", 1, "INT32"},
		{"INT64", 2, "INT64"},
		{"BYTE_ARRAY", 6, "BYTE_ARRAY"},
		{"Unknown code", 99, "UNKNOWN(99)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, PhysicalTypeName(tt.code))
		})
	}
}

func Test_CodecName(t *testing.T) {
	tests := []struct {
		name     string
		code     int32
		expected string
	}{
		{"UNCOMPRESSED", 0, "UNCOMPRESSED"},
		{"SNAPPY", 1, "SNAPPY"},
		{"GZIP", 2, "GZIP"},
		{"ZSTD", 6, "ZSTD"},
		{"Unknown code", 42, "UNKNOWN(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, CodecName(tt.code))
		})
	}
}

func Test_EncodingName(t *testing.T) {
	require.Equal(t, "PLAIN", EncodingName(0))
	require.Equal(t, "RLE", EncodingName(3))
	require.Equal(t, "UNKNOWN(99)", EncodingName(99))
}

func Test_PageTypeName(t *testing.T) {
	tests := []struct {
		name     string
		code     int32
		expected string
	}{
		{"DATA_PAGE", 0, "DATA_PAGE"},
		{"INDEX_PAGE", 1, "INDEX_PAGE"},
		{"DICTIONARY_PAGE", 2, "DICTIONARY_PAGE"},
		{"DATA_PAGE_V2", 3, "DATA_PAGE_V2"},
		{"Unknown code", 7, "UNKNOWN(7)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, PageTypeName(tt.code))
		})
	}
}

func Test_RepetitionName(t *testing.T) {
	require.Equal(t, "REQUIRED", RepetitionName(0))
	require.Equal(t, "OPTIONAL", RepetitionName(1))
	require.Equal(t, "REPEATED", RepetitionName(2))
	require.Equal(t, "UNKNOWN(9)", RepetitionName(9))
}

func Test_ConvertedTypeName(t *testing.T) {
	require.Equal(t, "UTF8", ConvertedTypeName(0))
	require.Equal(t, "UNKNOWN(99)", ConvertedTypeName(99))
}

func Test_LogicalTypeName(t *testing.T) {
	require.Equal(t, "STRING", LogicalTypeName("STRING"))
	require.Equal(t, "-", LogicalTypeName(""))
}
