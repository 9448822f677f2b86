package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_FormatBytes(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{"Zero bytes", 0, "0 B"},
		{"Less than 1KB", 512, "512 B"},
		{"Exactly 1KB", 1024, "1.0 KB"},
		{"1.5KB", 1536, "1.5 KB"},
		{"Exactly 1MB", 1024 * 1024, "1.0 MB"},
		{"1.2MB", 1228800, "1.2 MB"},
		{"Exactly 1GB", 1024 * 1024 * 1024, "1.0 GB"},
		{"Large value in TB", 1024 * 1024 * 1024 * 1024, "1.0 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatBytes(tt.bytes), "FormatBytes(%d) should match", tt.bytes)
		})
	}
}

func Test_FormatCount(t *testing.T) {
	tests := []struct {
		name     string
		n        int64
		expected string
	}{
		{"Zero", 0, "0"},
		{"Under a thousand", 999, "999"},
		{"Exactly a thousand", 1000, "1,000"},
		{"Millions", 1234567, "1,234,567"},
		{"Negative", -1234567, "-1,234,567"},
		{"Small negative", -42, "-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatCount(tt.n))
		})
	}
}

func Test_FormatRatio(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		expected string
	}{
		{"Typical", 2.5, "2.50x"},
		{"Unity", 1.0, "1.00x"},
		{"Zero", 0, "-"},
		{"Negative", -1, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatRatio(tt.ratio))
		})
	}
}
