package model

import (
	"fmt"

	"github.com/hangxie/parquet-go/v2/parquet"
)

// Enum resolution for the integer codes carried by the source JSON. The
// parquet thrift definitions already carry the display names; unknown codes
// fall back to UNKNOWN(n) instead of the thrift placeholder.

func enumName(name string, raw int32) string {
	if name == "" || name == "<UNSET>" {
		return fmt.Sprintf("UNKNOWN(%d)", raw)
	}
	return name
}

// PhysicalTypeName maps a physical type code to its display name.
func PhysicalTypeName(v int32) string {
	return enumName(parquet.Type(v).String(), v)
}

// CodecName maps a compression codec code to its display name.
func CodecName(v int32) string {
	return enumName(parquet.CompressionCodec(v).String(), v)
}

// EncodingName maps an encoding code to its display name.
func EncodingName(v int32) string {
	return enumName(parquet.Encoding(v).String(), v)
}

// PageTypeName maps a page type code to its display name.
func PageTypeName(v int32) string {
	return enumName(parquet.PageType(v).String(), v)
}

// RepetitionName maps a field repetition code to its display name.
func RepetitionName(v int32) string {
	return enumName(parquet.FieldRepetitionType(v).String(), v)
}

// ConvertedTypeName maps a converted type code to its display name.
func ConvertedTypeName(v int32) string {
	return enumName(parquet.ConvertedType(v).String(), v)
}

// LogicalTypeName normalizes the logical type string from the source JSON.
// The upstream tool emits it pre-formatted, so this is a pass-through with a
// placeholder for absence.
func LogicalTypeName(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
