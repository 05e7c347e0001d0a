// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CandidateFile is a HEIC/HEIF file found during discovery.
type CandidateFile struct {
	// Path is the absolute path of the file.
	Path string `json:"path" yaml:"path"`

	// Ext is the detected extension, lower-cased (".heic" or ".heif").
	Ext string `json:"ext" yaml:"ext"`
}

// ConversionStatus is the terminal outcome of one file's conversion.
type ConversionStatus string

const (
	// StatusConverted means the JPEG was written and the original deleted.
	StatusConverted ConversionStatus = "converted"

	// StatusSkipped means the file was left untouched (sibling JPEG
	// already present).
	StatusSkipped ConversionStatus = "skipped"

	// StatusFailed means conversion failed or the original could not be
	// deleted afterwards.
	StatusFailed ConversionStatus = "failed"
)

// ConversionResult pairs a candidate with its outcome.
type ConversionResult struct {
	// Source is the original HEIC/HEIF path.
	Source string `json:"source" yaml:"source"`

	// Output is the JPEG path, set when one was produced.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Status is the terminal outcome.
	Status ConversionStatus `json:"status" yaml:"status"`

	// Reason describes why a file was skipped or failed.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}
