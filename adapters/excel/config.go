package excel

import (
	"gofacets/adapters/coercer"
)

// ReaderConfig holds configuration for a CSV or XLSX artifact
type ReaderConfig struct {
	FilePath string `json:"file_path"`
	// Sheet names the XLSX sheet to read; empty means the first sheet
	Sheet          string                 `json:"sheet"`
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultReaderConfig returns sensible defaults for tabular artifacts
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
