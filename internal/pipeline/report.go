package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// reportSchemaVersion tracks the build-report.json layout for consumers.
const reportSchemaVersion = 1

// Report is the serialized build summary written next to the output tree.
type Report struct {
	SchemaVersion   int       `json:"schema_version"`
	BuildID         string    `json:"build_id"`
	Fingerprint     string    `json:"fingerprint"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMs      int64     `json:"duration_ms"`
	Pages           int       `json:"pages"`
	Fragments       int       `json:"fragments"`
	SkippedPages    int       `json:"skipped_pages"`
	VariantsDerived int       `json:"variants_derived"`
	VariantsReused  int       `json:"variants_reused"`
	MissingSources  int       `json:"missing_image_sources"`
	FailedVariants  int       `json:"failed_variants"`
}

// WriteReport serializes the build result as build-report.json in outputDir.
func WriteReport(outputDir string, result *Result) error {
	report := Report{
		SchemaVersion:   reportSchemaVersion,
		BuildID:         result.BuildID,
		Fingerprint:     result.Fingerprint,
		Start:           result.Start,
		End:             result.End,
		DurationMs:      result.Duration().Milliseconds(),
		Pages:           result.Pages,
		Fragments:       result.Fragments,
		SkippedPages:    result.SkippedPages,
		VariantsDerived: result.ImageStats.Derived,
		VariantsReused:  result.ImageStats.Reused,
		MissingSources:  result.ImageStats.MissingSources,
		FailedVariants:  result.ImageStats.FailedVariants,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "build-report.json"), append(data, '\n'), 0o644)
}
