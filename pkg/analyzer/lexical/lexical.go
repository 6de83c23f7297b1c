// Package lexical computes per-file source metrics without parsing: line
// partition, Halstead software science counts, and McCabe cyclomatic
// complexity.
package lexical

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/kersley/repogauge/pkg/models"
)

// ErrBinaryContent marks files whose content is not text.
var ErrBinaryContent = errors.New("binary content")

// FileReadError means one file could not be analyzed. The file stays in the
// result set with zeroed metrics; the run continues.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("cannot analyze %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// binaryProbeSize bounds how much of the file is inspected for NUL bytes.
const binaryProbeSize = 8000

// IsBinary reports whether content looks like binary data.
func IsBinary(content []byte) bool {
	probe := content
	if len(probe) > binaryProbeSize {
		probe = probe[:binaryProbeSize]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// CleanSource returns src with comments and string literal bodies blanked
// out, using the language detected from path. Structural analyzers run
// their pattern matching over the result.
func CleanSource(path, src string) string {
	return stripCode(src, Detect(path), false)
}

// StripComments blanks comments but leaves string literals intact, for
// patterns that need to see quoted import paths.
func StripComments(path, src string) string {
	return stripCode(src, Detect(path), true)
}

// Analyze computes the lexical metrics for one file. Binary content yields
// zeroed metrics with Valid unset and ErrBinaryContent. The maintainability
// fields are left for the scorer to fill in.
func Analyze(path string, content []byte) (models.CodeMetrics, error) {
	if IsBinary(content) {
		return models.CodeMetrics{Level: models.ComplexitySimple}, ErrBinaryContent
	}

	lang := Detect(path)
	src := string(content)

	loc := countLOC(src, lang)
	tc := scanTokens(stripCode(src, lang, false), lang)

	cc := 1 + tc.decisions
	return models.CodeMetrics{
		LOC:        loc,
		Halstead:   tc.halstead(),
		Cyclomatic: cc,
		Level:      models.ClassifyComplexity(cc),
		Valid:      true,
	}, nil
}
