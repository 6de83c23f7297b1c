// Package coupling measures object-oriented structure and inter-file
// coupling with lightweight pattern matching, then places each file in the
// abstractness/instability plane.
package coupling

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/kersley/repogauge/pkg/analyzer/lexical"
	"github.com/kersley/repogauge/pkg/models"
)

// File is one source file offered for structural analysis. Files in
// languages without a class concept are ignored.
type File struct {
	Path    string
	Content string
}

// profile holds the per-language extraction patterns. Matching runs over
// comment- and string-free source.
type profile struct {
	name       string
	classes    []*regexp.Regexp
	abstract   []*regexp.Regexp
	interfaces []*regexp.Regexp
	methods    []*regexp.Regexp
	attributes []*regexp.Regexp
	deps       []*regexp.Regexp // first capture group is the dependency name
	// depSeparator is rewritten to "/" before matching dependencies
	// against file paths.
	depSeparator string
}

func rx(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

var (
	javaProfile = &profile{
		name:         "java",
		classes:      rx(`\bclass\s+(\w+)`, `\benum\s+(\w+)`, `\binterface\s+(\w+)`),
		abstract:     rx(`\babstract\s+class\s+(\w+)`, `\babstract\s+\w+\s+class\s+(\w+)`, `\binterface\s+(\w+)`),
		interfaces:   rx(`\binterface\s+(\w+)`),
		methods:      rx(`(?m)\b(?:public|private|protected|static)\s+[\w<>,\[\]]+\s+(\w+)\s*\(`),
		attributes:   rx(`(?m)\b(?:public|private|protected)\s+[\w<>,\[\]]+\s+(\w+)\s*[;=]`),
		deps:         rx(`\bimport\s+([\w.]+)`),
		depSeparator: ".",
	}

	pythonProfile = &profile{
		name:       "python",
		classes:    rx(`(?m)^class\s+(\w+)`),
		abstract:   rx(`(?m)^class\s+\w+\([^)]*ABC[^)]*\)`),
		interfaces: nil,
		methods:    rx(`(?m)^\s+def\s+(\w+)\s*\(`),
		attributes: rx(`self\.(\w+)\s*=`),
		deps: rx(`(?m)^from\s+([\w.]+)\s+import`,
			`(?m)^import\s+([\w.]+)`),
		depSeparator: ".",
	}

	cppProfile = &profile{
		name:       "cpp",
		classes:    rx(`\bclass\s+(\w+)`, `\bstruct\s+(\w+)`),
		abstract:   rx(`virtual\s+[^;]*=\s*0\s*;`),
		interfaces: nil,
		methods:    rx(`\b(\w+)\s*\([^)]*\)\s*\{`),
		attributes: rx(`(?m)^\s*[\w<>,*&\[\]]+\s+(\w+)\s*;`),
		deps:       rx(`#\s*include\s*[<"]([\w./]+)[>"]`),
	}

	jsProfile = &profile{
		name:       "javascript",
		classes:    rx(`\bclass\s+(\w+)`, `\binterface\s+(\w+)`),
		abstract:   rx(`\babstract\s+class\s+(\w+)`, `\binterface\s+(\w+)`),
		interfaces: rx(`\binterface\s+(\w+)`),
		methods:    rx(`\b(\w+)\s*\([^)]*\)\s*\{`, `\b(\w+):\s*\([^)]*\)\s*=>`),
		attributes: rx(`this\.(\w+)\s*=`),
		deps: rx(`import\s+[^;]*?from\s+["']([\w./@-]+)["']`,
			`require\s*\(\s*["']([\w./@-]+)["']`),
	}

	swiftProfile = &profile{
		name:       "swift",
		classes:    rx(`\bclass\s+(\w+)`, `\bstruct\s+(\w+)`),
		abstract:   rx(`\bprotocol\s+(\w+)`),
		interfaces: rx(`\bprotocol\s+(\w+)`),
		methods:    rx(`\bfunc\s+(\w+)\s*\(`),
		attributes: rx(`\bvar\s+(\w+)\s*:`, `\blet\s+(\w+)\s*:`),
		deps:       rx(`\bimport\s+(\w+)`),
	}

	goProfile = &profile{
		name:       "go",
		classes:    rx(`\btype\s+(\w+)\s+struct\s*\{`, `\btype\s+(\w+)\s+interface\s*\{`),
		abstract:   rx(`\btype\s+(\w+)\s+interface\s*\{`),
		interfaces: rx(`\btype\s+(\w+)\s+interface\s*\{`),
		methods:    rx(`\bfunc\s*\([^)]+\)\s*(\w+)\s*\(`),
		attributes: rx(`(?m)^\t(\w+)\s+[\w\[\]*.]+$`),
		deps:       rx(`(?m)^\s*(?:\w+\s+)?"([\w./-]+)"$`),
	}

	rustProfile = &profile{
		name:       "rust",
		classes:    rx(`\bstruct\s+(\w+)`, `\benum\s+(\w+)`, `\btrait\s+(\w+)`),
		abstract:   rx(`\btrait\s+(\w+)`),
		interfaces: rx(`\btrait\s+(\w+)`),
		methods:    rx(`\bfn\s+(\w+)\s*\(`),
		attributes: rx(`(?m)^\s*(?:pub\s+)?(\w+)\s*:\s*[\w<>,&'\[\] ]+,?\s*$`),
		deps: rx(`\buse\s+([\w:]+)`,
			`\bextern\s+crate\s+(\w+)`),
		depSeparator: "::",
	}

	rubyProfile = &profile{
		name:       "ruby",
		classes:    rx(`(?m)^\s*class\s+(\w+)`, `(?m)^\s*module\s+(\w+)`),
		abstract:   rx(`(?m)^\s*module\s+(\w+)`),
		interfaces: rx(`(?m)^\s*module\s+(\w+)`),
		methods:    rx(`(?m)^\s*def\s+(\w+)`),
		attributes: rx(`@(\w+)\s*=`),
		deps:       rx(`\brequire(?:_relative)?\s+["']([\w/.-]+)["']`),
	}

	phpProfile = &profile{
		name:       "php",
		classes:    rx(`\bclass\s+(\w+)`, `\binterface\s+(\w+)`, `\btrait\s+(\w+)`),
		abstract:   rx(`\babstract\s+class\s+(\w+)`, `\binterface\s+(\w+)`),
		interfaces: rx(`\binterface\s+(\w+)`),
		methods:    rx(`\bfunction\s+(\w+)\s*\(`),
		attributes: rx(`(?:public|private|protected)\s+\$(\w+)`),
		deps:       rx(`\buse\s+([\w\\]+)`),
	}
)

var extensionProfiles = map[string]*profile{
	".java":  javaProfile,
	".kt":    javaProfile,
	".kts":   javaProfile,
	".scala": javaProfile,
	".cs":    javaProfile,
	".py":    pythonProfile,
	".pyi":   pythonProfile,
	".c":     cppProfile,
	".cc":    cppProfile,
	".cpp":   cppProfile,
	".cxx":   cppProfile,
	".h":     cppProfile,
	".hh":    cppProfile,
	".hpp":   cppProfile,
	".js":    jsProfile,
	".jsx":   jsProfile,
	".mjs":   jsProfile,
	".ts":    jsProfile,
	".tsx":   jsProfile,
	".swift": swiftProfile,
	".go":    goProfile,
	".rs":    rustProfile,
	".rb":    rubyProfile,
	".php":   phpProfile,
}

type fileAnalysis struct {
	metrics models.CouplingMetrics
	deps    map[string]bool
}

// Analyze runs the structural analysis over the given files and derives the
// coupling report. Files without a matching language profile are excluded.
func Analyze(files []File) *models.CouplingReport {
	analyses := make(map[string]*fileAnalysis)
	var order []string

	for _, f := range files {
		p, ok := extensionProfiles[strings.ToLower(filepath.Ext(f.Path))]
		if !ok {
			continue
		}
		analyses[f.Path] = analyzeFile(p, f)
		order = append(order, f.Path)
	}

	resolveAfferent(analyses)

	report := &models.CouplingReport{
		ZoneCounts: make(map[models.CouplingZone]int),
	}
	var distances []float64

	sort.Strings(order)
	for _, path := range order {
		a := analyses[path]
		derive(&a.metrics)
		report.Files = append(report.Files, a.metrics)
		report.ZoneCounts[a.metrics.Zone]++
		distances = append(distances, a.metrics.Distance)
	}

	if len(distances) > 0 {
		report.AverageDistance = stat.Mean(distances, nil)
	}
	report.Recommendations = recommendations(report.AverageDistance,
		report.InZoneOfPain(), report.InZoneOfUselessness())
	return report
}

func analyzeFile(p *profile, f File) *fileAnalysis {
	clean := lexical.CleanSource(f.Path, f.Content)
	// Import paths live in string literals, so dependency extraction runs
	// with strings preserved.
	code := lexical.StripComments(f.Path, f.Content)

	a := &fileAnalysis{
		metrics: models.CouplingMetrics{Path: f.Path, Language: p.name},
		deps:    make(map[string]bool),
	}

	a.metrics.Classes = countMatches(p.classes, clean)
	a.metrics.Abstract = countMatches(p.abstract, clean)
	a.metrics.Methods = countMatches(p.methods, clean)
	a.metrics.Attributes = countDistinct(p.attributes, clean)
	a.metrics.Interfaces = countMatches(p.interfaces, clean)

	for _, re := range p.deps {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			if len(m) > 1 && m[1] != "" {
				a.deps[m[1]] = true
			}
		}
	}
	a.metrics.Efferent = len(a.deps)
	return a
}

func countMatches(res []*regexp.Regexp, s string) int {
	total := 0
	for _, re := range res {
		total += len(re.FindAllStringIndex(s, -1))
	}
	return total
}

func countDistinct(res []*regexp.Regexp, s string) int {
	seen := make(map[string]bool)
	for _, re := range res {
		for _, m := range re.FindAllStringSubmatch(s, -1) {
			if len(m) > 1 {
				seen[m[1]] = true
			}
		}
	}
	return len(seen)
}

// resolveAfferent builds the reverse dependency map. A dependency resolves
// to a file when its separator-normalized name appears in the file's path.
// Afferent coupling counts distinct dependent files, so several imports in
// one file resolving to the same target still count once.
func resolveAfferent(analyses map[string]*fileAnalysis) {
	dependents := make(map[string]map[string]bool)

	for path, a := range analyses {
		sep := "."
		if p := profileFor(path); p != nil && p.depSeparator != "" {
			sep = p.depSeparator
		}
		for dep := range a.deps {
			normalized := strings.ReplaceAll(dep, sep, "/")
			for target := range analyses {
				if target == path {
					continue
				}
				if strings.Contains(target, normalized) || strings.Contains(target, dep) {
					if dependents[target] == nil {
						dependents[target] = make(map[string]bool)
					}
					dependents[target][path] = true
				}
			}
		}
	}

	for target, set := range dependents {
		analyses[target].metrics.Afferent = len(set)
	}
}

func profileFor(path string) *profile {
	return extensionProfiles[strings.ToLower(filepath.Ext(path))]
}

func derive(m *models.CouplingMetrics) {
	if total := m.Efferent + m.Afferent; total > 0 {
		m.Instability = float64(m.Efferent) / float64(total)
	}
	if m.Classes > 0 {
		m.Abstractness = float64(m.Abstract) / float64(m.Classes)
		if m.Abstractness > 1 {
			m.Abstractness = 1
		}
	}
	m.Distance = abs(m.Abstractness + m.Instability - 1)
	m.Zone = classifyZone(m.Abstractness, m.Instability, m.Distance)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func classifyZone(a, i, d float64) models.CouplingZone {
	switch {
	case d < 0.2:
		return models.ZoneMainSequence
	case d <= 0.4:
		return models.ZoneBalanced
	case a < 0.3 && i < 0.3:
		return models.ZoneOfPain
	case a > 0.7 && i > 0.7:
		return models.ZoneOfUselessness
	default:
		return models.ZoneDrifting
	}
}

func recommendations(avgDistance float64, pain, useless int) []string {
	var recs []string

	switch {
	case avgDistance > 0.4:
		recs = append(recs, "Average distance from main sequence is high (> 0.4). Consider significant refactoring to improve design balance.")
	case avgDistance > 0.2:
		recs = append(recs, "Average distance from main sequence is moderate (0.2-0.4). Some refactoring may improve design quality.")
	default:
		recs = append(recs, "Average distance from main sequence is good (< 0.2). Design is well-balanced.")
	}

	if pain > 0 {
		recs = append(recs, fmt.Sprintf("%d file(s) in the zone of pain (stable but concrete). Consider adding abstraction layers to improve extensibility.", pain))
	}
	if useless > 0 {
		recs = append(recs, fmt.Sprintf("%d file(s) in the zone of uselessness (abstract but unstable). Consider adding concrete implementations or removing unused abstractions.", useless))
	}
	return recs
}
