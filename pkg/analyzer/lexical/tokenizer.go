package lexical

import (
	"strings"

	"github.com/kersley/repogauge/pkg/models"
)

// blockPairs returns the comment delimiters used for line classification.
// Python has no block comments but its docstrings behave like them for
// line counting purposes.
func (l *Language) blockPairs() [][2]string {
	if l.Name == "python" {
		return [][2]string{{`"""`, `"""`}, {`'''`, `'''`}}
	}
	if l.BlockStart == "" {
		return nil
	}
	return [][2]string{{l.BlockStart, l.BlockEnd}}
}

// countLOC partitions the file's lines into blank, comment, and program.
// The partition is exact: the three always sum to the physical count.
func countLOC(content string, lang *Language) models.LOCMetrics {
	lines := strings.Split(content, "\n")
	// A trailing newline produces one empty trailing element, not a line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	pairs := lang.blockPairs()
	var loc models.LOCMetrics
	loc.Physical = len(lines)

	inBlock := false
	var blockEnd string

	for _, line := range lines {
		if inBlock {
			loc.Comment++
			if idx := strings.Index(line, blockEnd); idx >= 0 {
				inBlock = false
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			loc.Blank++
			continue
		}

		if startsWithAny(trimmed, lang.LineComments) {
			loc.Comment++
			continue
		}

		if pair, ok := leadingBlockStart(trimmed, pairs); ok {
			loc.Comment++
			rest := trimmed[len(pair[0]):]
			if !strings.Contains(rest, pair[1]) {
				inBlock = true
				blockEnd = pair[1]
			}
			continue
		}

		loc.Program++
		// A block comment opened after code spills into following lines.
		for _, pair := range pairs {
			start := strings.Index(trimmed, pair[0])
			if start < 0 {
				continue
			}
			rest := trimmed[start+len(pair[0]):]
			if !strings.Contains(rest, pair[1]) {
				inBlock = true
				blockEnd = pair[1]
			}
			break
		}
	}
	return loc
}

func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func leadingBlockStart(s string, pairs [][2]string) ([2]string, bool) {
	for _, pair := range pairs {
		if strings.HasPrefix(s, pair[0]) {
			return pair, true
		}
	}
	return [2]string{}, false
}

// stripCode removes comments, and unless keepStrings is set also string
// literal bodies, replacing them with spaces so token positions stay
// line-stable. Operator and operand counting runs over the fully stripped
// result; import extraction needs the string literals left in place.
func stripCode(src string, lang *Language, keepStrings bool) string {
	out := []byte(src)
	n := len(src)
	i := 0

	triple := lang.Name == "python"
	backtickString := lang.Name == "go" || lang.Name == "javascript" ||
		lang.Name == "typescript" || lang.Name == "shell"

	blank := func(from, to int) {
		for j := from; j < to && j < n; j++ {
			if out[j] != '\n' {
				out[j] = ' '
			}
		}
	}

	skipString := func(start int, delim string, escapes bool) int {
		j := start + len(delim)
		for j < n {
			if escapes && src[j] == '\\' && j+1 < n {
				j += 2
				continue
			}
			if strings.HasPrefix(src[j:], delim) {
				return j + len(delim)
			}
			j++
		}
		return n
	}

	for i < n {
		c := src[i]

		// Block comments before line comments: Lua's --[[ starts with --.
		if lang.BlockStart != "" && strings.HasPrefix(src[i:], lang.BlockStart) {
			end := strings.Index(src[i+len(lang.BlockStart):], lang.BlockEnd)
			stop := n
			if end >= 0 {
				stop = i + len(lang.BlockStart) + end + len(lang.BlockEnd)
			}
			blank(i, stop)
			i = stop
			continue
		}

		if lineCommentAt(src, i, lang.LineComments) {
			stop := i
			for stop < n && src[stop] != '\n' {
				stop++
			}
			blank(i, stop)
			i = stop
			continue
		}

		if triple && (strings.HasPrefix(src[i:], `"""`) || strings.HasPrefix(src[i:], `'''`)) {
			delim := src[i : i+3]
			stop := skipString(i, delim, true)
			if !keepStrings {
				blank(i, stop)
			}
			i = stop
			continue
		}

		if c == '"' || c == '\'' {
			stop := skipString(i, string(c), true)
			if !keepStrings {
				blank(i, stop)
			}
			i = stop
			continue
		}

		if c == '`' && backtickString {
			stop := skipString(i, "`", false)
			if !keepStrings {
				blank(i, stop)
			}
			i = stop
			continue
		}

		i++
	}
	return string(out)
}

func lineCommentAt(src string, i int, markers []string) bool {
	for _, m := range markers {
		if strings.HasPrefix(src[i:], m) {
			return true
		}
	}
	return false
}

// multiOps are recognized multi-character operator tokens, longest first.
var multiOps = []string{
	"<<=", ">>=", "...", "===", "!==",
	"&&", "||", "==", "!=", "<=", ">=", "->", "=>", "::", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", ":=", "<-",
	"**",
}

// tokenCounts holds the raw material for Halstead and McCabe metrics.
type tokenCounts struct {
	operators map[string]int
	operands  map[string]int
	decisions int
}

func (t tokenCounts) halstead() models.HalsteadMetrics {
	var totalOps, totalOperands int
	for _, c := range t.operators {
		totalOps += c
	}
	for _, c := range t.operands {
		totalOperands += c
	}
	return models.NewHalsteadMetrics(len(t.operators), len(t.operands), totalOps, totalOperands)
}

// scanTokens walks comment- and string-free code. Keywords and punctuation
// count as operators, identifiers and numbers as operands. Decision tokens
// are tallied for cyclomatic complexity.
func scanTokens(code string, lang *Language) tokenCounts {
	tc := tokenCounts{
		operators: make(map[string]int),
		operands:  make(map[string]int),
	}

	n := len(code)
	i := 0
	for i < n {
		c := code[i]

		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}

		if isIdentStart(c) {
			j := i + 1
			for j < n && isIdentPart(code[j]) {
				j++
			}
			word := code[i:j]
			if lang.Keywords[word] {
				tc.operators[word]++
			} else {
				tc.operands[word]++
			}
			// Decision tokens count even when the keyword table is
			// incomplete for a language.
			if lang.DecisionWords[word] {
				tc.decisions++
			}
			i = j
			continue
		}

		if c >= '0' && c <= '9' {
			j := i + 1
			for j < n && isNumberPart(code[j]) {
				j++
			}
			tc.operands[code[i:j]]++
			i = j
			continue
		}

		matched := false
		for _, op := range multiOps {
			if strings.HasPrefix(code[i:], op) {
				tc.operators[op]++
				if lang.DecisionOps[op] {
					tc.decisions++
				}
				i += len(op)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		op := string(c)
		tc.operators[op]++
		if lang.DecisionOps[op] {
			tc.decisions++
		}
		i++
	}
	return tc
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isNumberPart(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
		c == '.' || c == 'x' || c == 'X' || c == '_'
}
