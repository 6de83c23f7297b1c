package lexical

import (
	"path/filepath"
	"strings"
)

// Language describes the lexical surface of a source language: comment
// delimiters, the keyword set treated as Halstead operators, and the
// decision tokens counted toward cyclomatic complexity.
type Language struct {
	Name          string
	LineComments  []string
	BlockStart    string // empty when the language has no block comments
	BlockEnd      string
	Keywords      map[string]bool
	DecisionWords map[string]bool // keyword tokens adding a decision point
	DecisionOps   map[string]bool // operator tokens adding a decision point
	HasClasses    bool            // participates in coupling analysis
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var cStyleDecisionOps = set("&&", "||", "?")

var (
	langPython = &Language{
		Name:         "python",
		LineComments: []string{"#"},
		Keywords: set("class", "def", "import", "from", "as", "try", "except",
			"finally", "with", "async", "await", "yield", "lambda",
			"pass", "raise", "global", "nonlocal", "assert", "del",
			"True", "False", "None", "and", "or", "not", "in", "is",
			"if", "else", "elif", "for", "while", "return", "break", "continue"),
		DecisionWords: set("if", "elif", "for", "while", "except", "with", "and", "or"),
		DecisionOps:   set(),
		HasClasses:    true,
	}

	langJava = &Language{
		Name:         "java",
		LineComments: []string{"//"},
		BlockStart:   "/*",
		BlockEnd:     "*/",
		Keywords: set("class", "interface", "enum", "abstract", "final", "static",
			"public", "private", "protected", "extends", "implements",
			"new", "this", "super", "void", "null", "true", "false",
			"import", "package", "throws", "throw", "try", "catch",
			"finally", "switch", "case", "default",
			"synchronized", "volatile", "transient", "native",
			"if", "else", "for", "while", "return", "break", "continue"),
		DecisionWords: set("if", "for", "while", "case", "catch"),
		DecisionOps:   cStyleDecisionOps,
		HasClasses:    true,
	}

	langJavaScript = &Language{
		Name:         "javascript",
		LineComments: []string{"//"},
		BlockStart:   "/*",
		BlockEnd:     "*/",
		Keywords: set("class", "function", "const", "let", "var", "import",
			"export", "from", "default", "extends", "new", "this",
			"super", "async", "await", "yield", "null", "undefined",
			"true", "false", "typeof", "instanceof", "delete",
			"switch", "case", "try", "catch", "finally", "throw",
			"if", "else", "for", "while", "return", "break", "continue"),
		DecisionWords: set("if", "for", "while", "case", "catch"),
		DecisionOps:   cStyleDecisionOps,
		HasClasses:    true,
	}

	langTypeScript = &Language{
		Name:         "typescript",
		LineComments: []string{"//"},
		BlockStart:   "/*",
		BlockEnd:     "*/",
		Keywords: set("class", "function", "const", "let", "var", "import",
			"export", "from", "default", "extends", "implements",
			"interface", "type", "enum", "abstract", "new", "this",
			"super", "async", "await", "public", "private", "protected",
			"readonly", "static", "null", "undefined",
			"switch", "case", "try", "catch", "finally", "throw",
			"if", "else", "for", "while", "return", "break", "continue"),
		DecisionWords: set("if", "for", "while", "case", "catch"),
		DecisionOps:   cStyleDecisionOps,
		HasClasses:    true,
	}

	langCPP = &Language{
		Name:         "cpp",
		LineComments: []string{"//"},
		BlockStart:   "/*",
		BlockEnd:     "*/",
		Keywords: set("class", "struct", "enum", "union", "namespace", "template",
			"virtual", "override", "final", "static", "const", "mutable",
			"public", "private", "protected", "friend", "inline", "extern",
			"new", "delete", "this", "nullptr", "true", "false", "sizeof",
			"typedef", "using", "typename", "explicit", "operator",
			"switch", "case", "try", "catch", "throw",
			"if", "else", "for", "while", "return", "break", "continue"),
		DecisionWords: set("if", "for", "while", "case", "catch"),
		DecisionOps:   cStyleDecisionOps,
		HasClasses:    true,
	}

	langGo = &Language{
		Name:         "go",
		LineComments: []string{"//"},
		BlockStart:   "/*",
		BlockEnd:     "*/",
		Keywords: set("func", "type", "struct", "interface", "package", "import",
			"const", "var", "map", "chan", "go", "defer", "select", "case",
			"default", "range", "nil", "true", "false", "iota",
			"if", "else", "for", "return", "break", "continue"),
		DecisionWords: set("if", "for", "case", "select"),
		DecisionOps:   set("&&", "||"),
		HasClasses:    true, // struct + interface stand in for classes
	}

	langRust = &Language{
		Name:         "rust",
		LineComments: []string{"//"},
		BlockStart:   "/*",
		BlockEnd:     "*/",
		Keywords: set("fn", "struct", "enum", "trait", "impl", "mod", "use", "pub",
			"crate", "super", "self", "Self", "const", "static", "mut",
			"ref", "let", "match", "loop", "async", "await", "move",
			"dyn", "where", "unsafe", "extern",
			"if", "else", "for", "while", "return", "break", "continue"),
		DecisionWords: set("if", "for", "while", "loop", "match"),
		DecisionOps:   set("&&", "||"),
		HasClasses:    true, // struct + trait
	}

	langSwift = &Language{
		Name:         "swift",
		LineComments: []string{"//"},
		BlockStart:   "/*",
		BlockEnd:     "*/",
		Keywords: set("class", "struct", "enum", "protocol", "extension", "func",
			"var", "let", "import", "public", "private", "internal",
			"fileprivate", "open", "static", "final", "override",
			"init", "deinit", "self", "Self", "nil", "true", "false",
			"switch", "case", "guard", "do", "catch", "throw", "defer",
			"if", "else", "for", "while", "return", "break", "continue"),
		DecisionWords: set("if", "for", "while", "case", "catch", "guard"),
		DecisionOps:   cStyleDecisionOps,
		HasClasses:    true,
	}

	langRuby = &Language{
		Name:         "ruby",
		LineComments: []string{"#"},
		Keywords: set("class", "module", "def", "end", "require", "include",
			"attr_accessor", "attr_reader", "attr_writer", "new", "self",
			"nil", "true", "false", "begin", "rescue", "ensure", "raise",
			"yield", "and", "or", "not", "unless", "until", "when", "then",
			"if", "else", "elsif", "for", "while", "return", "break", "next"),
		DecisionWords: set("if", "elsif", "unless", "for", "while", "until", "when", "rescue", "and", "or"),
		DecisionOps:   set("&&", "||"),
		HasClasses:    true,
	}

	langPHP = &Language{
		Name:         "php",
		LineComments: []string{"//", "#"},
		BlockStart:   "/*",
		BlockEnd:     "*/",
		Keywords: set("class", "interface", "trait", "abstract", "final", "function",
			"public", "private", "protected", "static", "extends",
			"implements", "new", "echo", "use", "namespace", "require",
			"include", "null", "true", "false", "try", "catch", "throw",
			"switch", "case", "default",
			"if", "else", "elseif", "for", "foreach", "while", "return", "break", "continue"),
		DecisionWords: set("if", "elseif", "for", "foreach", "while", "case", "catch"),
		DecisionOps:   cStyleDecisionOps,
		HasClasses:    true,
	}

	langShell = &Language{
		Name:          "shell",
		LineComments:  []string{"#"},
		Keywords:      set("if", "then", "else", "elif", "fi", "for", "while", "until", "do", "done", "case", "esac", "function", "in", "local", "return", "exit"),
		DecisionWords: set("if", "elif", "for", "while", "until", "case"),
		DecisionOps:   set("&&", "||"),
	}

	langLua = &Language{
		Name:          "lua",
		LineComments:  []string{"--"},
		BlockStart:    "--[[",
		BlockEnd:      "]]",
		Keywords:      set("function", "local", "end", "nil", "true", "false", "and", "or", "not", "in", "then", "do", "repeat", "until", "if", "else", "elseif", "for", "while", "return", "break"),
		DecisionWords: set("if", "elseif", "for", "while", "until", "and", "or"),
		DecisionOps:   set(),
	}

	// langGeneric covers unknown extensions: C-style comments, no keywords.
	langGeneric = &Language{
		Name:          "generic",
		LineComments:  []string{"//"},
		BlockStart:    "/*",
		BlockEnd:      "*/",
		Keywords:      set(),
		DecisionWords: set(),
		DecisionOps:   set(),
	}
)

var extensionLanguages = map[string]*Language{
	".py":    langPython,
	".pyi":   langPython,
	".pyx":   langPython,
	".pxd":   langPython,
	".java":  langJava,
	".js":    langJavaScript,
	".jsx":   langJavaScript,
	".mjs":   langJavaScript,
	".cjs":   langJavaScript,
	".ts":    langTypeScript,
	".tsx":   langTypeScript,
	".c":     langCPP,
	".h":     langCPP,
	".cc":    langCPP,
	".cpp":   langCPP,
	".cxx":   langCPP,
	".hh":    langCPP,
	".hpp":   langCPP,
	".hxx":   langCPP,
	".cu":    langCPP,
	".cuh":   langCPP,
	".m":     langCPP,
	".mm":    langCPP,
	".cs":    langJava, // close enough lexically: C-style with classes
	".go":    langGo,
	".rs":    langRust,
	".swift": langSwift,
	".rb":    langRuby,
	".rake":  langRuby,
	".php":   langPHP,
	".phtml": langPHP,
	".kt":    langJava,
	".kts":   langJava,
	".scala": langJava,
	".sh":    langShell,
	".bash":  langShell,
	".zsh":   langShell,
	".lua":   langLua,
}

// Detect picks the language descriptor for a path by extension. Unknown
// extensions fall back to a generic C-style descriptor.
func Detect(path string) *Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return langGeneric
}
