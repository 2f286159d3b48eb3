package scripts

import (
	"regexp"
	"strings"
)

// namedDeclaration matches a default export that declares a name of its own.
var namedDeclaration = regexp.MustCompile(`^(?:async\s+)?(?:function\s*\*?\s*|class\s+)([A-Za-z_$][\w$]*)`)

// flatten rewrites one file as printed by esbuild so that it runs in the
// shared global scope: import statements are dropped, export clauses are
// dropped and exported declarations lose their export keyword. Imported
// names resolve against the declarations of the other files.
//
// esbuild prints top-level statements at column zero, so only those lines
// are inspected.
func flatten(code string) string {
	var b strings.Builder
	skipping := false
	for _, line := range strings.SplitAfter(code, "\n") {
		if skipping {
			skipping = !endsStatement(line)
			continue
		}
		switch {
		case isImport(line), strings.HasPrefix(line, "export {"), strings.HasPrefix(line, "export *"):
			skipping = !endsStatement(line)
		case strings.HasPrefix(line, "export default "):
			b.WriteString(defaultExport(strings.TrimPrefix(line, "export default ")))
		case strings.HasPrefix(line, "export "):
			b.WriteString(strings.TrimPrefix(line, "export "))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}

func endsStatement(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t\r\n"), ";")
}

// isImport reports whether line starts a static import. Dynamic import()
// and import.meta are expressions and stay.
func isImport(line string) bool {
	rest, ok := strings.CutPrefix(line, "import")
	if !ok || rest == "" {
		return false
	}
	switch rest[0] {
	case ' ', '{', '*', '"', '\'':
		return true
	}
	return false
}

// defaultExport keeps named declarations as they are and binds anything
// else to a variable so the statement stays valid.
func defaultExport(rest string) string {
	if m := namedDeclaration.FindStringSubmatch(rest); m != nil && m[1] != "extends" {
		return rest
	}
	return "var __default = " + rest
}
