// Package scanner extracts export annotations and type-registration
// directives from annotated C++ sources. It is a line-based annotation
// scanner, not a C++ parser: one prototype per annotation, terminated by
// ";" or "{".
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mlverse/torchexport/model"
)

// Result holds everything discovered in one scan, in source order.
// Directives are applied to the registry as an ordered phase before any
// declaration is generated.
type Result struct {
	Declarations []model.Declaration
	Directives   []model.Directive
}

var (
	exportPattern   = regexp.MustCompile(`^\s*//\s*\[\[\s*torch::export\s*\]\]\s*$`)
	registerPattern = regexp.MustCompile(`^\s*//\s*\[\[\s*torch::register_type\s*\((.*)\)\s*\]\]\s*$`)
	argPattern      = regexp.MustCompile(`"([^"]*)"`)
	protoPattern    = regexp.MustCompile(`^\s*(.+?)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)`)
	paramPattern    = regexp.MustCompile(`^(.*\S)\s+([A-Za-z_][A-Za-z0-9_]*)$`)
)

// ScanSources scans annotated source files in listed order. Relative paths
// are resolved against baseDir. Discovery order is the listed file order,
// then line order within each file; this order determines output ordering
// and first-registration-wins semantics.
func ScanSources(baseDir string, paths []string) (*Result, error) {
	combined := &Result{}
	for _, p := range paths {
		full := p
		if !filepath.IsAbs(full) {
			full = filepath.Join(baseDir, p)
		}
		res, err := ScanFile(full)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
		combined.Declarations = append(combined.Declarations, res.Declarations...)
		combined.Directives = append(combined.Directives, res.Directives...)
	}
	return combined, nil
}

// ScanFile scans a single annotated source file.
func ScanFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scan(f, filepath.Base(path))
}

func scan(r io.Reader, name string) (*Result, error) {
	result := &Result{}
	sc := bufio.NewScanner(r)

	lineNo := 0
	pendingExport := false
	pendingLine := 0
	var proto strings.Builder

	for sc.Scan() {
		lineNo++
		line := sc.Text()

		if m := registerPattern.FindStringSubmatch(line); m != nil {
			dir, err := parseRegisterArgs(m[1])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			result.Directives = append(result.Directives, dir)
			continue
		}

		if exportPattern.MatchString(line) {
			if pendingExport {
				return nil, fmt.Errorf("%s:%d: export annotation with no declaration follows the one at line %d", name, lineNo, pendingLine)
			}
			pendingExport = true
			pendingLine = lineNo
			proto.Reset()
			continue
		}

		if !pendingExport {
			continue
		}

		// Accumulate the prototype until its terminator.
		trimmed := strings.TrimSpace(line)
		if trimmed == "" && proto.Len() == 0 {
			continue
		}
		if proto.Len() > 0 {
			proto.WriteString(" ")
		}
		proto.WriteString(trimmed)
		if !strings.ContainsAny(trimmed, ";{") {
			continue
		}

		decl, err := parsePrototype(proto.String())
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, pendingLine, err)
		}
		result.Declarations = append(result.Declarations, decl)
		pendingExport = false
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if pendingExport {
		return nil, fmt.Errorf("%s:%d: export annotation with no declaration following it", name, pendingLine)
	}
	return result, nil
}

// parseRegisterArgs parses the quoted argument list of a register_type
// directive: (semantic_name, to_boundary_fn, [boundary_type], [binding_type]).
func parseRegisterArgs(args string) (model.Directive, error) {
	matches := argPattern.FindAllStringSubmatch(args, -1)
	if len(matches) < 2 || len(matches) > 4 {
		return model.Directive{}, fmt.Errorf("register_type takes 2 to 4 quoted arguments, got %d", len(matches))
	}
	dir := model.Directive{
		SemanticName: matches[0][1],
		ToRaw:        matches[1][1],
	}
	if len(matches) > 2 {
		dir.BoundaryType = matches[2][1]
	}
	if len(matches) > 3 {
		dir.BindingType = matches[3][1]
	}
	if dir.SemanticName == "" || dir.ToRaw == "" {
		return model.Directive{}, fmt.Errorf("register_type arguments must be non-empty")
	}
	return dir, nil
}

// parsePrototype parses a joined "return name (params)" prototype line.
func parsePrototype(text string) (model.Declaration, error) {
	m := protoPattern.FindStringSubmatch(text)
	if m == nil {
		return model.Declaration{}, fmt.Errorf("cannot parse exported declaration %q", strings.TrimSpace(text))
	}
	decl := model.Declaration{
		Name:       m[2],
		ReturnType: strings.TrimSpace(m[1]),
	}
	params, err := parseParams(m[3])
	if err != nil {
		return model.Declaration{}, fmt.Errorf("declaration %q: %w", decl.Name, err)
	}
	decl.Parameters = params
	return decl, nil
}

func parseParams(list string) ([]model.Parameter, error) {
	list = strings.TrimSpace(list)
	if list == "" || list == model.VoidType {
		return nil, nil
	}
	var params []model.Parameter
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		m := paramPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("cannot parse parameter %q", part)
		}
		// A pointer declarator attaches to the type, not the name.
		typ, name := m[1], m[2]
		params = append(params, model.Parameter{Name: name, Type: strings.TrimSpace(typ)})
	}
	return params, nil
}
