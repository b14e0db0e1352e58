package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

type ScriptInfo struct {
	Name   string
	Fields []FieldInfo
}

type FieldInfo struct {
	Name    string
	Type    string
	Key     string
	Default string
}

// supportedTypes maps a field type to the literal used when it has no
// default tag.
var supportedTypes = map[string]string{
	"float32":          "float32(0)",
	"float64":          "float64(0)",
	"int":              "int(0)",
	"int32":            "int32(0)",
	"int64":            "int64(0)",
	"bool":             "false",
	"string":           `""`,
	"engine.EntityRef": "engine.EntityRef{}",
	"rl.Vector2":       "rl.Vector2{}",
	"[]string":         "[]string(nil)",
}

func main() {
	sourceDir := "assets/scripts"
	outputDir := "internal/scripts"

	if _, err := os.Stat(sourceDir); os.IsNotExist(err) {
		fmt.Printf("❌ Source directory not found: %s\n", sourceDir)
		fmt.Println("   Create assets/scripts/ and add your script files there.")
		os.Exit(1)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("❌ Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	docPath := filepath.Join(outputDir, "doc.go")
	if _, err := os.Stat(docPath); os.IsNotExist(err) {
		docContent := `// Package scripts contains scene script components.
// Scripts are written in assets/scripts/ and copied here by gen-scripts,
// which appends their field declarations and the Register function.
package scripts
`
		os.WriteFile(docPath, []byte(docContent), 0644)
	}

	files, err := filepath.Glob(filepath.Join(sourceDir, "*.go"))
	if err != nil {
		fmt.Printf("❌ Failed to read source directory: %v\n", err)
		os.Exit(1)
	}

	if len(files) == 0 {
		fmt.Printf("⚠️  No script files found in %s\n", sourceDir)
		fmt.Println("   Add .go files to assets/scripts/ to generate scripts.")
		return
	}

	fmt.Println("🔧 Generating scripts from assets/scripts/...")

	var names []string
	generatedCount := 0
	skippedCount := 0
	for _, file := range files {
		script, generated, err := processScript(file, outputDir)
		if err != nil {
			fmt.Printf("   ✗ %s: %v\n", filepath.Base(file), err)
			continue
		}
		names = append(names, script.Name)
		if generated {
			fmt.Printf("   ✓ %s\n", strings.TrimSuffix(filepath.Base(file), ".go"))
			generatedCount++
		} else {
			skippedCount++
		}
	}

	src, err := generateRegister(names)
	if err != nil {
		fmt.Printf("❌ Failed to generate register.go: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "register.go"), src, 0644); err != nil {
		fmt.Printf("❌ Failed to write register.go: %v\n", err)
		os.Exit(1)
	}

	if skippedCount > 0 {
		fmt.Printf("✅ Generated %d, skipped %d (cached) in %s\n", generatedCount, skippedCount, outputDir)
	} else {
		fmt.Printf("✅ Generated %d script(s) in %s\n", generatedCount, outputDir)
	}
}

func processScript(sourcePath, outputDir string) (*ScriptInfo, bool, error) {
	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read file: %w", err)
	}

	script, err := parseScript(string(content))
	if err != nil {
		return nil, false, err
	}

	outputPath := filepath.Join(outputDir, filepath.Base(sourcePath))
	if !needsRegeneration(content, outputPath) {
		return script, false, nil
	}

	if err := generateScriptFile(script, content, outputPath); err != nil {
		return nil, false, err
	}
	return script, true, nil
}

// parseScript finds the first struct embedding engine.BaseComponent and
// collects its exported fields of supported types.
func parseScript(content string) (*ScriptInfo, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, "", content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Go file: %w", err)
	}

	var scriptInfo *ScriptInfo
	var parseErr error

	ast.Inspect(node, func(n ast.Node) bool {
		if scriptInfo != nil || parseErr != nil {
			return false
		}
		typeSpec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		structType, ok := typeSpec.Type.(*ast.StructType)
		if !ok || !embedsBaseComponent(structType) {
			return true
		}

		info := &ScriptInfo{Name: typeSpec.Name.Name}
		for _, field := range structType.Fields.List {
			if len(field.Names) == 0 {
				continue
			}
			fieldType := exprToString(field.Type)
			if _, ok := supportedTypes[fieldType]; !ok {
				continue
			}
			var tag string
			if field.Tag != nil {
				raw, _ := strconv.Unquote(field.Tag.Value)
				tag = reflect.StructTag(raw).Get("default")
			}
			for _, name := range field.Names {
				if !unicode.IsUpper(rune(name.Name[0])) {
					continue
				}
				def, err := defaultLiteral(fieldType, tag)
				if err != nil {
					parseErr = fmt.Errorf("field %s: %w", name.Name, err)
					return false
				}
				info.Fields = append(info.Fields, FieldInfo{
					Name:    name.Name,
					Type:    fieldType,
					Key:     toSnakeCase(name.Name),
					Default: def,
				})
			}
		}
		scriptInfo = info
		return false
	})

	if parseErr != nil {
		return nil, parseErr
	}
	if scriptInfo == nil {
		return nil, fmt.Errorf("no component struct found")
	}
	return scriptInfo, nil
}

func embedsBaseComponent(st *ast.StructType) bool {
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 && exprToString(field.Type) == "engine.BaseComponent" {
			return true
		}
	}
	return false
}

func exprToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return exprToString(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return "*" + exprToString(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + exprToString(t.Elt)
		}
		return fmt.Sprintf("[%s]%s", exprToString(t.Len), exprToString(t.Elt))
	case *ast.BasicLit:
		return t.Value
	default:
		return "unknown"
	}
}

// defaultLiteral renders the Go expression for a field default. An empty tag
// yields the zero value.
func defaultLiteral(fieldType, tag string) (string, error) {
	if tag == "" {
		return supportedTypes[fieldType], nil
	}
	switch fieldType {
	case "float32", "float64":
		bits := 64
		if fieldType == "float32" {
			bits = 32
		}
		if _, err := strconv.ParseFloat(tag, bits); err != nil {
			return "", fmt.Errorf("bad default %q", tag)
		}
		return fmt.Sprintf("%s(%s)", fieldType, tag), nil
	case "int", "int32", "int64":
		if _, err := strconv.ParseInt(tag, 10, 64); err != nil {
			return "", fmt.Errorf("bad default %q", tag)
		}
		return fmt.Sprintf("%s(%s)", fieldType, tag), nil
	case "bool":
		v, err := strconv.ParseBool(tag)
		if err != nil {
			return "", fmt.Errorf("bad default %q", tag)
		}
		return strconv.FormatBool(v), nil
	case "string":
		return strconv.Quote(tag), nil
	case "rl.Vector2":
		parts := strings.Split(tag, ",")
		if len(parts) != 2 {
			return "", fmt.Errorf("bad default %q: want x,y", tag)
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if _, err := strconv.ParseFloat(parts[i], 32); err != nil {
				return "", fmt.Errorf("bad default %q", tag)
			}
		}
		return fmt.Sprintf("rl.Vector2{X: %s, Y: %s}", parts[0], parts[1]), nil
	case "[]string":
		var quoted []string
		for _, s := range strings.Split(tag, ",") {
			quoted = append(quoted, strconv.Quote(strings.TrimSpace(s)))
		}
		return "[]string{" + strings.Join(quoted, ", ") + "}", nil
	default:
		return "", fmt.Errorf("type %s takes no default", fieldType)
	}
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

// generateBoilerplate returns the declarations appended after a script's
// source: its schema and the Schema method.
func generateBoilerplate(script *ScriptInfo) string {
	recv := strings.ToLower(script.Name[:1])

	var b strings.Builder
	b.WriteString("\n// --- Generated boilerplate below ---\n\n")

	if len(script.Fields) == 0 {
		fmt.Fprintf(&b, "var %sSchema = engine.NewSchema(%q, engine.ComponentSchema)\n\n", script.Name, script.Name)
	} else {
		fmt.Fprintf(&b, "var %sSchema = engine.NewSchema(%q, engine.ComponentSchema).With(\n", script.Name, script.Name)
		for _, field := range script.Fields {
			fmt.Fprintf(&b, "\tengine.Prop(%q, %s, func(%s *%s) *%s { return &%s.%s }),\n",
				field.Key, field.Default, recv, script.Name, field.Type, recv, field.Name)
		}
		b.WriteString(")\n\n")
	}
	fmt.Fprintf(&b, "func (%s *%s) Schema() *engine.Schema { return %sSchema }\n", recv, script.Name, script.Name)
	return b.String()
}

func generateScriptFile(script *ScriptInfo, sourceContent []byte, outputPath string) error {
	var buf bytes.Buffer
	buf.Write(sourceContent)
	buf.WriteString(generateBoilerplate(script))

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if err := os.WriteFile(outputPath, src, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	os.WriteFile(outputPath+".hash", []byte(contentHash(sourceContent)), 0644)
	return nil
}

// generateRegister returns register.go for the given script type names.
func generateRegister(names []string) ([]byte, error) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString("// Code generated by gen-scripts. DO NOT EDIT.\n\n")
	b.WriteString("package scripts\n\n")
	b.WriteString("import \"scene2d/internal/engine\"\n\n")
	b.WriteString("// Register adds every script component to reg.\n")
	b.WriteString("func Register(reg *engine.ComponentRegistry) {\n")
	for _, name := range sorted {
		fmt.Fprintf(&b, "\tengine.RegisterType[%s](reg, %q)\n", name, name)
	}
	b.WriteString("}\n")
	return format.Source([]byte(b.String()))
}

func contentHash(content []byte) string {
	return strconv.FormatUint(xxhash.Sum64(content), 16)
}

func needsRegeneration(sourceContent []byte, outputPath string) bool {
	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		return true
	}

	cachedHash, err := os.ReadFile(outputPath + ".hash")
	if err != nil {
		return true
	}

	return string(cachedHash) != contentHash(sourceContent)
}
