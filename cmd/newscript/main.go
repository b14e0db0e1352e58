package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const scriptsDir = "assets/scripts"

const tmpl = `package scripts

import "scene2d/internal/engine"

type {{.Name}} struct {
	engine.BaseComponent
	Speed float32 ` + "`default:\"1\"`" + `
}

func ({{.Recv}} *{{.Name}}) Update(deltaTime float32) {
	obj := {{.Recv}}.Entity()
	if obj == nil {
		return
	}
}
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run ./cmd/newscript <ScriptName>\n")
		fmt.Fprintf(os.Stderr, "Example: go run ./cmd/newscript EnemyChaser\n")
		os.Exit(1)
	}

	name := os.Args[1]
	if err := validName(name); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(scriptsDir, toSnakeCase(name)+".go")
	if _, err := os.Stat(outPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", outPath)
		os.Exit(1)
	}

	if err := os.MkdirAll(scriptsDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", scriptsDir, err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, []byte(render(name)), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %s\n", outPath)
	fmt.Printf("Run `go run ./cmd/gen-scripts` to register %q, then add it to an entity:\n\n", name)
	fmt.Printf("  components:\n")
	fmt.Printf("    - type: %s\n", name)
	fmt.Printf("      speed: 1\n")
}

func validName(name string) error {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return fmt.Errorf("script name must start with an uppercase letter")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("script name %q is not a Go identifier", name)
		}
	}
	return nil
}

func render(name string) string {
	content := strings.ReplaceAll(tmpl, "{{.Name}}", name)
	return strings.ReplaceAll(content, "{{.Recv}}", strings.ToLower(name[:1]))
}

func toSnakeCase(s string) string {
	var result []rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			result = append(result, '_')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}
