// cmd/tools/worker-generator/main.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"rooms-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	ID           string
	Name         string
	PackageName  string
	TaskType     string
	Description  string
	Category     string
	Timeout      string
	InputFields  []Field
	OutputFields []Field
	ErrorCodes   []string
}

// Field is one struct field derived from a schema property.
type Field struct {
	Name     string
	GoType   string
	JSONName string
	Required bool
	Comment  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var registryPath, outputDir string

	cmd := &cobra.Command{
		Use:          "worker-generator <activity-id>",
		Short:        "Scaffold a job worker package from the activity registry",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("load registry %s: %w", registryPath, err)
			}
			activity, ok := findActivity(reg, args[0])
			if !ok {
				return fmt.Errorf("activity %q not found in %s", args[0], registryPath)
			}

			dir, files, err := generate(activity, outputDir)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "generated %s\n", filepath.Join(dir, f))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nNext: implement execute, register %s in cmd/worker-manager/main.go and add it to configs/config.yaml\n", activity.TaskType)
			return nil
		},
	}
	cmd.Flags().StringVar(&registryPath, "registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	cmd.Flags().StringVar(&outputDir, "output", "internal/workers", "Root directory for generated workers")
	return cmd
}

func findActivity(reg *registry.ActivityRegistry, id string) (*registry.Activity, bool) {
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			return &reg.Activities[i], true
		}
	}
	return nil, false
}

func workerData(activity *registry.Activity) WorkerData {
	return WorkerData{
		ID:           activity.ID,
		Name:         activity.DisplayName,
		PackageName:  strings.ReplaceAll(activity.ID, "-", ""),
		TaskType:     activity.TaskType,
		Description:  activity.Description,
		Category:     activity.Category,
		Timeout:      activity.Timeout,
		InputFields:  schemaFields(activity.InputSchema),
		OutputFields: schemaFields(activity.OutputSchema),
		ErrorCodes:   activity.ErrorCodes,
	}
}

// generate writes the worker package under outputDir/<category>/<id> and
// returns the directory and the file names written. Existing files are
// never overwritten.
func generate(activity *registry.Activity, outputDir string) (string, []string, error) {
	data := workerData(activity)
	dir := filepath.Join(outputDir, strings.ToLower(data.Category), data.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create %s: %w", dir, err)
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return dir, written, fmt.Errorf("%s already exists", path)
		}
		src, err := render(name, templates[name], data)
		if err != nil {
			return dir, written, err
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return dir, written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, name)
	}
	return dir, written, nil
}

func render(name, text string, data WorkerData) ([]byte, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return src, nil
}

// schemaFields turns the top-level properties of a JSON schema into struct
// fields, sorted by name.
func schemaFields(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if list, ok := schema["required"].([]interface{}); ok {
		for _, r := range list {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	fields := make([]Field, 0, len(props))
	for name, raw := range props {
		prop, _ := raw.(map[string]interface{})
		desc, _ := prop["description"].(string)
		fields = append(fields, Field{
			Name:     exportedName(name),
			GoType:   goType(prop),
			JSONName: name,
			Required: required[name],
			Comment:  desc,
		})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].JSONName < fields[j].JSONName })
	return fields
}

func goType(prop map[string]interface{}) string {
	switch prop["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "array":
		if items, ok := prop["items"].(map[string]interface{}); ok {
			return "[]" + goType(items)
		}
		return "[]interface{}"
	case "object":
		return "map[string]interface{}"
	default:
		return "interface{}"
	}
}

// exportedName upper-cases the first letter and the Go initialisms used
// across the workers.
func exportedName(s string) string {
	if s == "" {
		return s
	}
	name := strings.ToUpper(s[:1]) + s[1:]
	for _, suffix := range []string{"Id", "Ids", "Url"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix) + strings.ToUpper(suffix[:2]) + suffix[2:]
			break
		}
	}
	return name
}
