// cmd/tools/registry-updater/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"rooms-workers/internal/common/validation"
	"rooms-workers/pkg/registry"
)

var registryPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "registry-updater",
		Short:        "Maintain the activity registry that holds job input schemas",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")

	root.AddCommand(newAddCmd(), newUpdateCmd(), newValidateCmd(), newCheckInputCmd())
	return root
}

func newAddCmd() *cobra.Command {
	var activity registry.Activity

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := addActivity(registryPath, activity); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", activity.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&activity.ID, "id", "", "Activity ID (e.g., derive-vibe-tags)")
	cmd.Flags().StringVar(&activity.DisplayName, "displayName", "", "Display name")
	cmd.Flags().StringVar(&activity.Description, "description", "", "Description")
	cmd.Flags().StringVar(&activity.Category, "category", "", "Category (e.g., vibe, listings)")
	cmd.Flags().StringVar(&activity.TaskType, "taskType", "", "Zeebe job type")
	cmd.Flags().StringVar(&activity.Version, "version", "1.0.0", "Version")
	cmd.Flags().StringVar(&activity.ImplementationStatus, "status", "planned", "Implementation status (planned, in-progress, implemented)")
	for _, name := range []string{"id", "displayName", "category", "taskType"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var id, field, value string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update one field of an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := updateActivity(registryPath, id, field, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Activity ID to update")
	cmd.Flags().StringVar(&field, "field", "", "Field to update (status, version, displayName, description, category, taskType, timeout, retries)")
	cmd.Flags().StringVar(&value, "value", "", "New value for the field")
	for _, name := range []string{"id", "field", "value"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check required fields, uniqueness and that every input schema compiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRegistry(registryPath); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registry validation passed.")
			return nil
		},
	}
}

func newCheckInputCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-input <taskType> <variables.json>",
		Short: "Validate a job variables file against the task's input schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			result, err := checkInput(registryPath, args[0], string(data))
			if err != nil {
				return err
			}
			if !result.Valid {
				for _, msg := range result.GetErrorMessages() {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", msg)
				}
				return fmt.Errorf("%s: variables do not match the input schema", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: variables are valid.\n", args[0])
			return nil
		},
	}
}

func addActivity(path string, activity registry.Activity) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	}

	if _, exists := reg.FindByTaskType(activity.TaskType); exists {
		return fmt.Errorf("activity with task type %s already exists", activity.TaskType)
	}
	for _, existing := range reg.Activities {
		if existing.ID == activity.ID {
			return fmt.Errorf("activity with ID %s already exists", activity.ID)
		}
	}

	if activity.Timeout == "" {
		activity.Timeout = "30s"
	}
	if activity.ErrorCodes == nil {
		activity.ErrorCodes = []string{"INPUT_VALIDATION_FAILED"}
	}
	reg.Activities = append(reg.Activities, activity)
	reg.LastUpdated = time.Now().Format("2006-01-02")

	if err := reg.Validate(); err != nil {
		return err
	}
	return registry.SaveRegistry(reg, path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "category":
		activity.Category = value
	case "taskType":
		activity.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	if err := reg.Validate(); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().Format("2006-01-02")
	return registry.SaveRegistry(reg, path)
}

func validateRegistry(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	_, err = validation.NewValidator(reg)
	return err
}

func checkInput(path, taskType, variables string) (*validation.ValidationResult, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	if _, ok := reg.FindByTaskType(taskType); !ok {
		return nil, fmt.Errorf("unknown task type: %s", taskType)
	}
	v, err := validation.NewValidator(reg)
	if err != nil {
		return nil, err
	}
	return v.Validate(taskType, variables)
}
