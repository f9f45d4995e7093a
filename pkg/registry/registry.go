// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"essay-mentor/internal/common/validation"
)

var ErrActivityNotFound = errors.New("activity not found")

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a registry document without validating it.
func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	return &reg, nil
}

// FindByTaskType returns the activity a Zeebe job type is registered under.
func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, error) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], nil
		}
	}
	return nil, fmt.Errorf("%w: task type %q", ErrActivityNotFound, taskType)
}

// InputSchema compiles the input schema registered for taskType.
func (r *ActivityRegistry) InputSchema(taskType string) (*validation.Schema, error) {
	act, err := r.FindByTaskType(taskType)
	if err != nil {
		return nil, err
	}
	s, err := validation.Compile(act.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("activity %s: input schema: %w", act.ID, err)
	}
	return s, nil
}

// Validate checks naming, uniqueness, timeouts and that every schema compiles.
// It returns one message per problem found.
func (r *ActivityRegistry) Validate() []string {
	var problems []string
	if len(r.Activities) == 0 {
		return []string{"registry contains no activities"}
	}
	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)

	for _, act := range r.Activities {
		if err := validation.ValidateActivityNaming(act.ID); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", act.ID, err))
		}
		if ids[act.ID] {
			problems = append(problems, fmt.Sprintf("%s: duplicate activity id", act.ID))
		}
		ids[act.ID] = true

		if act.DisplayName == "" {
			problems = append(problems, fmt.Sprintf("%s: displayName is required", act.ID))
		}
		if act.Category == "" {
			problems = append(problems, fmt.Sprintf("%s: category is required", act.ID))
		}

		if act.TaskType == "" {
			problems = append(problems, fmt.Sprintf("%s: taskType is required", act.ID))
		} else if taskTypes[act.TaskType] {
			problems = append(problems, fmt.Sprintf("%s: duplicate taskType %s", act.ID, act.TaskType))
		}
		taskTypes[act.TaskType] = true

		if act.Timeout != "" {
			if _, err := time.ParseDuration(act.Timeout); err != nil {
				problems = append(problems, fmt.Sprintf("%s: invalid timeout %q", act.ID, act.Timeout))
			}
		}
		if act.Retries < 0 {
			problems = append(problems, fmt.Sprintf("%s: retries must not be negative", act.ID))
		}

		if act.ImplementationStatus != StatusImplemented {
			continue
		}
		if _, err := validation.Compile(act.InputSchema); err != nil {
			problems = append(problems, fmt.Sprintf("%s: input schema: %v", act.ID, err))
		}
		if len(act.OutputSchema) > 0 {
			if _, err := validation.Compile(act.OutputSchema); err != nil {
				problems = append(problems, fmt.Sprintf("%s: output schema: %v", act.ID, err))
			}
		}
	}
	return problems
}

// EditableFields lists the field names UpdateField accepts.
var EditableFields = []string{"status", "version", "displayName", "description", "timeout", "retries"}

// UpdateField sets one editable field of the activity with the given id.
func (r *ActivityRegistry) UpdateField(id, field, value string) error {
	var act *Activity
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			act = &r.Activities[i]
			break
		}
	}
	if act == nil {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}

	switch field {
	case "status":
		act.ImplementationStatus = value
	case "version":
		act.Version = value
	case "displayName":
		act.DisplayName = value
	case "description":
		act.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		act.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		act.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

// Save writes the registry as indented JSON, stamping LastUpdated.
func (r *ActivityRegistry) Save(path string, now time.Time) error {
	r.LastUpdated = now.UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
