package sdk

import (
	"encoding/json"
	"fmt"
	"time"
)

// ConfigSchema defines the configuration structure using JSON Schema. This
// enables auto-generated UI for plugin configuration in an admin surface.
type ConfigSchema struct {
	// Schema is the JSON Schema version (e.g., "https://json-schema.org/draft/2020-12/schema").
	Schema string `json:"$schema,omitempty"`

	// Type is the root type (always "object" for plugin configs).
	Type string `json:"type"`

	// Title is a human-readable title for the configuration.
	Title string `json:"title"`

	// Description provides context about the configuration.
	Description string `json:"description,omitempty"`

	// Properties defines individual configuration fields.
	Properties map[string]PropertySchema `json:"properties"`

	// Required lists required property names.
	Required []string `json:"required,omitempty"`

	// Defaults provides default values for properties.
	Defaults map[string]any `json:"default,omitempty"`
}

// PropertySchema defines a single configuration property using JSON Schema.
type PropertySchema struct {
	// Type is the JSON Schema type: "string", "number", "integer", "boolean", "array", "object".
	Type string `json:"type"`

	// Title is a human-readable label for the property.
	Title string `json:"title"`

	// Description explains what the property controls.
	Description string `json:"description,omitempty"`

	// Default is the default value for the property.
	Default any `json:"default,omitempty"`

	// Enum restricts values to a specific set.
	Enum []any `json:"enum,omitempty"`

	// Minimum is the minimum value for numbers.
	Minimum *float64 `json:"minimum,omitempty"`

	// Maximum is the maximum value for numbers.
	Maximum *float64 `json:"maximum,omitempty"`

	// MinLength is the minimum string length.
	MinLength *int `json:"minLength,omitempty"`

	// MaxLength is the maximum string length.
	MaxLength *int `json:"maxLength,omitempty"`

	// Pattern is a regex pattern for string validation.
	Pattern string `json:"pattern,omitempty"`
}

// Config holds validated configuration values for a plugin.
type Config struct {
	// Raw contains the raw configuration map.
	Raw map[string]any `json:"raw"`

	// BackendID identifies which plugin this config is for.
	BackendID string `json:"backend_id"`
}

// NewConfig creates a new plugin configuration.
func NewConfig(backendID string, raw map[string]any) Config {
	if raw == nil {
		raw = make(map[string]any)
	}
	return Config{Raw: raw, BackendID: backendID}
}

// GetString retrieves a string configuration value.
func (c Config) GetString(key string) string {
	if v, ok := c.Raw[key].(string); ok {
		return v
	}
	return ""
}

// GetInt retrieves an integer configuration value.
func (c Config) GetInt(key string) int {
	switch v := c.Raw[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
	}
	return 0
}

// GetBool retrieves a boolean configuration value.
func (c Config) GetBool(key string) bool {
	if v, ok := c.Raw[key].(bool); ok {
		return v
	}
	return false
}

// GetDuration retrieves a duration configuration value. The value should be
// a string parseable by time.ParseDuration.
func (c Config) GetDuration(key string) time.Duration {
	if v, ok := c.Raw[key].(string); ok {
		d, _ := time.ParseDuration(v)
		return d
	}
	return 0
}

// Has checks if a configuration key exists.
func (c Config) Has(key string) bool {
	_, ok := c.Raw[key]
	return ok
}

// NewConfigSchema creates a new configuration schema with sensible defaults.
func NewConfigSchema(title, description string) ConfigSchema {
	return ConfigSchema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		Type:        "object",
		Title:       title,
		Description: description,
		Properties:  make(map[string]PropertySchema),
	}
}

// AddProperty adds a property to the schema.
func (s *ConfigSchema) AddProperty(name string, prop PropertySchema) *ConfigSchema {
	if s.Properties == nil {
		s.Properties = make(map[string]PropertySchema)
	}
	s.Properties[name] = prop
	return s
}

// Validate validates a configuration against this schema.
func (s ConfigSchema) Validate(config map[string]any) error {
	for _, req := range s.Required {
		if _, ok := config[req]; !ok {
			return fmt.Errorf("required field %q is missing", req)
		}
	}
	for name, value := range config {
		prop, ok := s.Properties[name]
		if !ok {
			continue
		}
		if err := prop.Validate(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates a value against this property schema.
func (p PropertySchema) Validate(name string, value any) error {
	if value == nil {
		return nil
	}

	switch p.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("property %q must be a string", name)
		}
		if p.MinLength != nil && len(s) < *p.MinLength {
			return fmt.Errorf("property %q must be at least %d characters", name, *p.MinLength)
		}
		if p.MaxLength != nil && len(s) > *p.MaxLength {
			return fmt.Errorf("property %q must be at most %d characters", name, *p.MaxLength)
		}

	case "number", "integer":
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		case int:
			f = float64(v)
		case int64:
			f = float64(v)
		default:
			return fmt.Errorf("property %q must be a number", name)
		}
		if p.Minimum != nil && f < *p.Minimum {
			return fmt.Errorf("property %q must be >= %v", name, *p.Minimum)
		}
		if p.Maximum != nil && f > *p.Maximum {
			return fmt.Errorf("property %q must be <= %v", name, *p.Maximum)
		}

	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("property %q must be a boolean", name)
		}
	}

	if len(p.Enum) > 0 {
		found := false
		for _, e := range p.Enum {
			if e == value {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("property %q must be one of %v", name, p.Enum)
		}
	}

	return nil
}

// FloatPtr returns a pointer to a float64 value. Helper for setting
// Minimum/Maximum in PropertySchema.
func FloatPtr(f float64) *float64 {
	return &f
}

// IntPtr returns a pointer to an int value. Helper for setting
// MinLength/MaxLength in PropertySchema.
func IntPtr(i int) *int {
	return &i
}
