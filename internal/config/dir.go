package config

// DirConfig holds per-directory configuration for one input directory.
// This allows customizing aggregation behavior per metrics directory.
type DirConfig struct {
	// Output overrides the combined CSV output path for this directory.
	// If empty, the default sibling combined_reports/combined.csv is used.
	Output string `yaml:"output,omitempty"`

	// Pattern overrides the global discovery glob for this directory.
	Pattern string `yaml:"pattern,omitempty"`

	// SchemaCheck overrides schema validation for this directory.
	// If nil, the global setting is used.
	SchemaCheck *bool `yaml:"schemaCheck,omitempty"`
}

// File represents the structure of the .reportcat configuration file.
type File struct {
	// Directories maps input directory paths to their per-directory
	// configurations. Keys are paths relative to where reportcat runs,
	// or absolute paths.
	Directories map[string]DirConfig `yaml:"directories,omitempty"`

	// Defaults contains the configuration applied to all directories
	// unless overridden in the per-directory configuration.
	Defaults DirConfig `yaml:"defaults,omitempty"`
}

// GetDirConfig returns the configuration for a specific input directory.
// It merges the per-directory configuration with the defaults.
func (cf *File) GetDirConfig(dir string) DirConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with per-directory configuration if present
	if dirConfig, ok := cf.Directories[dir]; ok {
		if dirConfig.Output != "" {
			result.Output = dirConfig.Output
		}
		if dirConfig.Pattern != "" {
			result.Pattern = dirConfig.Pattern
		}
		if dirConfig.SchemaCheck != nil {
			result.SchemaCheck = dirConfig.SchemaCheck
		}
	}

	return result
}
