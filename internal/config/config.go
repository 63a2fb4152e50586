// Package config handles tool configuration loading and management.
package config

// Config holds all tdstool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ExportConfig holds glTF export settings.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"` // Directory for converted files
	Binary    bool   `yaml:"binary"`     // Write binary .glb instead of .gltf
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Export: ExportConfig{
			OutputDir: ".",
			Binary:    false,
		},
	}
}
