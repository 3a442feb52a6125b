package log

import (
	"encoding/json"
	"fmt"
	"os"
)

// LogConf stores the logger configuration on disk so that helper processes
// can reconstruct the same logger with FromName.
type LogConf struct {
	LogLevel  LogLevel `json:"log_level"`
	FilePath  string   `json:"file_path"`
	FormatStr string   `json:"format_str"`
}

func confPath(name string) string {
	return fmt.Sprintf("/tmp/%s.json", name)
}

// ConfRead reads the configuration from `/tmp/<name>.json` and returns a
// LogConf instance.
func ConfRead(name string) (LogConf, error) {
	conf := LogConf{}
	raw, err := os.ReadFile(confPath(name))
	if err != nil {
		return LogConf{}, fmt.Errorf("read conf file: %w", err)
	}
	if err := json.Unmarshal(raw, &conf); err != nil {
		return LogConf{}, fmt.Errorf("parse conf file: %w", err)
	}
	return conf, nil
}

// Write writes the configuration to `/tmp/<name>.json`.
func (c *LogConf) Write(name string) error {
	raw, err := json.MarshalIndent(c, "", " ")
	if err != nil {
		return fmt.Errorf("marshal conf: %w", err)
	}
	if err := os.WriteFile(confPath(name), raw, 0644); err != nil {
		return fmt.Errorf("write conf: %w", err)
	}
	return nil
}

// Remove deletes the configuration file for the given name, if present.
func (c *LogConf) Remove(name string) error {
	if _, err := os.Stat(confPath(name)); err != nil {
		return nil
	}
	return os.Remove(confPath(name))
}
