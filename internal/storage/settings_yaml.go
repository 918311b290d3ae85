package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pomodoro/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	ChimeEnabled          *bool    `yaml:"chime_enabled"`
	ChimeVolume           *float64 `yaml:"chime_volume"`
	NotificationsEnabled  *bool    `yaml:"notifications_enabled"`
	IdlePauseEnabled      *bool    `yaml:"idle_pause_enabled"`
	IdlePauseAfterMinutes int      `yaml:"idle_pause_after_minutes"`
	APIEnabled            *bool    `yaml:"api_enabled"`
	APIAddress            string   `yaml:"api_address"`
	LaunchAtLogin         *bool    `yaml:"launch_at_login"`
	LogLevel              string   `yaml:"log_level"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads preferences from configPath.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes preferences to configPath, creating its directory.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		ChimeEnabled:          &settings.ChimeEnabled,
		ChimeVolume:           &settings.ChimeVolume,
		NotificationsEnabled:  &settings.NotificationsEnabled,
		IdlePauseEnabled:      &settings.IdlePauseEnabled,
		IdlePauseAfterMinutes: int(settings.IdlePauseAfter / time.Minute),
		APIEnabled:            &settings.APIEnabled,
		APIAddress:            settings.APIAddress,
		LaunchAtLogin:         &settings.LaunchAtLogin,
		LogLevel:              settings.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.ChimeEnabled != nil {
		settings.ChimeEnabled = *fileData.ChimeEnabled
	}
	if fileData.ChimeVolume != nil && *fileData.ChimeVolume >= preferences.MinChimeVolume && *fileData.ChimeVolume <= preferences.MaxChimeVolume {
		settings.ChimeVolume = *fileData.ChimeVolume
	}
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if fileData.IdlePauseEnabled != nil {
		settings.IdlePauseEnabled = *fileData.IdlePauseEnabled
	}
	if fileData.IdlePauseAfterMinutes > 0 {
		settings.IdlePauseAfter = time.Duration(fileData.IdlePauseAfterMinutes) * time.Minute
	}
	if fileData.APIEnabled != nil {
		settings.APIEnabled = *fileData.APIEnabled
	}
	if address := strings.TrimSpace(fileData.APIAddress); preferences.ValidateAPIAddress(address) == nil {
		settings.APIAddress = address
	}
	if fileData.LaunchAtLogin != nil {
		settings.LaunchAtLogin = *fileData.LaunchAtLogin
	}
	if _, ok := preferences.ParseLogLevel(fileData.LogLevel); ok {
		settings.LogLevel = strings.ToLower(strings.TrimSpace(fileData.LogLevel))
	}
}
