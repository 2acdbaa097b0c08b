package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

var Env = map[string]string{
	"NOCTURNE_LIBRARY":           os.Getenv("NOCTURNE_LIBRARY"),
	"NOCTURNE_SUBSONIC_URL":      os.Getenv("NOCTURNE_SUBSONIC_URL"),
	"NOCTURNE_SUBSONIC_USER":     os.Getenv("NOCTURNE_SUBSONIC_USER"),
	"NOCTURNE_SUBSONIC_PASSWORD": os.Getenv("NOCTURNE_SUBSONIC_PASSWORD"),
}

// GetLibraryRoot returns the music library root directory. Priority:
// saved user settings, then environment, then ~/Music.
func GetLibraryRoot() string {
	if saved := getUserLibraryRoot(); saved != "" {
		return saved
	}
	if custom := Env["NOCTURNE_LIBRARY"]; custom != "" {
		return custom
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "music")
	}
	return filepath.Join(homeDir, "Music")
}

// GetSubsonicURL returns the configured Subsonic server base URL, empty
// when scanning locally
func GetSubsonicURL() string {
	return Env["NOCTURNE_SUBSONIC_URL"]
}

// GetSubsonicUser returns the Subsonic account name
func GetSubsonicUser() string {
	if user := Env["NOCTURNE_SUBSONIC_USER"]; user != "" {
		return user
	}
	return "admin"
}

// GetSubsonicPassword returns the Subsonic account password
func GetSubsonicPassword() string {
	return Env["NOCTURNE_SUBSONIC_PASSWORD"]
}

// UserSettings represents the user's personal settings
type UserSettings struct {
	LibraryRoot string `json:"libraryRoot"`
}

// SettingsFilePath returns the path to the settings file
func SettingsFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".nocturne-settings.json")
}

// getUserLibraryRoot loads the saved library root from the settings file
func getUserLibraryRoot() string {
	settingsPath := SettingsFilePath()

	// If file doesn't exist, fall back to env vars
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return ""
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return ""
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return ""
	}

	return settings.LibraryRoot
}
