package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"nocturne/config"
	"nocturne/services"
)

// SettingsHandler handles settings-related endpoints
type SettingsHandler struct {
	scans services.ScanService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(scans services.ScanService) *SettingsHandler {
	return &SettingsHandler{scans: scans}
}

// Settings represents the user settings
type Settings struct {
	LibraryRoot string `json:"libraryRoot"`
}

// loadSettings loads settings from the settings file
func loadSettings() (*Settings, error) {
	settingsPath := config.SettingsFilePath()

	// If file doesn't exist, return current effective settings
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return &Settings{
			LibraryRoot: config.GetLibraryRoot(),
		}, nil
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// saveSettings saves settings to the settings file
func saveSettings(settings *Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(config.SettingsFilePath(), data, 0644)
}

// validateLibraryRoot checks the path exists and is a readable directory
func validateLibraryRoot(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}

	dir, err := os.Open(path)
	if err != nil {
		return err
	}
	dir.Close()

	return nil
}

// GetSettings returns the current settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := loadSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load settings",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings updates the library root and queues a rescan of it
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var newSettings Settings
	if err := c.ShouldBindJSON(&newSettings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid settings format",
			"details": err.Error(),
		})
		return
	}

	if err := validateLibraryRoot(newSettings.LibraryRoot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid library root",
			"details": err.Error(),
		})
		return
	}

	if err := saveSettings(&newSettings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save settings",
			"details": err.Error(),
		})
		return
	}

	job := h.scans.QueueScan(newSettings.LibraryRoot)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": newSettings,
		"job":      job,
	})
}
