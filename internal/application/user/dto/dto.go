package dto

// UpdateSettingsRequest carries the settings keys to overwrite.
type UpdateSettingsRequest struct {
	Settings map[string]any `json:"settings" binding:"required"`
}

// SettingsResponse is the merged settings document.
type SettingsResponse struct {
	Settings map[string]any `json:"settings"`
}
