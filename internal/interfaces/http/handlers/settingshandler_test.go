package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdto "github.com/quotakeeper/quotakeeper/internal/application/user/dto"
	"github.com/quotakeeper/quotakeeper/internal/interfaces/http/handlers/testutil"
	"github.com/quotakeeper/quotakeeper/internal/shared/errors"
)

func TestSettingsHandler_UpdateSettings(t *testing.T) {
	uc := &mockUpdateSettingsUC{result: &userdto.SettingsResponse{Settings: map[string]any{"theme": "dark", "lang": "id"}}}
	h := NewSettingsHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/users/me/settings",
		map[string]any{"settings": map[string]any{"theme": "dark"}})
	testutil.SetAuthContext(c, 3, 300, "free", "tok-3")

	h.UpdateSettings(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(3), uc.lastCmd.UserID)
	assert.Equal(t, "tok-3", uc.lastCmd.AuthKey)
	assert.Equal(t, "dark", uc.lastCmd.Settings["theme"])

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var body userdto.SettingsResponse
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "id", body.Settings["lang"])
}

func TestSettingsHandler_UpdateSettings_MissingSettings(t *testing.T) {
	uc := &mockUpdateSettingsUC{}
	h := NewSettingsHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/users/me/settings", map[string]any{})
	testutil.SetAuthContext(c, 3, 300, "free", "tok-3")

	h.UpdateSettings(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, uc.calls)
}

func TestSettingsHandler_UpdateSettings_Unauthenticated(t *testing.T) {
	uc := &mockUpdateSettingsUC{}
	h := NewSettingsHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/users/me/settings",
		map[string]any{"settings": map[string]any{"theme": "dark"}})

	h.UpdateSettings(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, uc.calls)
}

func TestSettingsHandler_UpdateSettings_NotFound(t *testing.T) {
	uc := &mockUpdateSettingsUC{err: errors.NewNotFoundError("user not found")}
	h := NewSettingsHandler(uc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/users/me/settings",
		map[string]any{"settings": map[string]any{"theme": "dark"}})
	testutil.SetAuthContext(c, 3, 300, "free", "tok-3")

	h.UpdateSettings(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
