package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Clean_uiScaling(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{name: "zero clamps to minimum", value: 0, want: 0.8},
		{name: "negative", value: -2, want: 0.8},
		{name: "in range", value: 1.2, want: 1.2},
		{name: "too large", value: 3, want: 1.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := DefaultSettings()
			st.UIScaling = tt.value
			assert.Equal(t, tt.want, st.Clean().UIScaling)
		})
	}
}

func TestSettingsStore_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewSettingsStore(path)

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), st)
	assert.FileExists(t, path, "defaults are written on first load")

	require.NoError(t, os.WriteFile(path, []byte(`{"ui_scaling": 0, "default_month": 13, "student_id_prefix": "S-"}`), 0o644))
	st, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0.8, st.UIScaling)
	assert.Equal(t, 1, st.DefaultMonth)
	assert.Equal(t, "S-", st.StudentIDPrefix)

	require.NoError(t, os.WriteFile(path, []byte(`{"student_id_prefix": "S-"}`), 0o644))
	st, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1.0, st.UIScaling, "a missing value takes the default")
}
