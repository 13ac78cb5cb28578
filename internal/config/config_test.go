package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "./narrspread.db", cfg.Database.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Len(t, cfg.Narratives, 4)
	assert.True(t, cfg.Sources.RSS.Enabled)
	assert.False(t, cfg.Sources.Reddit.Enabled)
}

func TestLoadFile(t *testing.T) {
	content := `
database:
  path: /tmp/corpus.db
server:
  port: 9090
narratives:
  - name: Weather
    keywords: [storm, flood]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/corpus.db", cfg.Database.Path)
	assert.Equal(t, 9090, cfg.Server.Port)
	require.Len(t, cfg.Narratives, 1)
	assert.Equal(t, "Weather", cfg.Narratives[0].Name)
	assert.Equal(t, []string{"storm", "flood"}, cfg.Narratives[0].Keywords)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Len(t, cfg.Narratives, 4)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty narrative name",
			content: "narratives:\n  - name: \"\"\n    keywords: [x]\n",
			wantErr: "empty name",
		},
		{
			name:    "duplicate narrative",
			content: "narratives:\n  - name: A\n    keywords: [x]\n  - name: A\n    keywords: [y]\n",
			wantErr: "duplicate",
		},
		{
			name:    "no keywords",
			content: "narratives:\n  - name: A\n    keywords: []\n",
			wantErr: "no keywords",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NARRSPREAD_DB_PATH", "/tmp/env.db")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.invalid/x")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	assert.True(t, cfg.Alerts.Slack.Enabled)
	assert.Equal(t, "https://hooks.slack.invalid/x", cfg.Alerts.Slack.WebhookURL)
}
