package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "vibelist.db" {
			t.Errorf("expected database path vibelist.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Pipeline.RecommendationLimit != 19 {
			t.Errorf("expected recommendation limit 19, got %d", config.Pipeline.RecommendationLimit)
		}

		if config.Pipeline.ClipSeconds != 12 {
			t.Errorf("expected clip seconds 12, got %d", config.Pipeline.ClipSeconds)
		}

		if config.Pipeline.Market != "US" {
			t.Errorf("expected market US, got %s", config.Pipeline.Market)
		}

		if config.Credentials.OpenAI.Model != "gpt-4o-mini" {
			t.Errorf("expected default model gpt-4o-mini, got %s", config.Credentials.OpenAI.Model)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 9090

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:9090/callback"

[credentials.acrcloud]
host = "identify-eu-west-1.acrcloud.com"
access_key = "test_access"
secret_key = "test_secret"

[credentials.openai]
api_key = "test_key"
model = "gpt-4o"

[pipeline]
clip_seconds = 20
recommendation_limit = 10
market = "GB"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 9090 {
			t.Errorf("expected server port 9090, got %d", config.Server.Port)
		}

		if config.Credentials.ACRCloud.Host != "identify-eu-west-1.acrcloud.com" {
			t.Errorf("unexpected acrcloud host %s", config.Credentials.ACRCloud.Host)
		}

		if config.Pipeline.RecommendationLimit != 10 {
			t.Errorf("expected recommendation limit 10, got %d", config.Pipeline.RecommendationLimit)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
