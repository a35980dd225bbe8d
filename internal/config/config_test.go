package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfigYAML = `env: local

httpServer:
  address: "localhost"
  port: "8080"
  timeout: 5s
  secret: "test-secret"
  password: "test-password"
  tokenTTL: 24h

store:
  backend: "file"
  snapshotPath: "./data/events_snapshot.json"

bot:
  admins:
    - "admin_user"
  tgbot_apitoken: "test-tg-token"
  AI:
    timeout: 60
    modelName: "deepseek/deepseek-chat-v3-0324:free"
    aiapitoken: "test-ai-token"

ingest:
  jobBufferSize: 4
  workersCount: 1
  timeout: 60
  maxEvents: 50
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	return path
}

func TestMustLoadReadsConfigFile(t *testing.T) {
	writeTestConfig(t)

	cfg := MustLoad()

	if cfg.Env != "local" {
		t.Errorf("Env = %q, want local", cfg.Env)
	}
	if cfg.BotConfig.AI.ModelName != "deepseek/deepseek-chat-v3-0324:free" {
		t.Errorf("ModelName = %q", cfg.BotConfig.AI.ModelName)
	}
	if cfg.IngestConfig.MaxEvents != 50 {
		t.Errorf("MaxEvents = %d, want 50", cfg.IngestConfig.MaxEvents)
	}
}

func TestWritePersistsRuntimeChanges(t *testing.T) {
	writeTestConfig(t)

	cfg := MustLoad()
	cfg.BotConfig.AI.ModelName = "openai/gpt-4o-mini"

	if err := cfg.Write(); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	reloaded := MustLoad()
	if reloaded.BotConfig.AI.ModelName != "openai/gpt-4o-mini" {
		t.Errorf("ModelName after reload = %q, want the switched model", reloaded.BotConfig.AI.ModelName)
	}
}

func TestReadPromptFromFile(t *testing.T) {
	writeTestConfig(t)
	cfg := MustLoad()

	t.Run("no prompt file configured", func(t *testing.T) {
		if err := cfg.ReadPromptFromFile(); err != nil {
			t.Errorf("ReadPromptFromFile() error = %v, want nil", err)
		}
	})

	t.Run("missing prompt file surfaces error", func(t *testing.T) {
		cfg.BotConfig.AI.PromptFilePath = t.TempDir()
		cfg.BotConfig.AI.PromptFileName = "missing_prompt.txt"
		if err := cfg.ReadPromptFromFile(); err == nil {
			t.Error("ReadPromptFromFile() on missing file returned nil error")
		}
	})

	t.Run("prompt file loaded", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "prompt.txt"), []byte("You are a helpful assistant."), 0o644); err != nil {
			t.Fatalf("write prompt: %v", err)
		}
		cfg.BotConfig.AI.PromptFilePath = dir
		cfg.BotConfig.AI.PromptFileName = "prompt.txt"
		if err := cfg.ReadPromptFromFile(); err != nil {
			t.Fatalf("ReadPromptFromFile() error = %v", err)
		}
		if !strings.Contains(cfg.BotConfig.AI.SystemRolePrompt, "helpful assistant") {
			t.Errorf("SystemRolePrompt = %q, prompt file not loaded", cfg.BotConfig.AI.SystemRolePrompt)
		}
	})
}
