package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "./config/config.yaml"

// MustLoad reads the config file (CONFIG_PATH or ./config/config.yaml)
// and overlays environment variables. Panics on any error: the service
// cannot run without configuration.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic(fmt.Sprintf("config file does not exist: %s", configPath))
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic(fmt.Sprintf("cannot read config %s: %s", configPath, err))
	}

	cfg.configPath = configPath

	return &cfg
}

// Write serializes the current config back to the file it was loaded
// from, so runtime changes (e.g. model switched by an admin) survive a
// restart.
func (c *Config) Write() error {
	op := "config.Write()"

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.WriteFile(filepath.Clean(c.configPath), data, 0644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ReadPromptFromFile loads the system role prompt from the configured
// prompt file, if one is set. Missing file is not fatal: the built-in
// prompts still work without it.
func (c *Config) ReadPromptFromFile() error {
	op := "config.ReadPromptFromFile()"

	if c.BotConfig.AI.PromptFilePath == "" || c.BotConfig.AI.PromptFileName == "" {
		return nil
	}

	fullPath := filepath.Join(c.BotConfig.AI.PromptFilePath, c.BotConfig.AI.PromptFileName)
	data, err := os.ReadFile(filepath.Clean(fullPath))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.BotConfig.AI.SystemRolePrompt = string(data)

	return nil
}
