package config

import "time"

type Config struct {
	Env          string           `yaml:"env" env-default:"local"`
	HttpServer   HttpServerConfig `yaml:"httpServer" env-required:"true"`
	StoreConfig  StoreConfig      `yaml:"store" env-required:"true"`
	BotConfig    BotConfig        `yaml:"bot" env-required:"true"`
	IngestConfig IngestConfig     `yaml:"ingest" env-required:"true"`
	configPath   string
}

type HttpServerConfig struct {
	Address string        `yaml:"address" env-required:"true" env-default:"localhost"`
	Port    string        `yaml:"port" env-required:"true" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
	Secret  string        `yaml:"secret" env:"HTTP_SECRET" env-required:"true" env-default:"secret"`
	// Password is exchanged for a JWT on /api/v1/login.
	Password string        `yaml:"password" env:"APP_PASSWORD" env-default:"nlbevents2024"`
	TokenTTL time.Duration `yaml:"tokenTTL" env-default:"24h"`
}

type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"postgres"`
	User     string `yaml:"user" env:"DB_USER" env-default:"user"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
}

// StoreConfig selects and configures the snapshot backend the event
// store persists to.
type StoreConfig struct {
	Backend      string   `yaml:"backend" env:"STORE_BACKEND" env-default:"file"` // "file" or "postgres"
	SnapshotPath string   `yaml:"snapshotPath" env:"STORE_SNAPSHOT_PATH" env-default:"./data/events_snapshot.json"`
	DB           DBConfig `yaml:"db"`
}

type AIConfig struct {
	Timeout               int     `yaml:"timeout" env:"AI_TIMEOUT" env-default:"60"` //in seconds
	ModelName             string  `yaml:"modelName" env:"AI_MODEL_NAME" env-required:"true"`
	AIApiToken            string  `yaml:"aiapitoken" env:"AI_API_TOKEN" env-required:"true"`
	SystemRolePrompt      string  `yaml:"systemRolePrompt" env-default:""`
	PromptFilePath        string  `yaml:"promptFilePath" env:"PROMPT_FILEPATH" env-default:""`
	PromptFileName        string  `yaml:"promptFileName" env:"PROMPT_FILENAME" env-default:""`
	ExtractionMaxTokens   int     `yaml:"extractionMaxTokens" env-default:"200"`
	ExtractionTemperature float32 `yaml:"extractionTemperature" env-default:"0.1"`
	GenerationMaxTokens   int     `yaml:"generationMaxTokens" env-default:"300"`
	GenerationTemperature float32 `yaml:"generationTemperature" env-default:"0.9"`
	EnhanceMaxTokens      int     `yaml:"enhanceMaxTokens" env-default:"1000"`
	EnhanceTemperature    float32 `yaml:"enhanceTemperature" env-default:"0.7"`
	JobBufferSize         int     `yaml:"jobBufferSize" env:"AI_BUFFER_SIZE" env-default:"10"`
	WorkersCount          int     `yaml:"workersCount" env:"AI_WORKERS_COUNT" env-default:"1"`
}

type BotConfig struct {
	Admins        []string `yaml:"admins" env-default:""`
	TgbotApiToken string   `yaml:"tgbot_apitoken" env:"TGBOT_APITOKEN" env-required:"true"`
	AI            AIConfig `yaml:"AI"`
}

// FeedConfig describes one event feed to ingest.
type FeedConfig struct {
	Name   string `yaml:"name"`   // Feed name (e.g. "nlb")
	Format string `yaml:"format"` // Loader format key (e.g. "jsonl")
	Path   string `yaml:"path"`   // Path to the feed file
}

type IngestConfig struct {
	JobBufferSize int          `yaml:"jobBufferSize" env:"INGEST_JOB_BUFFER_SIZE" env-default:"10"`
	WorkersCount  int          `yaml:"workersCount" env:"INGEST_WORKERS_COUNT" env-default:"3"`
	Timeout       int          `yaml:"timeout" env:"INGEST_TIMEOUT" env-default:"600"` //in seconds
	MaxEvents     int          `yaml:"maxEvents" env:"INGEST_MAX_EVENTS" env-default:"50"`
	Feeds         []FeedConfig `yaml:"feeds"`
}

// GetTimeout returns the AI call timeout as a duration.
func (a AIConfig) GetTimeout() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

// GetTimeout returns the per-feed ingestion timeout as a duration.
func (i IngestConfig) GetTimeout() time.Duration {
	return time.Duration(i.Timeout) * time.Second
}
