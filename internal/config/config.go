// Package config loads all settings from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/negochallenge/backend/internal/llm"
)

// Config aggregates every setting the service needs.
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Database DatabaseConfig
	Product  ProductConfig
	Report   ReportConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	llmCfg, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	database := loadDatabaseConfig()

	report, err := loadReportConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		LLM:      llmCfg,
		Database: database,
		Product:  ProductConfig{Path: strings.TrimSpace(os.Getenv("PRODUCT_CONFIG"))},
		Report:   report,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// LLMConfig holds the two model configurations: the intent classifier runs
// cold and structured, the chat model runs warm and free-form.
type LLMConfig struct {
	Classifier llm.Config
	Chat       llm.Config
	Timeout    time.Duration
}

func loadLLMConfig() (LLMConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", llm.ProviderOpenAI))

	timeoutSeconds, err := parseOptionalIntEnv("LLM_TIMEOUT_SECONDS")
	if err != nil {
		return LLMConfig{}, err
	}
	timeout := 30 * time.Second
	if timeoutSeconds != nil {
		timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	base := llm.Config{
		Provider:  provider,
		APIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL:   strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
	}
	if provider == llm.ProviderArk {
		base.APIKey = strings.TrimSpace(os.Getenv("ARK_API_KEY"))
		base.BaseURL = getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3")
	}

	classifier := base
	classifier.Model = getEnvOrDefault("LLM_CLASSIFIER_MODEL", "gpt-4o-mini")
	classifier.Temperature = float32Ptr(0)
	classifier.MaxTokens = intPtr(150)
	classifier.JSONObject = true

	chat := base
	chat.Model = getEnvOrDefault("LLM_CHAT_MODEL", "gpt-4o-mini")
	chat.Temperature = float32Ptr(0.8)
	chat.MaxTokens = intPtr(200)

	return LLMConfig{Classifier: classifier, Chat: chat, Timeout: timeout}, nil
}

// DatabaseConfig holds the MySQL connection settings. When empty the service
// falls back to the in-memory store.
type DatabaseConfig struct {
	DSN string
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.DSN != ""
}

func loadDatabaseConfig() DatabaseConfig {
	if dsn := strings.TrimSpace(os.Getenv("MYSQL_DSN")); dsn != "" {
		return DatabaseConfig{DSN: dsn}
	}

	user := strings.TrimSpace(os.Getenv("MYSQL_USER"))
	pwd := strings.TrimSpace(os.Getenv("MYSQL_PWD"))
	host := strings.TrimSpace(os.Getenv("MYSQL_HOST"))
	database := strings.TrimSpace(os.Getenv("MYSQL_DATABASE"))
	if user == "" || host == "" || database == "" {
		return DatabaseConfig{}
	}

	return DatabaseConfig{
		DSN: fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4", user, pwd, host, database),
	}
}

// ProductConfig points at the optional product YAML. When empty the built-in
// defaults apply.
type ProductConfig struct {
	Path string
}

// ReportConfig toggles the daily stats report.
type ReportConfig struct {
	DailyEnabled bool
}

func loadReportConfig() (ReportConfig, error) {
	enabled, err := parseBoolEnv("DAILY_REPORT_ENABLED", false)
	if err != nil {
		return ReportConfig{}, err
	}
	return ReportConfig{DailyEnabled: enabled}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func float32Ptr(v float32) *float32 { return &v }

func intPtr(v int) *int { return &v }
