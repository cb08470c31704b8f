package jewelfeed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// configService wraps viper for process-level configuration.
type configService struct {
	v *viper.Viper
}

// newConfig creates a new instance of configService.
func newConfig() *configService {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading Config file: %v\n", err)
	}

	return &configService{v: v}
}

// EnvString retrieves a string configuration value from environment variables.
func (c *configService) EnvString(envName string, defaultValue ...string) string {
	value := c.v.Get(envName)
	if value != nil {
		return fmt.Sprint(value)
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}

	return ""
}

// GetBool retrieves a boolean type configuration value.
func (c *configService) GetBool(path string) bool {
	return c.v.GetBool(path)
}

const configFileName = "config.json"

// JobConfig is the per-job crawl configuration, persisted as a JSON
// document in the data directory.
type JobConfig struct {
	BaseUrl      string   `json:"base_url"`
	UserAgent    string   `json:"user_agent"`
	Categories   []string `json:"categories"`
	RequestDelay float64  `json:"request_delay"`
	MaxRetries   int      `json:"max_retries"`
}

func defaultJobConfig() JobConfig {
	return JobConfig{
		BaseUrl:      "",
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Categories:   []string{"/necklaces", "/earrings", "/rings", "/bracelets", "/pendants"},
		RequestDelay: 2,
		MaxRetries:   3,
	}
}

// LoadJobConfig reads the persisted job configuration, falling back to
// defaults when no file exists yet.
func LoadJobConfig(dataDir string) (JobConfig, error) {
	path := filepath.Join(dataDir, configFileName)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultJobConfig(), nil
		}
		return JobConfig{}, fmt.Errorf("error opening config file: %w", err)
	}
	defer file.Close()

	var cfg JobConfig
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return JobConfig{}, fmt.Errorf("error decoding config JSON: %w", err)
	}
	return cfg, nil
}

// SaveJobConfig writes the job configuration to the data directory.
func SaveJobConfig(dataDir string, cfg JobConfig) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	file, err := os.Create(filepath.Join(dataDir, configFileName))
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	return json.NewEncoder(file).Encode(cfg)
}
