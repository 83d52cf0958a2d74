package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	DataDir       string `json:"data_dir"`
	LogLevel      string `json:"log_level"`
	Listen        string `json:"listen"`
	MaxConcurrent int    `json:"max_concurrent"`
	CatalogFile   string `json:"catalog_file"`
	Agent         struct {
		Name            string `json:"name"`
		CredentialsFile string `json:"credentials_file"`
		APIBaseURL      string `json:"api_base_url"`
	} `json:"agent"`
	Dedup struct {
		TTLMinutes int `json:"ttl_minutes"`
		MaxEntries int `json:"max_entries"`
	} `json:"dedup"`
	Cart struct {
		ItemCap int `json:"item_cap"`
	} `json:"cart"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir:       filepath.Join(os.Getenv("HOME"), ".cartbot"),
		LogLevel:      "info",
		Listen:        ":8080",
		MaxConcurrent: 16,
	}
	cfg.Agent.Name = "BM Cart Bot"
	cfg.Agent.APIBaseURL = "https://businessmessages.googleapis.com"
	cfg.Dedup.TTLMinutes = 10
	cfg.Dedup.MaxEntries = 4096
	cfg.Cart.ItemCap = 50

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if creds := os.Getenv("BM_CREDENTIALS_FILE"); creds != "" {
		cfg.Agent.CredentialsFile = creds
	}
	if baseURL := os.Getenv("BM_API_BASE_URL"); baseURL != "" {
		cfg.Agent.APIBaseURL = baseURL
	}
	if listen := os.Getenv("CARTBOT_LISTEN"); listen != "" {
		cfg.Listen = listen
	}

	return cfg, nil
}

func writeDefaults(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}
