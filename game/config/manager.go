package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/rulegrid/game/engine"
	"github.com/wricardo/mcp-training/rulegrid/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
	ErrInvalidName    = service.ErrInvalidConfigName
)

// Manager handles level configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.LevelConfig
	configs       map[string]*engine.LevelConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.LevelConfig),
	}

	m.defaultConfig = m.findDefault()
	return m, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*engine.LevelConfig, error) {
	name, err := configID(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := m.readConfig(name)
	if err != nil {
		return nil, err
	}
	m.configs[name] = config
	return config, nil
}

// readConfig parses and validates one file. It does not touch the cache.
func (m *Manager) readConfig(name string) (*engine.LevelConfig, error) {
	data, err := os.ReadFile(filepath.Join(m.configDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := engine.ValidateLevelConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

// ListConfigs returns information about all available configurations,
// sorted by config ID. Files that fail to load are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadConfig(name)
		if err != nil {
			continue
		}

		configs = append(configs, describe(entry.Name(), name, config))
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

func describe(filename, id string, config *engine.LevelConfig) *service.ConfigInfo {
	rules := make([]string, 0, len(config.Rules))
	for _, rule := range config.Rules {
		rules = append(rules, strings.ToUpper(strings.Join(rule.Words, " ")))
	}
	return &service.ConfigInfo{
		Filename:    filename,
		ConfigID:    id,
		Name:        config.Name,
		Description: config.Description,
		Width:       config.Width,
		Height:      config.Height,
		Rules:       rules,
	}
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// ReloadConfig drops a cached configuration and reads it again from disk
func (m *Manager) ReloadConfig(name string) error {
	name, err := configID(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.configs, name)
	m.mu.Unlock()

	_, err = m.LoadConfig(name)
	return err
}

// RefreshCache reloads all cached configurations from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	def := m.findDefault()

	m.mu.Lock()
	m.defaultConfig = def
	m.mu.Unlock()
}

// Count returns the number of cached configurations
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}

// findDefault prefers level_1.json, then the first loadable file, then the
// built-in level.
func (m *Manager) findDefault() *engine.LevelConfig {
	if config, err := m.LoadConfig(engine.DefaultLevelName); err == nil {
		return config
	}

	configs, err := m.ListConfigs()
	if err == nil && len(configs) > 0 {
		if config, err := m.LoadConfig(configs[0].ConfigID); err == nil {
			return config
		}
	}

	return engine.DefaultLevelConfig()
}

// SaveConfig saves a configuration to disk
func (m *Manager) SaveConfig(name string, config *engine.LevelConfig) error {
	name, err := configID(name)
	if err != nil {
		return err
	}

	if err := engine.ValidateLevelConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, name+".json")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}

// configID strips the .json extension and rejects names that would escape
// the config directory.
func configID(name string) (string, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}
