package config

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// TimeService configures direct access to the time-tracking API. Used as
// the seed when the credential store holds nothing yet.
type TimeService struct {
	BaseURL  string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey   string `mapstructure:"api_key"`
	UseProxy bool   `mapstructure:"use_proxy"`
	ProxyURL string `mapstructure:"proxy_url" validate:"omitempty,url"`
}

// WorkItem configures the work-tracking side. The two custom field names
// are deployment-specific configuration, never hardcoded.
type WorkItem struct {
	BaseURL       string `mapstructure:"base_url" validate:"omitempty,url"`
	APIToken      string `mapstructure:"api_token"`
	TicketIDField string `mapstructure:"ticket_ids_field"`
	DurationField string `mapstructure:"duration_field"`
}

// Credentials configures the layered credential store.
type Credentials struct {
	MySQLDSN   string `mapstructure:"mysql_dsn"`
	SQLitePath string `mapstructure:"sqlite_path"`
	Key        string `mapstructure:"key"`
}

// HTTPServer configures the sync trigger server.
type HTTPServer struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// Relay configures the CORS relay.
type Relay struct {
	Addr                string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	UpstreamBaseURL     string `mapstructure:"upstream_base_url" validate:"omitempty,url"`
	APIKey              string `mapstructure:"api_key"`
	AllowOrigin         string `mapstructure:"allow_origin"`
	AllowUpstreamHeader bool   `mapstructure:"allow_upstream_header"`
}

// Config is the whole application configuration.
type Config struct {
	TimeService TimeService `mapstructure:"time_service"`
	WorkItem    WorkItem    `mapstructure:"work_item"`
	Credentials Credentials `mapstructure:"credentials"`
	HTTPServer  HTTPServer  `mapstructure:"http_server"`
	Relay       Relay       `mapstructure:"relay"`
}

// Manager loads the YAML config, validates it, and hot-reloads it when the
// file changes, notifying subscribers.
type Manager struct {
	mu          sync.RWMutex
	cfg         *Config
	logger      *slog.Logger
	v           *viper.Viper
	subscribers []func(Config)
	validate    *validator.Validate
}

// NewManager reads and validates the configuration at path and starts
// watching it for changes.
func NewManager(path string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("http_server.addr", ":8080")
	v.SetDefault("relay.addr", ":8585")
	v.SetDefault("relay.allow_origin", "*")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	m := &Manager{
		cfg:      &cfg,
		logger:   logger,
		v:        v,
		validate: validator.New(),
	}
	if err := m.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	logger.Info("config loaded", slog.String("path", path))

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("config file changed", slog.String("name", e.Name), slog.String("op", e.Op.String()))

		var newCfg Config
		if err := v.Unmarshal(&newCfg); err != nil {
			logger.Error("reload config", slog.String("error", err.Error()))
			return
		}
		if err := m.validate.Struct(&newCfg); err != nil {
			logger.Error("validate reloaded config", slog.String("error", err.Error()))
			return
		}

		m.mu.Lock()
		m.cfg = &newCfg
		subs := append([]func(Config){}, m.subscribers...)
		m.mu.Unlock()

		for _, fn := range subs {
			fn(newCfg)
		}
	})

	return m, nil
}

// Current returns the configuration as of now.
func (m *Manager) Current() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.cfg
}

// OnChange registers a callback invoked after each successful reload.
func (m *Manager) OnChange(fn func(Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}
