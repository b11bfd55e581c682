package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Cron     CronConfig     `mapstructure:"cron"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Health   HealthConfig   `mapstructure:"health"`
	Badge    BadgeConfig    `mapstructure:"badge"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Export   ExportConfig   `mapstructure:"export"`
	RepoMeta RepoMetaConfig `mapstructure:"repo_meta"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
	// Public URL of the directory itself, used for the self-reference
	// probe short-circuit and badge detection.
	SiteURL string `mapstructure:"site_url"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	HealthCheck string `mapstructure:"health_check"`
	BadgeScan   string `mapstructure:"badge_scan"`
	Export      string `mapstructure:"export"`
	RepoRefresh string `mapstructure:"repo_refresh"`
}

type ProbeConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type HealthConfig struct {
	SampleSize int           `mapstructure:"sample_size"`
	BatchSize  int           `mapstructure:"batch_size"`
	Window     time.Duration `mapstructure:"window"`
	Tolerance  int           `mapstructure:"tolerance"`
	Retention  time.Duration `mapstructure:"retention"`
}

type BadgeConfig struct {
	BatchSize int           `mapstructure:"batch_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// Path on the directory site that tool pages embed when they show the
	// verification badge, e.g. "/badge.svg".
	BadgePath string `mapstructure:"badge_path"`
}

type ArchiveConfig struct {
	SaveBaseURL string        `mapstructure:"save_base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type GitHubConfig struct {
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ExportConfig struct {
	Owner         string `mapstructure:"owner"`
	Repo          string `mapstructure:"repo"`
	Branch        string `mapstructure:"branch"`
	DataFilePath  string `mapstructure:"data_file_path"`
	IndexFilePath string `mapstructure:"index_file_path"`
	CommitAuthor  string `mapstructure:"commit_author"`
	CommitEmail   string `mapstructure:"commit_email"`
}

type RepoMetaConfig struct {
	Staleness time.Duration `mapstructure:"staleness"`
	Limit     int           `mapstructure:"limit"`
}

type NotifyConfig struct {
	// When enabled, sustained-offline tools with a known repository get an
	// issue opened on that repository (at most once per tool).
	Enabled bool `mapstructure:"enabled"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("app.site_url", "http://localhost:8080")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.health_check", "@every 6h")
	v.SetDefault("cron.badge_scan", "@every 24h")
	v.SetDefault("cron.export", "0 0 4 * * *")
	v.SetDefault("cron.repo_refresh", "0 0 5 * * *")
	v.SetDefault("probe.timeout", "10s")
	v.SetDefault("health.sample_size", 15)
	v.SetDefault("health.batch_size", 3)
	v.SetDefault("health.window", "48h")
	v.SetDefault("health.tolerance", 5)
	v.SetDefault("health.retention", "720h")
	v.SetDefault("badge.batch_size", 5)
	v.SetDefault("badge.timeout", "15s")
	v.SetDefault("badge.badge_path", "/badge.svg")
	v.SetDefault("archive.save_base_url", "https://web.archive.org/save")
	v.SetDefault("archive.timeout", "30s")
	v.SetDefault("github.timeout", "15s")
	v.SetDefault("export.branch", "main")
	v.SetDefault("export.data_file_path", "data/tools.json")
	v.SetDefault("export.index_file_path", "TOOLS.md")
	v.SetDefault("export.commit_author", "toolindex-bot")
	v.SetDefault("export.commit_email", "bot@toolindex.local")
	v.SetDefault("repo_meta.staleness", "168h")
	v.SetDefault("repo_meta.limit", 25)
	v.SetDefault("notify.enabled", false)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
