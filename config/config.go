package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 HOTCACHE_CACHE_DEFAULT_TTL
const EnvPrefix = "HOTCACHE"

// Config 应用配置
type Config struct {
	Cache       CacheConfig    `mapstructure:"cache"`
	Loader      LoaderConfig   `mapstructure:"loader"`
	Refresh     RefreshConfig  `mapstructure:"refresh"`
	Queue       QueueConfig    `mapstructure:"queue"`
	Snapshot    SnapshotConfig `mapstructure:"snapshot"`
	MetricsAddr string         `mapstructure:"metrics_addr"`
	LogLevel    string         `mapstructure:"log_level"`
}

// CacheConfig 榜单缓存
type CacheConfig struct {
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
	MaxSize    int           `mapstructure:"max_size"`
}

// LoaderConfig 旁路加载
type LoaderConfig struct {
	EmptyTTL      time.Duration `mapstructure:"empty_ttl"`
	RefreshFactor float64       `mapstructure:"refresh_factor"`
}

// RefreshConfig 手动刷新限制
type RefreshConfig struct {
	Guard time.Duration `mapstructure:"guard"`
}

// QueueConfig 批量处理
type QueueConfig struct {
	Delay       time.Duration `mapstructure:"delay"`
	FailureRate float64       `mapstructure:"failure_rate"`
}

// SnapshotConfig 榜单快照，远端失败时兜底
type SnapshotConfig struct {
	Backend  string        `mapstructure:"backend"` // 空、go-cache、lru 或 fastcache
	Size     int           `mapstructure:"size"`
	TTL      time.Duration `mapstructure:"ttl"`
	StaleTTL time.Duration `mapstructure:"stale_ttl"`
}

// SetDefaults 写入默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("cache.default_ttl", 5*time.Minute)
	v.SetDefault("cache.max_size", 200)
	v.SetDefault("loader.empty_ttl", 30*time.Second)
	v.SetDefault("loader.refresh_factor", 0.0)
	v.SetDefault("refresh.guard", 3*time.Second)
	v.SetDefault("queue.delay", 200*time.Millisecond)
	v.SetDefault("queue.failure_rate", 0.1)
	v.SetDefault("snapshot.backend", "go-cache")
	v.SetDefault("snapshot.size", 1024)
	v.SetDefault("snapshot.ttl", 24*time.Hour)
	v.SetDefault("snapshot.stale_ttl", 30*time.Second)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log_level", "info")
}

// NewViper 带默认值和环境变量绑定的 viper
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load 读取配置文件（可为空），再叠加环境变量
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error
	if c.Cache.DefaultTTL <= 0 {
		errs = append(errs, errors.New("cache.default_ttl must be positive"))
	}
	if c.Cache.MaxSize < 0 {
		errs = append(errs, errors.New("cache.max_size must not be negative"))
	}
	if c.Loader.RefreshFactor < 0 || c.Loader.RefreshFactor >= 1 {
		errs = append(errs, errors.New("loader.refresh_factor must be in [0, 1)"))
	}
	if c.Queue.FailureRate < 0 || c.Queue.FailureRate > 1 {
		errs = append(errs, errors.New("queue.failure_rate must be in [0, 1]"))
	}
	switch c.Snapshot.Backend {
	case "", "go-cache", "lru", "fastcache":
	default:
		errs = append(errs, fmt.Errorf("snapshot.backend %q is not one of go-cache, lru, fastcache", c.Snapshot.Backend))
	}
	if c.Snapshot.Size < 0 {
		errs = append(errs, errors.New("snapshot.size must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
