package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig 后端服务(排行榜 API、Telegram 机器人)的配置
// 从 config.yaml 读取,环境变量可覆盖(如 DATABASE_HOST, BOT_TOKEN)
type ServerConfig struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Bot      BotConfig      `mapstructure:"bot"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Game     GameLinkConfig `mapstructure:"game"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	StaticDir       string        `mapstructure:"static_dir"` // wasm 构建产物目录,为空则不提供静态文件
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig PostgreSQL 连接配置
// Host 为空时后端使用内存存储
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// BotConfig Telegram 机器人配置
type BotConfig struct {
	Token      string `mapstructure:"token"`
	APIBaseURL string `mapstructure:"api_base_url"` // 排行榜 API 地址,机器人通过它查询数据
}

// AdminConfig 管理员配置
type AdminConfig struct {
	Token string  `mapstructure:"token"` // HTTP 发放次数接口的鉴权令牌
	IDs   []int64 `mapstructure:"ids"`   // Telegram 管理员用户ID
}

// GameLinkConfig 游戏入口配置
type GameLinkConfig struct {
	URL string `mapstructure:"url"`
}

// Enabled 是否配置了数据库
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN 返回 PostgreSQL 连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// IsAdmin 检查 Telegram 用户是否为管理员
func (c *ServerConfig) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LoadServerConfig 读取配置文件与环境变量
// 在 configPath、当前目录和 ./config 中查找 config.yaml,文件不存在时只使用默认值与环境变量
func LoadServerConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	setServerDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// 环境变量: 下划线分隔 + 大写, 如 HTTP_ADDR, DATABASE_HOST
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setServerDefaults 设置默认值
func setServerDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.static_dir", "")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("http.shutdown_timeout", "5s")

	// 数据库 host 默认为空 = 内存模式
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "aya")
	v.SetDefault("database.name", "aya")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("database.password", "")

	// 没有默认值的键也要注册,否则 AutomaticEnv 在 Unmarshal 时不会生效
	v.SetDefault("bot.token", "")
	v.SetDefault("admin.token", "")
	v.SetDefault("bot.api_base_url", "http://localhost:8080")
	v.SetDefault("game.url", "http://localhost:8080/")
}
