package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"`
	Contests ContestsConfig `mapstructure:"contests"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	// Driver 可以是 "sqlite" 或 "postgres"
	Driver string      `mapstructure:"driver"`
	DSN    string      `mapstructure:"dsn"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FetcherConfig 定义了外部平台抓取器的配置
type FetcherConfig struct {
	// TimeoutSeconds 是单次出站请求的超时上限（秒）
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
	// CacheTTLSeconds 是抓取结果在Redis中的缓存时长（秒），0表示不缓存
	CacheTTLSeconds int `mapstructure:"cacheTTLSeconds"`
	// Leetcode 持有可选的会话凭证，用于提高GraphQL策略的成功率
	Leetcode LeetcodeConfig `mapstructure:"leetcode"`
}

// LeetcodeConfig 定义了LeetCode的可选请求头凭证
// 这些值通常通过环境变量 FETCHER_LEETCODE_* 注入
type LeetcodeConfig struct {
	Session string `mapstructure:"session"`
	CSRF    string `mapstructure:"csrf"`
	Region  string `mapstructure:"region"`
}

// ContestsConfig 定义了比赛聚合源的配置
type ContestsConfig struct {
	FeedURL string `mapstructure:"feedUrl"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	// 先尝试加载.env文件，让本地开发时的环境变量生效
	_ = godotenv.Load()

	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 2. 添加配置文件搜索路径
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 3. 设置环境变量支持
	// 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:9000
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 设置默认值，保证在没有配置文件时也能启动
	v.SetDefault("server.address", ":4000")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "cptrack.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("fetcher.timeoutSeconds", 15)
	v.SetDefault("fetcher.cacheTTLSeconds", 600)
	v.SetDefault("contests.feedUrl", "https://competeapi.vercel.app/contests/upcoming/")

	// 5. 读取配置文件（允许不存在，此时完全依赖默认值和环境变量）
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("无法读取配置文件: %w", err)
		}
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置: %w", err)
	}

	return &cfg, nil
}
