package config

import "time"

// Config 配置主体
type Config struct {
	Server                  ServerConfig            `mapstructure:"server"`
	DB                      DBConfig                `mapstructure:"database"`
	Redis                   RedisConfig             `mapstructure:"redis"`
	Mongo                   MongoConfig             `mapstructure:"mongo"`
	MinIO                   MinIOConfig             `mapstructure:"minio"`
	Logstash                LogstashConfig          `mapstructure:"logstash"`
	Kafka                   KafkaConfig             `mapstructure:"kafka"`
	KafkaEngagementConsumer KafkaEngagementConsumer `mapstructure:"kafka_engagement_consumer"`
	Platforms               PlatformsConfig         `mapstructure:"platforms"`
	Publisher               PublisherConfig         `mapstructure:"publisher"`
	Planner                 PlannerConfig           `mapstructure:"planner"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig Mongo配置，性能快照时序数据存储
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	MainBucket string `mapstructure:"main_bucket"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// LogstashConfig 日志远程上报配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaEngagementConsumer 互动事件消费者，承接平台回调转发的迟到指标
type KafkaEngagementConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// PlatformsConfig 各平台接入配置
type PlatformsConfig struct {
	ShortVideo PlatformConfig `mapstructure:"short_video"`
	Photo      PlatformConfig `mapstructure:"photo"`
}

// PlatformConfig 单个平台的提交端点与凭据。
// BaseURL 为空时平台客户端工作在离线模式（内置榜单、模拟提交），便于联调。
type PlatformConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AccessToken string `mapstructure:"access_token"`
	TimeoutSec  int    `mapstructure:"timeout_sec"`
}

// PublisherConfig 发布重试预算
type PublisherConfig struct {
	MaxAttempts  int `mapstructure:"max_attempts"`   // 默认 3
	BaseDelaySec int `mapstructure:"base_delay_sec"` // 默认 30
	MaxDelaySec  int `mapstructure:"max_delay_sec"`  // 默认 300
}

func (c PublisherConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelaySec) * time.Second
}

func (c PublisherConfig) MaxDelay() time.Duration {
	return time.Duration(c.MaxDelaySec) * time.Second
}

// PlannerConfig 规划参数
type PlannerConfig struct {
	TrendLimit int   `mapstructure:"trend_limit"` // 每平台取榜条数，默认 20
	RandSeed   int64 `mapstructure:"rand_seed"`   // 0 表示按时间播种；固定值用于复现排期
}
