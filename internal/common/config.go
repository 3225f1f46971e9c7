package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 全局配置
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Recovery  RecoveryConfig  `yaml:"recovery"`
}

// SchedulerConfig 调度器配置
type SchedulerConfig struct {
	// Type 预留策略类型：capacity、fifo
	Type string `yaml:"type"`
	// UsePortInNodeName 节点名是否携带端口（host:port），
	// 主要用于单机多 NodeManager 实例的场景
	UsePortInNodeName bool `yaml:"use_port_in_node_name"`
}

// RecoveryConfig 恢复日志配置
type RecoveryConfig struct {
	Enabled bool `yaml:"enabled"`
	// StoreType 日志存储类型：memory、file、kafka
	StoreType string      `yaml:"store_type"`
	Directory string      `yaml:"directory,omitempty"`
	Kafka     KafkaConfig `yaml:"kafka,omitempty"`
}

// KafkaConfig Kafka 日志复制配置
type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	Topic      string   `yaml:"topic"`
	BufferSize int      `yaml:"buffer_size"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			Type:              "capacity",
			UsePortInNodeName: false,
		},
		Recovery: RecoveryConfig{
			Enabled:   false,
			StoreType: "memory",
		},
	}
}

// LoadConfig 从 YAML 文件加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate 验证配置合法性
func (c *Config) Validate() error {
	switch c.Scheduler.Type {
	case "capacity", "fifo":
	default:
		return NewValidationError("scheduler.type",
			"must be one of: capacity, fifo", c.Scheduler.Type)
	}

	if c.Recovery.Enabled {
		switch c.Recovery.StoreType {
		case "memory":
		case "file":
			if c.Recovery.Directory == "" {
				return NewValidationError("recovery.directory",
					"cannot be empty for file store", c.Recovery.Directory)
			}
		case "kafka":
			if len(c.Recovery.Kafka.Brokers) == 0 {
				return NewValidationError("recovery.kafka.brokers",
					"cannot be empty for kafka store", c.Recovery.Kafka.Brokers)
			}
			if c.Recovery.Kafka.Topic == "" {
				return NewValidationError("recovery.kafka.topic",
					"cannot be empty for kafka store", c.Recovery.Kafka.Topic)
			}
		default:
			return NewValidationError("recovery.store_type",
				"must be one of: memory, file, kafka", c.Recovery.StoreType)
		}
	}

	return nil
}
