package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// 对外服务配置
	HttpServerPort int `yaml:"http_server_port"` // web监听端口

	// 链状态配置
	LevelDBPath string `yaml:"leveldb_path"` // 链状态数据库路径

	// 日志配置
	LogLevel string `yaml:"log_level"` // debug/info/warn/error
}

func DefaultConfig() *Config {
	return &Config{
		HttpServerPort: 8080,
		LevelDBPath:    ".",
		LogLevel:       "info",
	}
}

func (c *Config) Unmarshal(b []byte) error {
	return yaml.Unmarshal(b, c)
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	conf := DefaultConfig()
	if err = conf.Unmarshal(data); err != nil {
		return nil, errors.WithStack(err)
	}

	return conf, nil
}
