package etcdclient

import (
	"strings"
	"time"

	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

const (
	DefaultConnectionTimeout = 30 * time.Second
	DefaultKeepAliveTimeout  = 5 * time.Second
	DefaultKeepAliveInterval = 10 * time.Second
)

type Config struct {
	Endpoint          string        `json:"endpoint" configKey:"endpoint" configUsage:"Etcd endpoint." validate:"required"`
	Namespace         string        `json:"namespace" configKey:"namespace" configUsage:"Etcd namespace." validate:"required"`
	Username          string        `json:"username" configKey:"username" configUsage:"Etcd username."`
	Password          string        `json:"-" configKey:"password" configUsage:"Etcd password." sensitive:"true"`
	ConnectTimeout    time.Duration `json:"connectTimeout" configKey:"connectTimeout" configUsage:"Etcd connect timeout." validate:"required"`
	KeepAliveTimeout  time.Duration `json:"keepAliveTimeout" configKey:"keepAliveTimeout" configUsage:"Etcd keep alive timeout." validate:"required"`
	KeepAliveInterval time.Duration `json:"keepAliveInterval" configKey:"keepAliveInterval" configUsage:"Etcd keep alive interval." validate:"required"`
}

func NewConfig() Config {
	return Config{
		Endpoint:          "",
		Namespace:         "",
		Username:          "",
		Password:          "",
		ConnectTimeout:    DefaultConnectionTimeout,
		KeepAliveTimeout:  DefaultKeepAliveTimeout,
		KeepAliveInterval: DefaultKeepAliveInterval,
	}
}

func (c *Config) Normalize() {
	c.Endpoint = strings.Trim(c.Endpoint, " /")
	c.Namespace = strings.Trim(c.Namespace, " /") + "/"
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("etcd endpoint is not set")
	}
	if c.Namespace == "" || c.Namespace == "/" {
		return errors.New("etcd namespace is not set")
	}
	return nil
}
