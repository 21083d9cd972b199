package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/hotelhub/reservation-service/pkg/auth"
	"github.com/hotelhub/reservation-service/pkg/kafka"
	"github.com/hotelhub/reservation-service/pkg/logger"
	"github.com/hotelhub/reservation-service/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"RESERVATION_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"RESERVATION_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"5s"`
	WriteTimeout time.Duration
}

type RoomHTTPServer struct {
	Host string `envconfig:"ROOM_HTTP_HOST" default:"localhost"`
	Port string `envconfig:"ROOM_HTTP_PORT" default:"8060"`
}

type ClientHTTPServer struct {
	Host string `envconfig:"CLIENT_HTTP_HOST" default:"localhost"`
	Port string `envconfig:"CLIENT_HTTP_PORT" default:"8070"`
}

type Redis struct {
	Addr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
}

// LookupTimeout bounds every collaborator call so one slow dependency
// cannot stall a whole list response.
type Collaborators struct {
	LookupTimeout time.Duration `envconfig:"COLLABORATOR_TIMEOUT" default:"3s"`
}

type Config struct {
	Server           HTTPServer `yaml:"server"`
	Database         postgres.Config
	Kafka            kafka.Config
	Auth             auth.Config
	Redis            Redis
	Collaborators    Collaborators
	RoomHTTPServer   RoomHTTPServer
	ClientHTTPServer ClientHTTPServer
	Log              logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		config := new(Config)
		for _, op := range ops {
			op(config)
		}
		if err := envconfig.Process("", config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
