// config/config.go
package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server    ServerConfiguration
	Policy    PolicyConfiguration
	Log       LogConfiguration
	Redis     RedisConfiguration
	RateLimit RateLimitConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port         string
	Mode         string
	EnforceAdmin bool
}

// PolicyConfiguration points at the policy file and controls compilation.
type PolicyConfiguration struct {
	File            string
	Watch           bool
	StrictOperators bool
}

type LogConfiguration struct {
	Dir   string
	Level string
}

// RedisConfiguration stores data for Redis connection. An empty Addr
// disables Redis-backed features.
type RedisConfiguration struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

type RateLimitConfiguration struct {
	Requests int
	Window   time.Duration
}

var config *Configuration

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.enforceAdmin", false)
	v.SetDefault("policy.file", "config/policies.yaml")
	v.SetDefault("policy.watch", true)
	v.SetDefault("policy.strictOperators", false)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dialTimeout", "5s")
	v.SetDefault("rateLimit.requests", 100)
	v.SetDefault("rateLimit.window", "1m")
}

// Load reads config.yaml from paths. Environment variables such as
// POLICY_FILE override the file, which overrides the defaults.
func Load(v *viper.Viper, paths ...string) (*Configuration, error) {
	if len(paths) == 0 {
		paths = []string{"config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return nil, err
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func InitConfig() error {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		return err
	}
	config = cfg
	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
