package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	// defaults
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("build", "develop")
	Conf.SetDefault("debug", true)
	Conf.SetDefault("testMode", false)
	Conf.SetDefault("appName", "Rambam")
	Conf.SetDefault("rollbarToken", "")

	Conf.SetDefault("server.address", ":8000")
	Conf.SetDefault("server.host", "localhost")
	Conf.SetDefault("server.debugHost", ":4000")
	Conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	Conf.SetDefault("server.disableReqLogs", false)

	Conf.SetDefault("database.engine", "postgres")
	Conf.SetDefault("database.host", "localhost")
	Conf.SetDefault("database.port", 5432)
	Conf.SetDefault("database.name", "rambam")
	Conf.SetDefault("database.user", "rambam")
	Conf.SetDefault("database.password", "")
	Conf.SetDefault("database.adminUser", "")
	Conf.SetDefault("database.adminPassword", "")
	Conf.SetDefault("database.disableTLS", true)

	Conf.SetDefault("study.epoch", "2024-04-23")
	Conf.SetDefault("study.startingCycle", 44)
	Conf.SetDefault("study.chaptersPerDay", 3)

	Conf.SetDefault("sefaria.baseURL", "https://www.sefaria.org/api")
	Conf.SetDefault("sefaria.timeout", 10*time.Second)
	Conf.SetDefault("sefaria.requestsPerSecond", 5.0)
	Conf.SetDefault("sefaria.burst", 10)

	Conf.SetDefault("cache.path", "")
	Conf.SetDefault("cache.inMemory", true)
	Conf.SetDefault("cache.textTTL", 24*time.Hour)
	Conf.SetDefault("cache.indexTTL", 7*24*time.Hour)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		Conf.SetDefault("testMode", true)
	}
	Conf.SetDefault("env", env)
	Conf.SetEnvPrefix(env)
	// SERVER_DEBUGHOST overrides server.debugHost
	Conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if root, err := Getwd(); err == nil {
		dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	Conf.AutomaticEnv()
}

type (
	Config struct {
		Build        string
		Env          string `validate:"oneof=DEV TEST QA PROD"`
		Debug        bool
		TestMode     bool
		AppName      string `validate:"required"`
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Study    StudyConfig
		Sefaria  SefariaConfig
		Cache    CacheConfig
	}

	ServerConfig struct {
		Address         string `validate:"required"`
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration `validate:"gt=0"`
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine        string `validate:"oneof=postgres sqlite"`
		Host          string
		Port          int
		Name          string `validate:"required"`
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	StudyConfig struct {
		Epoch          string `validate:"required,ymd"`
		StartingCycle  int
		ChaptersPerDay int `validate:"gt=0"`
	}

	SefariaConfig struct {
		BaseURL           string        `validate:"required,url"`
		Timeout           time.Duration `validate:"gt=0"`
		RequestsPerSecond float64       `validate:"gt=0"`
		Burst             int           `validate:"gt=0"`
	}

	CacheConfig struct {
		Path     string `validate:"required_without=InMemory"`
		InMemory bool
		TextTTL  time.Duration `validate:"gt=0"`
		IndexTTL time.Duration `validate:"gt=0"`
	}
)

// Address is the "host:port" of the database server.
func (c DatabaseConfig) Address() string {
	if c.Port == 0 {
		return c.Host
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewConfig reads Conf into a Config. Invalid configuration is fatal.
func NewConfig() *Config {
	conf, err := LoadConfig(Conf)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

// LoadConfig reads v into a Config and validates it.
func LoadConfig(v *viper.Viper) (*Config, error) {
	conf := &Config{
		Build:        v.GetString("build"),
		Env:          v.GetString("env"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Study: StudyConfig{
			Epoch:          v.GetString("study.epoch"),
			StartingCycle:  v.GetInt("study.startingCycle"),
			ChaptersPerDay: v.GetInt("study.chaptersPerDay"),
		},
		Sefaria: SefariaConfig{
			BaseURL:           strings.TrimRight(v.GetString("sefaria.baseURL"), "/"),
			Timeout:           v.GetDuration("sefaria.timeout"),
			RequestsPerSecond: v.GetFloat64("sefaria.requestsPerSecond"),
			Burst:             v.GetInt("sefaria.burst"),
		},
		Cache: CacheConfig{
			Path:     v.GetString("cache.path"),
			InMemory: v.GetBool("cache.inMemory"),
			TextTTL:  v.GetDuration("cache.textTTL"),
			IndexTTL: v.GetDuration("cache.indexTTL"),
		},
	}

	validate := validator.New()
	if err := validate.RegisterValidation(ymdTag, ymdValidation); err != nil {
		return nil, errors.Wrap(err, "registering config validators")
	}
	if err := validate.Struct(conf); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return conf, nil
}
