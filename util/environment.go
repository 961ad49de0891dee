package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var envLogger = log.With().Str("logger_name", "util::environment").Logger()

type environment struct {
	PostgresHost string
	PostgresPort string
	PostgresDB   string
	PostgresUser string
	PostgresPW   string
	PostgresSSL  string
	RedisHost    string
	RedisPort    string
	RedisPW      string
	RedisDB      string
	NatsURL      string
	VKToken      string
	VKGroupID    string
	AdminToken   string
	ListenPort   string
	LogLevel     string
}

// Env is a helper object for accessing environment variables.
var Env = &environment{
	PostgresHost: "POSTGRES_HOST",
	PostgresPort: "POSTGRES_PORT",
	PostgresDB:   "POSTGRES_DB",
	PostgresUser: "POSTGRES_USER",
	PostgresPW:   "POSTGRES_PASSWORD",
	PostgresSSL:  "POSTGRES_SSLMODE",
	RedisHost:    "REDIS_HOST",
	RedisPort:    "REDIS_PORT",
	RedisPW:      "REDIS_PW",
	RedisDB:      "REDIS_DB",
	NatsURL:      "NATS_URL",
	VKToken:      "VK_BOT_TOKEN",
	VKGroupID:    "VK_GROUP_ID",
	AdminToken:   "ADMIN_TOKEN",
	ListenPort:   "LISTEN_PORT",
	LogLevel:     "LOG_LEVEL",
}

func (e *environment) mustGet(name string) string {
	v := os.Getenv(name)
	if v == "" {
		msg := fmt.Sprintf("%s is not defined", name)
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	return v
}

func (e *environment) mustGetInt(name string) int {
	v := e.mustGet(name)
	n, err := strconv.Atoi(v)
	if err != nil {
		msg := fmt.Sprintf("Invalid value for %s: %s", name, v)
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	return n
}

func (e *environment) GetPostgresHost() string {
	return e.mustGet(e.PostgresHost)
}

func (e *environment) GetPostgresPort() int {
	return e.mustGetInt(e.PostgresPort)
}

func (e *environment) GetPostgresDB() string {
	return e.mustGet(e.PostgresDB)
}

func (e *environment) GetPostgresUser() string {
	return e.mustGet(e.PostgresUser)
}

func (e *environment) GetPostgresPW() string {
	return e.mustGet(e.PostgresPW)
}

func (e *environment) GetPostgresSSLMode() string {
	mode := os.Getenv(e.PostgresSSL)
	if mode == "" {
		return "disable"
	}
	return mode
}

func (e *environment) GetRedisHost() string {
	return e.mustGet(e.RedisHost)
}

func (e *environment) GetRedisPort() int {
	return e.mustGetInt(e.RedisPort)
}

func (e *environment) GetRedisPW() string {
	return os.Getenv(e.RedisPW)
}

func (e *environment) GetRedisDB() int {
	v := os.Getenv(e.RedisDB)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis db %s", v)
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	return n
}

func (e *environment) GetNatsURL() string {
	return e.mustGet(e.NatsURL)
}

func (e *environment) GetVKToken() string {
	return e.mustGet(e.VKToken)
}

func (e *environment) GetVKGroupID() int {
	return e.mustGetInt(e.VKGroupID)
}

// GetAdminToken returns the shared secret for the admin REST login.
func (e *environment) GetAdminToken() string {
	return e.mustGet(e.AdminToken)
}

func (e *environment) GetListenPort() uint {
	v := os.Getenv(e.ListenPort)
	if v == "" {
		return 8080
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		msg := fmt.Sprintf("Invalid listen port %s", v)
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	return uint(n)
}

func (e *environment) GetLogLevel() string {
	v := os.Getenv(e.LogLevel)
	if v == "" {
		return "info"
	}
	return v
}

func (e *environment) GetZeroLogLogLevel() zerolog.Level {
	l := e.GetLogLevel()
	switch strings.ToLower(l) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		fallthrough
	case "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		panic(fmt.Sprintf("Unsupported %s: %s", e.LogLevel, l))
	}
}
