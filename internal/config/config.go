package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/efreitasn/kipledger/internal/store"
	"github.com/shopspring/decimal"
)

// Config holds all runtime configuration for the ledger.
type Config struct {
	Port     int
	LogLevel string

	StoreDriver string
	SQLitePath  string
	MySQL       store.MySQLConfig

	Timezone            string
	Location            *time.Location
	DefaultExchangeRate decimal.Decimal
	ListDefaultLimit    int
	ListMaxLimit        int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	driver := getStr("STORE_DRIVER", store.DriverMemory)
	if !isValidDriver(driver) {
		return nil, fmt.Errorf("invalid STORE_DRIVER: %q, must be one of: memory, sqlite, mysql", driver)
	}

	timezone := getStr("TIMEZONE", "Asia/Vientiane")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	defaultRate, err := getDecimal("DEFAULT_EXCHANGE_RATE", decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_EXCHANGE_RATE: %w", err)
	}
	if defaultRate.IsNegative() {
		return nil, fmt.Errorf("invalid DEFAULT_EXCHANGE_RATE: %s, must not be negative", defaultRate)
	}

	listDefault, err := getInt("LIST_DEFAULT_LIMIT", 50)
	if err != nil {
		return nil, fmt.Errorf("invalid LIST_DEFAULT_LIMIT: %w", err)
	}
	listMax, err := getInt("LIST_MAX_LIMIT", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid LIST_MAX_LIMIT: %w", err)
	}
	if listMax < 1 {
		return nil, fmt.Errorf("invalid LIST_MAX_LIMIT: %d, must be at least 1", listMax)
	}
	if listDefault < 1 || listDefault > listMax {
		return nil, fmt.Errorf("invalid LIST_DEFAULT_LIMIT: %d, must be between 1 and %d", listDefault, listMax)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:        port,
		LogLevel:    logLevel,
		StoreDriver: driver,
		SQLitePath:  getStr("SQLITE_PATH", "ledger.db"),
		MySQL: store.MySQLConfig{
			User:     getStr("MYSQL_USER", "root"),
			Password: getStr("MYSQL_PASSWORD", ""),
			Host:     getStr("MYSQL_HOST", "127.0.0.1"),
			Port:     getStr("MYSQL_PORT", "3306"),
			Database: getStr("MYSQL_DATABASE", "ledger"),
			Params:   getStr("MYSQL_PARAMS", "charset=utf8mb4&parseTime=True&loc=UTC"),
		},
		Timezone:            timezone,
		Location:            loc,
		DefaultExchangeRate: defaultRate,
		ListDefaultLimit:    listDefault,
		ListMaxLimit:        listMax,
		ReadTimeout:         readTimeout,
		WriteTimeout:        writeTimeout,
		IdleTimeout:         idleTimeout,
		ShutdownTimeout:     shutdownTimeout,
	}, nil
}

// StoreOptions returns the options for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Driver:     c.StoreDriver,
		SQLitePath: c.SQLitePath,
		MySQL:      c.MySQL,
	}
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func getDecimal(key string, defaultVal decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return decimal.NewFromString(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func isValidDriver(driver string) bool {
	switch driver {
	case store.DriverMemory, store.DriverSQLite, store.DriverMySQL:
		return true
	}
	return false
}
