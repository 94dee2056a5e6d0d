// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"autohub/internal/pkg/resilience"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the configuration shared by every service binary. Each service
// reads only the sections it needs.
type Config struct {
	App        AppConfig                    `yaml:"app"`
	Log        LogConfig                    `yaml:"log"`
	Infra      InfraConfig                  `yaml:"infra"`
	Storage    StorageConfig                `yaml:"storage"`
	Services   map[string]string            `yaml:"services"`
	Resilience map[string]resilience.Config `yaml:"resilience"`
	Inventory  InventoryConfig              `yaml:"inventory"`
	Order      OrderConfig                  `yaml:"order"`
	Gateway    GatewayConfig                `yaml:"gateway"`
}

type AppConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type InfraConfig struct {
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Nacos     NacosConfig     `yaml:"nacos"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type NacosConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServerAddrs string `yaml:"serverAddrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

type MySQLConfig struct {
	DSN          string        `yaml:"dsn"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Database     string        `yaml:"database"`
	MaxOpenConns int           `yaml:"maxOpenConns"`
	MaxIdleConns int           `yaml:"maxIdleConns"`
	ConnMaxLife  time.Duration `yaml:"connMaxLifetime"`
	AutoMigrate  bool          `yaml:"autoMigrate"`
}

// PostgresConfig is read by the order store when storage.driver is postgres.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
}

type RedisConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
}

type ZookeeperConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Servers        []string      `yaml:"servers"`
	SessionTimeout time.Duration `yaml:"sessionTimeout"`
}

// StorageConfig selects the repository implementation: memory, mysql, postgres or redis.
type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type InventoryConfig struct {
	ReservationTTL time.Duration `yaml:"reservationTTL"`
}

type OrderConfig struct {
	ProcessingTimeout    time.Duration `yaml:"processingTimeout"`
	DefaultExpiryMinutes int           `yaml:"defaultExpiryMinutes"`
	Reaper               ReaperConfig  `yaml:"reaper"`
}

type ReaperConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	BatchSize int           `yaml:"batchSize"`
}

type GatewayConfig struct {
	ListingConcurrency int `yaml:"listingConcurrency"`
}

var (
	currentConfig *Config
	configMu      sync.RWMutex
)

// Init loads the configuration file named by CONFIG_FILE (configs/<name>.yaml
// when unset) and makes it the current configuration.
func Init(serviceName string) (*Config, error) {
	path := getEnv("CONFIG_FILE", "configs/"+serviceName+".yaml")
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.App.Name == "" {
		cfg.App.Name = serviceName
	}
	configMu.Lock()
	currentConfig = cfg
	configMu.Unlock()
	return cfg, nil
}

// GetCurrentConfig returns the configuration installed by Init.
func GetCurrentConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	if currentConfig == nil {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg
	}
	return currentConfig
}

// Load reads path, applies env overrides and defaults. A missing file is not
// an error: the service then runs on env and defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Errorf("invalid HTTP_PORT %q", v)
		}
		c.App.Port = port
	}
	overrides := map[string]*string{
		"APP_ENV":            &c.App.Env,
		"LOG_LEVEL":          &c.Log.Level,
		"JAEGER_ENDPOINT":    &c.Infra.Jaeger.Endpoint,
		"NACOS_SERVER_ADDRS": &c.Infra.Nacos.ServerAddrs,
		"NACOS_NAMESPACE":    &c.Infra.Nacos.Namespace,
		"NACOS_GROUP":        &c.Infra.Nacos.Group,
		"MYSQL_DSN":          &c.Infra.MySQL.DSN,
		"POSTGRES_DSN":       &c.Infra.Postgres.DSN,
		"REDIS_PASSWORD":     &c.Infra.Redis.Password,
		"STORAGE_DRIVER":     &c.Storage.Driver,
	}
	for key, dst := range overrides {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv("REDIS_ADDRS"); ok {
		c.Infra.Redis.Addrs = splitList(v)
	}
	if v, ok := os.LookupEnv("ZK_SERVERS"); ok {
		c.Infra.Zookeeper.Servers = splitList(v)
		c.Infra.Zookeeper.Enabled = len(c.Infra.Zookeeper.Servers) > 0
	}
	if v, ok := os.LookupEnv("NACOS_ENABLED"); ok {
		c.Infra.Nacos.Enabled, _ = strconv.ParseBool(v)
	}

	// <SERVICE>_BASE_URL, e.g. INVENTORY_BASE_URL for inventory-service
	for _, env := range os.Environ() {
		key, val, _ := strings.Cut(env, "=")
		if !strings.HasSuffix(key, "_BASE_URL") {
			continue
		}
		name := strings.ToLower(strings.TrimSuffix(key, "_BASE_URL"))
		name = strings.ReplaceAll(name, "_", "-")
		if !strings.HasSuffix(name, "-service") && name != "api-gateway" {
			name += "-service"
		}
		if c.Services == nil {
			c.Services = map[string]string{}
		}
		c.Services[name] = val
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Port == 0 {
		c.App.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Infra.Nacos.ServerAddrs == "" {
		c.Infra.Nacos.ServerAddrs = "localhost:8848"
	}
	if c.Infra.Nacos.Group == "" {
		c.Infra.Nacos.Group = "DEFAULT_GROUP"
	}
	if len(c.Infra.Redis.Addrs) == 0 {
		c.Infra.Redis.Addrs = []string{"localhost:6379"}
	}
	if c.Infra.Zookeeper.SessionTimeout == 0 {
		c.Infra.Zookeeper.SessionTimeout = 5 * time.Second
	}
	if c.Inventory.ReservationTTL == 0 {
		c.Inventory.ReservationTTL = 15 * time.Minute
	}
	if c.Order.ProcessingTimeout == 0 {
		c.Order.ProcessingTimeout = 10 * time.Second
	}
	if c.Order.DefaultExpiryMinutes <= 0 {
		c.Order.DefaultExpiryMinutes = 30
	}
	if c.Order.Reaper.Interval == 0 {
		c.Order.Reaper.Interval = time.Minute
	}
	if c.Order.Reaper.BatchSize <= 0 {
		c.Order.Reaper.BatchSize = 100
	}
	if c.Gateway.ListingConcurrency <= 0 {
		c.Gateway.ListingConcurrency = 8
	}
	if c.Services == nil {
		c.Services = map[string]string{}
	}
	if c.Resilience == nil {
		c.Resilience = map[string]resilience.Config{}
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
