package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Etcd       EtcdConfig       `mapstructure:"etcd"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Database   DatabaseConfig   `mapstructure:"database"`
	MongoDB    MongoDBConfig    `mapstructure:"mongodb"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	S3         S3Config         `mapstructure:"s3"`
	SMTP       SMTPConfig       `mapstructure:"smtp"`
	Restaurant RestaurantConfig `mapstructure:"restaurant"`
	Cart       CartConfig       `mapstructure:"cart"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig describes the gRPC health listener and the name the instance
// registers under.
type ServerConfig struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// HTTPConfig configures the storefront API. TrustedProxies lists the proxy
// addresses or CIDRs whose X-Forwarded-For is believed; empty trusts none.
// AdvertiseHost is the address registered for discovery when Host is a
// wildcard.
type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	AdvertiseHost  string        `mapstructure:"advertise_host"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateBurst      int           `mapstructure:"rate_burst"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	SecureCookies  bool          `mapstructure:"secure_cookies"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// DatabaseConfig selects where order records go. Driver is "mysql",
// "sqlite" or empty to skip recording.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	Path         string `mapstructure:"path"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type MongoDBConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type S3Config struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// SMTPConfig configures the mail relay. Timeout bounds one SMTP attempt;
// DispatchTimeout bounds one message including retries.
type SMTPConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	From            string        `mapstructure:"from"`
	Timeout         time.Duration `mapstructure:"timeout"`
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout"`
}

// Sender falls back to the SMTP user when no explicit from address is set.
func (c SMTPConfig) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

type RestaurantConfig struct {
	Name          string `mapstructure:"name"`
	Email         string `mapstructure:"email"`
	OrderPrefix   string `mapstructure:"order_prefix"`
	DeliveryFee   int64  `mapstructure:"delivery_fee"`
	PaymentNumber string `mapstructure:"payment_number"`
	Phone         string `mapstructure:"phone"`
	Address       string `mapstructure:"address"`
}

type CartConfig struct {
	Storage      string        `mapstructure:"storage"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	TTL          time.Duration `mapstructure:"ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieMaxAge time.Duration `mapstructure:"cookie_max_age"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "storefront")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50051)

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.max_upload_bytes", 8<<20)
	v.SetDefault("http.rate_limit", 0.2)
	v.SetDefault("http.rate_burst", 3)
	v.SetDefault("http.request_timeout", 45*time.Second)
	v.SetDefault("http.advertise_host", "")
	v.SetDefault("http.trusted_proxies", []string{})

	v.SetDefault("etcd.endpoints", []string{})
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.prefix", "/services/")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("database.driver", "")
	v.SetDefault("database.path", "buttg.db")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)

	v.SetDefault("mongodb.uri", "")
	v.SetDefault("mongodb.database", "buttg")
	v.SetDefault("mongodb.collection", "audit_logs")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "order-topic")

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "payment-proofs/")

	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.timeout", 15*time.Second)
	v.SetDefault("smtp.dispatch_timeout", 20*time.Second)

	v.SetDefault("restaurant.name", "Butt G Fast Foods")
	v.SetDefault("restaurant.order_prefix", "BG")
	v.SetDefault("restaurant.delivery_fee", 100)
	v.SetDefault("restaurant.payment_number", "0321 4500552")
	v.SetDefault("restaurant.phone", "0321 4500552")
	v.SetDefault("restaurant.address", "18-19-B Commercial, Sher Shah Colony, Raiwind Road, Lahore")

	v.SetDefault("cart.storage", "memory")
	v.SetDefault("cart.key_prefix", "buttg-cart")
	v.SetDefault("cart.ttl", 7*24*time.Hour)
	v.SetDefault("cart.cookie_name", "buttg_session")
	v.SetDefault("cart.cookie_max_age", 30*24*time.Hour)

	v.SetDefault("catalog.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
}

// legacyEnv maps the environment variables the storefront has always been
// deployed with onto config keys.
var legacyEnv = map[string]string{
	"smtp.host":        "SMTP_HOST",
	"smtp.port":        "SMTP_PORT",
	"smtp.username":    "SMTP_USER",
	"smtp.password":    "SMTP_PASS",
	"smtp.from":        "SMTP_FROM",
	"restaurant.email": "RESTAURANT_EMAIL",
	"redis.addr":       "REDIS_ADDR",
}

// Load reads configPath (if non-empty) and layers BUTTG_* environment
// variables and the legacy SMTP variables on top.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("buttg")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "BUTTG_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		// Read config file
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Cart.Storage {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("cart.storage is redis but redis.addr is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cart.storage %q", c.Cart.Storage))
	}
	switch c.Database.Driver {
	case "", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}
	if c.Restaurant.DeliveryFee < 0 {
		errs = append(errs, errors.New("restaurant.delivery_fee must not be negative"))
	}
	if c.SMTP.DispatchTimeout < 0 {
		errs = append(errs, errors.New("smtp.dispatch_timeout must not be negative"))
	}
	// Every order sends two messages within one request.
	if c.HTTP.RequestTimeout > 0 && 2*c.SMTP.DispatchTimeout > c.HTTP.RequestTimeout {
		errs = append(errs, fmt.Errorf("smtp.dispatch_timeout %s leaves no room for both order emails within http.request_timeout %s",
			c.SMTP.DispatchTimeout, c.HTTP.RequestTimeout))
	}
	if c.Restaurant.OrderPrefix == "" {
		errs = append(errs, errors.New("restaurant.order_prefix is required"))
	}
	return errors.Join(errs...)
}

// RestaurantAddress is where new-order alerts go; like the sender it falls
// back to the SMTP user.
func (c *Config) RestaurantAddress() string {
	if c.Restaurant.Email != "" {
		return c.Restaurant.Email
	}
	return c.SMTP.Username
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}
