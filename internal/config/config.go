package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type TopUpConfig struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer  `yaml:"http_server"`
	GRPCServer  `yaml:"grpc_server"`
	TopUpDB     `yaml:"topup_db"`
	LogConfig   `yaml:"log_config"`
	NowPayments `yaml:"nowpayments"`
	Reconcile   `yaml:"reconcile"`
	Redis       `yaml:"redis"`
	Kafka       `yaml:"kafka"`
	Mongo       `yaml:"mongo"`
	Auth        `yaml:"auth"`
}

type HTTPServer struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"PORT" env-default:"8989"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50061"`
}

type TopUpDB struct {
	Dsn            string `yaml:"dsn" env:"TOPUP_DB_DSN" env-required:"true"`
	SkipMigrations bool   `yaml:"skip_migrations" env:"TOPUP_DB_SKIP_MIGRATIONS"`
	MaxOpenConns   int    `yaml:"max_open_conns" env:"TOPUP_DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns   int    `yaml:"max_idle_conns" env:"TOPUP_DB_MAX_IDLE_CONNS" env-default:"5"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type NowPayments struct {
	BaseURL        string        `yaml:"base_url" env:"NOWPAYMENTS_BASE_URL" env-default:"https://api.nowpayments.io"`
	APIKey         string        `yaml:"api_key" env:"NOWPAYMENTS_API_KEY"`
	IpnCallbackURL string        `yaml:"ipn_callback_url" env:"IPN_CALLBACK_URL" env-default:"https://nowpayments.io"`
	Timeout        time.Duration `yaml:"timeout" env:"NOWPAYMENTS_TIMEOUT" env-default:"5s"`
}

type Reconcile struct {
	Interval time.Duration `yaml:"interval" env:"RECONCILE_INTERVAL" env-default:"10s"`
	Workers  int           `yaml:"workers" env:"RECONCILE_WORKERS" env-default:"1"`
	LockTTL  time.Duration `yaml:"lock_ttl" env:"RECONCILE_LOCK_TTL" env-default:"20s"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	LockKey  string `yaml:"lock_key" env:"REDIS_LOCK_KEY" env-default:"reconcile:pass"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"payment-events"`
}

type Mongo struct {
	URI        string `yaml:"uri" env:"MONGO_URI"`
	Database   string `yaml:"database" env:"MONGO_DATABASE" env-default:"topup"`
	Collection string `yaml:"collection" env:"MONGO_COLLECTION" env-default:"provider_snapshots"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
}

// MustLoad reads the YAML file named by TOPUP_CONFIG_PATH when it is set and
// falls back to the environment otherwise.
func MustLoad() *TopUpConfig {
	var cfg TopUpConfig

	configPath := os.Getenv("TOPUP_CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("failed to read config from env: %v", err)
		}
		return &cfg
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
