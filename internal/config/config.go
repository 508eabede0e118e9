package config

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	App         AppConfig
	Cache       CacheConfig
	Storage     StorageConfig
	Forecast    ForecastConfig
	SupplyChain SupplyChainConfig
	Drive       DriveConfig
	Pipeline    PipelineConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	LogLevel       string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

type AppConfig struct {
	UploadDir           string
	DataDir             string
	MaxUploadSizeMB     int
	WarningUploadSizeMB int
	WarningRows         int
	DefaultDecimalSep   string
	DefaultValueType    string
	DetectionSampleRows int
	ProductsPerAnalysis int
}

type CacheConfig struct {
	Enabled               bool
	RedisURL              string
	RedisHost             string
	RedisPort             string
	RedisPassword         string
	RedisDB               int
	SupplyChainTTLSeconds int
}

// StorageConfig points at the S3-compatible bucket that archives raw uploads
type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Prefix    string
}

type ForecastConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SupplyChainConfig holds the policy used when an organization has no settings row
type SupplyChainConfig struct {
	DefaultLeadTimeDays          int
	DefaultMOQ                   int
	DefaultSafetyStockMultiplier float64
	DefaultStockoutWarningDays   int
}

type DriveConfig struct {
	CredentialsFile string
	FolderID        string
	Port            string
	PollInterval    time.Duration
}

type PipelineConfig struct {
	Workers int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 60)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "profeta")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("DATABASE_URL", "")
		viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
		viper.SetDefault("APP_DATA_DIR", "./data/output")
		viper.SetDefault("UPLOAD_MAX_SIZE_MB", 50)
		viper.SetDefault("UPLOAD_WARNING_SIZE_MB", 10)
		viper.SetDefault("UPLOAD_WARNING_ROWS", 50000)
		viper.SetDefault("UPLOAD_DECIMAL_SEPARATOR", ",")
		viper.SetDefault("UPLOAD_VALUE_TYPE", "quantity")
		viper.SetDefault("UPLOAD_DETECTION_SAMPLE_ROWS", 5)
		viper.SetDefault("ANALYSIS_MAX_PRODUCTS", 500)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_SUPPLY_CHAIN_TTL_SECONDS", 300)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "profeta-uploads")
		viper.SetDefault("STORAGE_USE_SSL", false)
		viper.SetDefault("STORAGE_PREFIX", "uploads/")
		viper.SetDefault("FORECAST_BASE_URL", "http://localhost:8000")
		viper.SetDefault("FORECAST_TIMEOUT", "10m")
		viper.SetDefault("SUPPLY_CHAIN_LEAD_TIME_DAYS", 30)
		viper.SetDefault("SUPPLY_CHAIN_MOQ", 100)
		viper.SetDefault("SUPPLY_CHAIN_SAFETY_STOCK_MULTIPLIER", 1.5)
		viper.SetDefault("SUPPLY_CHAIN_STOCKOUT_WARNING_DAYS", 14)
		viper.SetDefault("DRIVE_CREDENTIALS_FILE", "")
		viper.SetDefault("DRIVE_FOLDER_ID", "")
		viper.SetDefault("DRIVE_PORT", "8090")
		viper.SetDefault("DRIVE_POLL_INTERVAL", "5m")
		viper.SetDefault("PIPELINE_WORKERS", 4)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure upload and data directories exist
		ensureDir(viper.GetString("APP_UPLOAD_DIR"))
		ensureDir(viper.GetString("APP_DATA_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
				LogLevel:       viper.GetString("LOG_LEVEL"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
				URL:      viper.GetString("DATABASE_URL"),
			},
			App: AppConfig{
				UploadDir:           viper.GetString("APP_UPLOAD_DIR"),
				DataDir:             viper.GetString("APP_DATA_DIR"),
				MaxUploadSizeMB:     viper.GetInt("UPLOAD_MAX_SIZE_MB"),
				WarningUploadSizeMB: viper.GetInt("UPLOAD_WARNING_SIZE_MB"),
				WarningRows:         viper.GetInt("UPLOAD_WARNING_ROWS"),
				DefaultDecimalSep:   viper.GetString("UPLOAD_DECIMAL_SEPARATOR"),
				DefaultValueType:    viper.GetString("UPLOAD_VALUE_TYPE"),
				DetectionSampleRows: viper.GetInt("UPLOAD_DETECTION_SAMPLE_ROWS"),
				ProductsPerAnalysis: viper.GetInt("ANALYSIS_MAX_PRODUCTS"),
			},
			Cache: CacheConfig{
				Enabled:               viper.GetBool("CACHE_ENABLED"),
				RedisURL:              viper.GetString("REDIS_URL"),
				RedisHost:             viper.GetString("REDIS_HOST"),
				RedisPort:             viper.GetString("REDIS_PORT"),
				RedisPassword:         viper.GetString("REDIS_PASSWORD"),
				RedisDB:               viper.GetInt("REDIS_DB"),
				SupplyChainTTLSeconds: viper.GetInt("CACHE_SUPPLY_CHAIN_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
				Prefix:    viper.GetString("STORAGE_PREFIX"),
			},
			Forecast: ForecastConfig{
				BaseURL: viper.GetString("FORECAST_BASE_URL"),
				Timeout: viper.GetDuration("FORECAST_TIMEOUT"),
			},
			SupplyChain: SupplyChainConfig{
				DefaultLeadTimeDays:          viper.GetInt("SUPPLY_CHAIN_LEAD_TIME_DAYS"),
				DefaultMOQ:                   viper.GetInt("SUPPLY_CHAIN_MOQ"),
				DefaultSafetyStockMultiplier: viper.GetFloat64("SUPPLY_CHAIN_SAFETY_STOCK_MULTIPLIER"),
				DefaultStockoutWarningDays:   viper.GetInt("SUPPLY_CHAIN_STOCKOUT_WARNING_DAYS"),
			},
			Drive: DriveConfig{
				CredentialsFile: viper.GetString("DRIVE_CREDENTIALS_FILE"),
				FolderID:        viper.GetString("DRIVE_FOLDER_ID"),
				Port:            viper.GetString("DRIVE_PORT"),
				PollInterval:    viper.GetDuration("DRIVE_POLL_INTERVAL"),
			},
			Pipeline: PipelineConfig{
				Workers: viper.GetInt("PIPELINE_WORKERS"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
