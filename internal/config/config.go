package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Log      LogConfig
	Forecast ForecastConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled              bool
	RedisURL             string
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int
	EvaluationTTLSeconds int
}

// StorageConfig points at the S3-compatible bucket forecast reports are exported to
type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type LogConfig struct {
	Level  string
	Format string // console or json
}

// ForecastConfig exposes every decision constant of the engine
type ForecastConfig struct {
	MovingAverageWindow int
	SmoothingAlpha      float64
	MinHistoryDays      int
	HistoryDays         int // how far back sales are loaded, 0 = everything
	BatchWorkers        int

	HighConfidence      float64
	MediumConfidence    float64
	SafetyStockHigh     float64
	SafetyStockMedium   float64
	SafetyStockLow      float64
	OverstockRiskFactor float64
	StockoutRiskFactor  float64

	OverstockTolerance       float64
	HoldingCostRate          float64
	LostSaleRecoveryRate     float64
	StockoutReductionAtRisk  int
	StockoutReductionCovered int
	DiscountElasticity       float64
	MaxDiscountPct           float64

	TrendWindow            int
	TrendThreshold         float64
	FestivalLiftThreshold  float64
	AnomalyHighFactor      float64
	AnomalyLowFactor       float64
	LowConfidenceThreshold float64
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults(viper.GetViper())

		// Read from environment variables
		viper.AutomaticEnv()

		instance = fromViper(viper.GetViper())
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "stockcast")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_EVALUATION_TTL_SECONDS", 300)
	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_BUCKET", "forecast-reports")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("FORECAST_MOVING_AVERAGE_WINDOW", 7)
	v.SetDefault("FORECAST_SMOOTHING_ALPHA", 0.3)
	v.SetDefault("FORECAST_MIN_HISTORY_DAYS", 7)
	v.SetDefault("FORECAST_HISTORY_DAYS", 0)
	v.SetDefault("FORECAST_BATCH_WORKERS", 4)
	v.SetDefault("FORECAST_HIGH_CONFIDENCE", 80)
	v.SetDefault("FORECAST_MEDIUM_CONFIDENCE", 60)
	v.SetDefault("FORECAST_SAFETY_STOCK_HIGH", 0.10)
	v.SetDefault("FORECAST_SAFETY_STOCK_MEDIUM", 0.15)
	v.SetDefault("FORECAST_SAFETY_STOCK_LOW", 0.20)
	v.SetDefault("FORECAST_OVERSTOCK_RISK_FACTOR", 1.5)
	v.SetDefault("FORECAST_STOCKOUT_RISK_FACTOR", 0.8)
	v.SetDefault("FORECAST_OVERSTOCK_TOLERANCE", 1.2)
	v.SetDefault("FORECAST_HOLDING_COST_RATE", 0.15)
	v.SetDefault("FORECAST_LOST_SALE_RECOVERY_RATE", 0.3)
	v.SetDefault("FORECAST_STOCKOUT_REDUCTION_AT_RISK", 75)
	v.SetDefault("FORECAST_STOCKOUT_REDUCTION_COVERED", 95)
	v.SetDefault("FORECAST_DISCOUNT_ELASTICITY", 0.5)
	v.SetDefault("FORECAST_MAX_DISCOUNT_PCT", 50)
	v.SetDefault("FORECAST_TREND_WINDOW", 7)
	v.SetDefault("FORECAST_TREND_THRESHOLD", 0.15)
	v.SetDefault("FORECAST_FESTIVAL_LIFT_THRESHOLD", 0.30)
	v.SetDefault("FORECAST_ANOMALY_HIGH_FACTOR", 2)
	v.SetDefault("FORECAST_ANOMALY_LOW_FACTOR", 0.3)
	v.SetDefault("FORECAST_LOW_CONFIDENCE_THRESHOLD", 70)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:              v.GetBool("CACHE_ENABLED"),
			RedisURL:             v.GetString("REDIS_URL"),
			RedisHost:            v.GetString("REDIS_HOST"),
			RedisPort:            v.GetString("REDIS_PORT"),
			RedisPassword:        v.GetString("REDIS_PASSWORD"),
			RedisDB:              v.GetInt("REDIS_DB"),
			EvaluationTTLSeconds: v.GetInt("CACHE_EVALUATION_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Forecast: ForecastConfig{
			MovingAverageWindow:      v.GetInt("FORECAST_MOVING_AVERAGE_WINDOW"),
			SmoothingAlpha:           v.GetFloat64("FORECAST_SMOOTHING_ALPHA"),
			MinHistoryDays:           v.GetInt("FORECAST_MIN_HISTORY_DAYS"),
			HistoryDays:              v.GetInt("FORECAST_HISTORY_DAYS"),
			BatchWorkers:             v.GetInt("FORECAST_BATCH_WORKERS"),
			HighConfidence:           v.GetFloat64("FORECAST_HIGH_CONFIDENCE"),
			MediumConfidence:         v.GetFloat64("FORECAST_MEDIUM_CONFIDENCE"),
			SafetyStockHigh:          v.GetFloat64("FORECAST_SAFETY_STOCK_HIGH"),
			SafetyStockMedium:        v.GetFloat64("FORECAST_SAFETY_STOCK_MEDIUM"),
			SafetyStockLow:           v.GetFloat64("FORECAST_SAFETY_STOCK_LOW"),
			OverstockRiskFactor:      v.GetFloat64("FORECAST_OVERSTOCK_RISK_FACTOR"),
			StockoutRiskFactor:       v.GetFloat64("FORECAST_STOCKOUT_RISK_FACTOR"),
			OverstockTolerance:       v.GetFloat64("FORECAST_OVERSTOCK_TOLERANCE"),
			HoldingCostRate:          v.GetFloat64("FORECAST_HOLDING_COST_RATE"),
			LostSaleRecoveryRate:     v.GetFloat64("FORECAST_LOST_SALE_RECOVERY_RATE"),
			StockoutReductionAtRisk:  v.GetInt("FORECAST_STOCKOUT_REDUCTION_AT_RISK"),
			StockoutReductionCovered: v.GetInt("FORECAST_STOCKOUT_REDUCTION_COVERED"),
			DiscountElasticity:       v.GetFloat64("FORECAST_DISCOUNT_ELASTICITY"),
			MaxDiscountPct:           v.GetFloat64("FORECAST_MAX_DISCOUNT_PCT"),
			TrendWindow:              v.GetInt("FORECAST_TREND_WINDOW"),
			TrendThreshold:           v.GetFloat64("FORECAST_TREND_THRESHOLD"),
			FestivalLiftThreshold:    v.GetFloat64("FORECAST_FESTIVAL_LIFT_THRESHOLD"),
			AnomalyHighFactor:        v.GetFloat64("FORECAST_ANOMALY_HIGH_FACTOR"),
			AnomalyLowFactor:         v.GetFloat64("FORECAST_ANOMALY_LOW_FACTOR"),
			LowConfidenceThreshold:   v.GetFloat64("FORECAST_LOW_CONFIDENCE_THRESHOLD"),
		},
	}
}
