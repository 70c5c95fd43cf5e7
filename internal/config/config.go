package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Backend   Backend   `mapstructure:",squash"`
	Session   Session   `mapstructure:",squash"`
	Cache     Cache     `mapstructure:",squash"`
	Discovery Discovery `mapstructure:",squash"`
	Policy    Policy    `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"app_timezone"`
	Theme    string `mapstructure:"app_theme"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Enabled      bool   `mapstructure:"database_enabled"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
}

type Backend struct {
	BaseURL     string        `mapstructure:"backend_base_url"`
	Timeout     time.Duration `mapstructure:"backend_timeout"`
	LongTimeout time.Duration `mapstructure:"backend_long_timeout"`
}

type Session struct {
	FilePath string `mapstructure:"session_file_path"`
}

type Cache struct {
	Enabled     bool `mapstructure:"cache_enabled"`
	MaxSizeMB   int  `mapstructure:"cache_max_size_mb"`
	TTLSeconds  int  `mapstructure:"cache_ttl_seconds"`
	CounterSize int  `mapstructure:"cache_counter_size"`
}

type Discovery struct {
	CronSchedule string        `mapstructure:"discovery_sync_cron"`
	Enabled      bool          `mapstructure:"discovery_sync_enabled"`
	Timeout      time.Duration `mapstructure:"discovery_timeout"`
	// DefaultAccounts usa o formato "id|label|facebookPageId|instagramUserId|adAccountId"
	DefaultAccounts []string `mapstructure:"default_accounts"`
}

// Policy agrupa as regras de negócio numéricas que não são invariantes
type Policy struct {
	CPARequiresConversions   bool     `mapstructure:"ads_cpa_requires_conversions"`
	PreferAdLevelVideoTotals bool     `mapstructure:"ads_video_prefer_ad_level"`
	ConversionActionTypes    []string `mapstructure:"ads_conversion_action_types"`
	BreakdownTopN            int      `mapstructure:"breakdown_top_n"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("APP_THEME", "light")

	viper.SetDefault("DATABASE_ENABLED", false)
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/dashboard?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 5)

	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:4000")
	viper.SetDefault("BACKEND_TIMEOUT", "30s")
	viper.SetDefault("BACKEND_LONG_TIMEOUT", "120s")

	viper.SetDefault("SESSION_FILE_PATH", ".dashboard-session.json")

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("CACHE_MAX_SIZE_MB", 16)
	viper.SetDefault("CACHE_TTL_SECONDS", 60)
	viper.SetDefault("CACHE_COUNTER_SIZE", 10000)

	viper.SetDefault("DISCOVERY_SYNC_CRON", "*/30 * * * *") // A cada 30 minutos
	viper.SetDefault("DISCOVERY_SYNC_ENABLED", false)
	viper.SetDefault("DISCOVERY_TIMEOUT", "15s")
	viper.SetDefault("DEFAULT_ACCOUNTS", "")

	viper.SetDefault("ADS_CPA_REQUIRES_CONVERSIONS", true)
	viper.SetDefault("ADS_VIDEO_PREFER_AD_LEVEL", true)
	viper.SetDefault("ADS_CONVERSION_ACTION_TYPES", "offsite_conversion.fb_pixel_purchase,lead,onsite_conversion.messaging_conversation_started_7d")
	viper.SetDefault("BREAKDOWN_TOP_N", 6)
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.normalize()

	return config, nil
}

// normalize completa os campos derivados e corrige valores inválidos
func (c *Config) normalize() {
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")

	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = 30 * time.Second
	}

	if c.Backend.LongTimeout < c.Backend.Timeout {
		c.Backend.LongTimeout = c.Backend.Timeout
	}

	if c.Discovery.Timeout <= 0 {
		c.Discovery.Timeout = c.Backend.Timeout
	}

	if c.Policy.BreakdownTopN <= 0 {
		c.Policy.BreakdownTopN = 6
	}

	c.Server.AllowedOrigins = compact(c.Server.AllowedOrigins)
	c.Discovery.DefaultAccounts = compact(c.Discovery.DefaultAccounts)
	c.Policy.ConversionActionTypes = compact(c.Policy.ConversionActionTypes)

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)
}

// Location retorna o fuso horário configurado, com fallback para UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		logrus.Warnf("Fuso horário inválido: %s, usando UTC", c.App.Timezone)
		return time.UTC
	}
	return loc
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
