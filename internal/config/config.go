package config

import (
	"flag"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		setDefaults()

		root, err := getProjectRoot()
		if err != nil {
			// No project root means no config file; defaults still apply.
			return
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Debugw("No config file found, using defaults", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Debugw("No test config file found", "error", err)
			}
		}
	})
}

func setDefaults() {
	viper.SetDefault("geo.api_url", "https://api.zippopotam.us/us")
	viper.SetDefault("nws.api_url", "https://api.weather.gov")
	viper.SetDefault("http.timeout", "5s")
	viper.SetDefault("http.max_retries", 5)
	viper.SetDefault("http.backoff_factor", 0.3)
	viper.SetDefault("http.rate_limit_rps", 4)
	viper.SetDefault("cache.backend", "file")
	viper.SetDefault("cache.file_path", ".zip_cache")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("narration.api_url", "https://api.openai.com/v1")
	viper.SetDefault("narration.model", "gpt-4o-mini")
	viper.SetDefault("narration.tts_model", "tts-1")
	viper.SetDefault("narration.voice", "onyx")
	viper.SetDefault("narration.prompt", defaultNarrationPrompt)
}

// defaultNarrationPrompt is the persona used to turn a rendered forecast into a
// short spoken script. Override via narration.prompt in config.yaml.
const defaultNarrationPrompt = "You are a friendly local radio weather announcer. " +
	"Rewrite the following weather forecast as a short spoken script of at most " +
	"four sentences. Keep temperatures and conditions accurate. Do not use " +
	"emoji, markdown, or headings."

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func GetGeoAPIBaseURL() string {
	initConfig()
	return viper.GetString("geo.api_url")
}

func GetNWSAPIBaseURL() string {
	initConfig()
	return viper.GetString("nws.api_url")
}

// GetHTTPTimeout returns the per-request timeout for upstream API calls.
// Defaults to 5s if not set or invalid.
func GetHTTPTimeout() time.Duration {
	initConfig()
	dur, err := time.ParseDuration(viper.GetString("http.timeout"))
	if err != nil {
		return 5 * time.Second
	}
	return dur
}

func GetMaxRetries() int {
	initConfig()
	return viper.GetInt("http.max_retries")
}

func GetBackoffFactor() float64 {
	initConfig()
	return viper.GetFloat64("http.backoff_factor")
}

// GetRateLimitRPS returns the outbound request rate limit in requests per second.
func GetRateLimitRPS() float64 {
	initConfig()
	return viper.GetFloat64("http.rate_limit_rps")
}

func GetCacheBackend() string {
	initConfig()
	return viper.GetString("cache.backend")
}

func GetCacheFilePath() string {
	initConfig()
	return viper.GetString("cache.file_path")
}

func GetRedisAddr() string {
	initConfig()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return viper.GetString("redis.addr")
}

func GetNarrationBaseURL() string {
	initConfig()
	return viper.GetString("narration.api_url")
}

func GetNarrationAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("NARRATION_API_KEY")
}

func GetNarrationModel() string {
	initConfig()
	return viper.GetString("narration.model")
}

func GetNarrationTTSModel() string {
	initConfig()
	return viper.GetString("narration.tts_model")
}

func GetNarrationVoice() string {
	initConfig()
	return viper.GetString("narration.voice")
}

func GetNarrationPrompt() string {
	initConfig()
	return viper.GetString("narration.prompt")
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		// stdout carries the rendered forecast; diagnostics go to stderr.
		cfg.OutputPaths = []string{"stderr"}
		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}
