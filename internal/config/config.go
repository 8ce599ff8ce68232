package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env            string `mapstructure:"env"`
		Port           string `mapstructure:"port"`
		PublicURL      string `mapstructure:"public_url"`
		FrontendOrigin string `mapstructure:"frontend_origin"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
		SessionTTL    time.Duration `mapstructure:"session_ttl"`
		GateTimeout   time.Duration `mapstructure:"gate_timeout"`
		AdminEmails   []string      `mapstructure:"admin_emails"`
	} `mapstructure:"auth"`
	Google struct {
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		RedirectURL  string `mapstructure:"redirect_url"`
	} `mapstructure:"google"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	LLM struct {
		Provider     string `mapstructure:"provider"`
		Model        string `mapstructure:"model"`
		GeminiAPIKey string `mapstructure:"gemini_api_key"`
		OllamaHost   string `mapstructure:"ollama_host"`
	} `mapstructure:"llm"`
	Cache struct {
		ProfileTTL time.Duration `mapstructure:"profile_ttl"`
	} `mapstructure:"cache"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"tracing"`
}

const DefaultGeminiModel = "gemini-2.5-flash"

// requiredKeys are the env names without which the server cannot reach its backends.
var requiredKeys = []struct {
	env   string
	value func(c *Config) string
}{
	{"DB_DSN", func(c *Config) string { return c.DB.DSN }},
	{"REDIS_ADDR", func(c *Config) string { return c.Redis.Addr }},
	{"JWT_SECRET", func(c *Config) string { return c.Auth.JWTSecret }},
	{"GOOGLE_CLIENT_ID", func(c *Config) string { return c.Google.ClientID }},
	{"GOOGLE_CLIENT_SECRET", func(c *Config) string { return c.Google.ClientSecret }},
	{"GOOGLE_REDIRECT_URL", func(c *Config) string { return c.Google.RedirectURL }},
}

// MissingKeys lists required settings that are empty. A non-empty result puts the
// server in offline mode.
func (c *Config) MissingKeys() []string {
	var missing []string
	for _, k := range requiredKeys {
		if strings.TrimSpace(k.value(c)) == "" {
			missing = append(missing, k.env)
		}
	}
	return missing
}

func (c *Config) IsConfigured() bool {
	return len(c.MissingKeys()) == 0
}

func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range c.Auth.AdminEmails {
		if strings.ToLower(strings.TrimSpace(e)) == email {
			return true
		}
	}
	return false
}

func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.public_url", "http://localhost:8080")
	v.SetDefault("app.frontend_origin", "http://localhost:3000")
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
	v.SetDefault("auth.session_ttl", 30*24*time.Hour)
	v.SetDefault("auth.gate_timeout", 5*time.Second)
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", DefaultGeminiModel)
	v.SetDefault("cache.profile_ttl", 10*time.Minute)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.public_url", "APP_PUBLIC_URL")
	v.BindEnv("app.frontend_origin", "APP_FRONTEND_ORIGIN")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("auth.session_ttl", "SESSION_TTL")
	v.BindEnv("auth.gate_timeout", "GATE_TIMEOUT")
	v.BindEnv("auth.admin_emails", "ADMIN_EMAILS")

	v.BindEnv("google.client_id", "GOOGLE_CLIENT_ID")
	v.BindEnv("google.client_secret", "GOOGLE_CLIENT_SECRET")
	v.BindEnv("google.redirect_url", "GOOGLE_REDIRECT_URL")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	v.BindEnv("llm.provider", "LLM_PROVIDER")
	v.BindEnv("llm.model", "LLM_MODEL")
	v.BindEnv("llm.gemini_api_key", "GEMINI_API_KEY")
	v.BindEnv("llm.ollama_host", "OLLAMA_HOST")

	v.BindEnv("cache.profile_ttl", "PROFILE_CACHE_TTL")
	v.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")

	err = v.Unmarshal(&cfg)
	return
}
