package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string
		WorkDir      string

		Server    ServerConfig
		Session   SessionConfig
		Canvas    CanvasConfig
		Generator GeneratorConfig
	}

	ServerConfig struct {
		Addr            string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		AllowOrigins    []string
		DisableReqLogs  bool
	}

	SessionConfig struct {
		TTL time.Duration // 0: sessions live until logout
	}

	CanvasConfig struct {
		Timeout time.Duration
		PerPage int
	}

	GeneratorConfig struct {
		Provider   string // gemini | openai | anthropic
		APIKey     string
		BaseURL    string
		Model      string
		Timeout    time.Duration
		MaxHistory int
	}
)

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "StudyPlanner")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", "localhost:5001")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.allowOrigins", []string{"*"})
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("session.ttl", time.Duration(0))
	v.SetDefault("canvas.timeout", 30*time.Second)
	v.SetDefault("canvas.perPage", 100)
	v.SetDefault("generator.provider", "gemini")
	v.SetDefault("generator.apiKey", "")
	v.SetDefault("generator.baseURL", "")
	v.SetDefault("generator.model", "")
	v.SetDefault("generator.timeout", 2*time.Minute)
	v.SetDefault("generator.maxHistory", 40)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		RollbarToken: v.GetString("rollbarToken"),
		WorkDir:      workDir,
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			AllowOrigins:    v.GetStringSlice("server.allowOrigins"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("session.ttl"),
		},
		Canvas: CanvasConfig{
			Timeout: v.GetDuration("canvas.timeout"),
			PerPage: v.GetInt("canvas.perPage"),
		},
		Generator: GeneratorConfig{
			Provider:   strings.ToLower(v.GetString("generator.provider")),
			APIKey:     v.GetString("generator.apiKey"),
			BaseURL:    v.GetString("generator.baseURL"),
			Model:      v.GetString("generator.model"),
			Timeout:    v.GetDuration("generator.timeout"),
			MaxHistory: v.GetInt("generator.maxHistory"),
		},
	}
}
