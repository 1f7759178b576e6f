package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	WorkDir  string

	DataFile     string // workbook (.xlsx)
	SettingsFile string // settings (.json)
	ErrorLogFile string

	IOAttempts    int // load/save attempts, no backoff
	WatchInterval time.Duration
	APIAddress    string

	LogLevel     string
	RollbarToken string
	Build        string
}

// NewConfig reads the configuration for the current ENV (DEV by default).
// Relative file paths are resolved against workDir.
func NewConfig(workDir string) (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", false)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "SchoolDesk")
	v.SetDefault("dataFile", "school_data.xlsx")
	v.SetDefault("settingsFile", "settings.json")
	v.SetDefault("errorLogFile", "error_log.txt")
	v.SetDefault("ioAttempts", 3)
	v.SetDefault("watchInterval", 2*time.Second)
	v.SetDefault("apiAddress", "127.0.0.1:8000")
	v.SetDefault("logLevel", "info")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("build", "dev")

	env := strings.ToUpper(strings.TrimSpace(os.Getenv("ENV"))) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
		v.SetDefault("debug", true)
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:           env,
		Debug:         v.GetBool("debug"),
		TestMode:      v.GetBool("testMode"),
		AppName:       v.GetString("appName"),
		WorkDir:       workDir,
		DataFile:      resolvePath(workDir, v.GetString("dataFile")),
		SettingsFile:  resolvePath(workDir, v.GetString("settingsFile")),
		ErrorLogFile:  resolvePath(workDir, v.GetString("errorLogFile")),
		IOAttempts:    v.GetInt("ioAttempts"),
		WatchInterval: v.GetDuration("watchInterval"),
		APIAddress:    v.GetString("apiAddress"),
		LogLevel:      CleanString(v.GetString("logLevel"), true /* lower */),
		RollbarToken:  v.GetString("rollbarToken"),
		Build:         v.GetString("build"),
	}
	if conf.IOAttempts < 1 {
		conf.IOAttempts = 1
	}
	if conf.WatchInterval < time.Second {
		conf.WatchInterval = time.Second
	}
	return conf, nil
}

func resolvePath(workDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
