package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Build    string
		Debug    bool
		TestMode bool
		AppName  string
		WorkDir  string

		Logger struct {
			Driver string // rollbar | zap
		}
		RollbarToken string

		Server struct {
			Host            string
			Address         string
			DebugHost       string
			ShutdownTimeout time.Duration
		}

		Database struct {
			Engine        string
			Host          string
			Port          int
			Name          string
			User          string
			Password      string
			AdminUser     string
			AdminPassword string
			DisableTLS    bool
		}

		Codes struct {
			Driver   string // memory | bolt | postgres
			BoltPath string
			Timeout  time.Duration
		}

		Storage struct {
			Driver     string // local | b2
			Dir        string
			B2Account  string
			B2Key      string
			B2Bucket   string
			B2Prefix   string
			PublicBase string
		}

		Report struct {
			BaseURL    string
			Locale     string
			Workers    int
			SymbolSize int
		}

		SendgridApiKey   string
		DefaultFromEmail string
	}
)

func (c *Config) dbPort() string { return strconv.Itoa(c.Database.Port) }

// DatabaseAddress returns the database "host:port".
func (c *Config) DatabaseAddress() string {
	return net.JoinHostPort(c.Database.Host, c.dbPort())
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Correction")
	v.SetDefault("logger.driver", "rollbar")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "correction")
	v.SetDefault("database.user", "correction")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("codes.driver", "bolt")
	v.SetDefault("codes.boltPath", filepath.Join("data", "codes.db"))
	v.SetDefault("codes.timeout", 10*time.Second)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.dir", filepath.Join("data", "reports"))
	v.SetDefault("storage.b2Account", "")
	v.SetDefault("storage.b2Key", "")
	v.SetDefault("storage.b2Bucket", "")
	v.SetDefault("storage.b2Prefix", "reports")
	v.SetDefault("storage.publicBase", "")

	v.SetDefault("report.baseURL", "http://localhost:3000")
	v.SetDefault("report.locale", "fr")
	v.SetDefault("report.workers", 4)
	v.SetDefault("report.symbolSize", 256)

	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` and the environment.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:      env,
		Build:    v.GetString("build"),
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),
		AppName:  v.GetString("appName"),
		WorkDir:  wd,
	}
	conf.Logger.Driver = v.GetString("logger.driver")
	conf.RollbarToken = v.GetString("rollbarToken")

	conf.Server.Host = v.GetString("server.host")
	conf.Server.Address = v.GetString("server.address")
	conf.Server.DebugHost = v.GetString("server.debugHost")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")

	conf.Database.Engine = v.GetString("database.engine")
	conf.Database.Host = v.GetString("database.host")
	conf.Database.Port = v.GetInt("database.port")
	conf.Database.Name = v.GetString("database.name")
	conf.Database.User = v.GetString("database.user")
	conf.Database.Password = v.GetString("database.password")
	conf.Database.AdminUser = v.GetString("database.adminUser")
	conf.Database.AdminPassword = v.GetString("database.adminPassword")
	conf.Database.DisableTLS = v.GetBool("database.disableTLS")

	conf.Codes.Driver = v.GetString("codes.driver")
	conf.Codes.BoltPath = v.GetString("codes.boltPath")
	conf.Codes.Timeout = v.GetDuration("codes.timeout")

	conf.Storage.Driver = v.GetString("storage.driver")
	conf.Storage.Dir = v.GetString("storage.dir")
	conf.Storage.B2Account = v.GetString("storage.b2Account")
	conf.Storage.B2Key = v.GetString("storage.b2Key")
	conf.Storage.B2Bucket = v.GetString("storage.b2Bucket")
	conf.Storage.B2Prefix = v.GetString("storage.b2Prefix")
	conf.Storage.PublicBase = v.GetString("storage.publicBase")

	conf.Report.BaseURL = strings.TrimRight(v.GetString("report.baseURL"), "/")
	conf.Report.Locale = v.GetString("report.locale")
	conf.Report.Workers = v.GetInt("report.workers")
	conf.Report.SymbolSize = v.GetInt("report.symbolSize")

	conf.SendgridApiKey = v.GetString("sendgridApiKey")
	conf.DefaultFromEmail = v.GetString("defaultFromEmail")
	return conf
}
