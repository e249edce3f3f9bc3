package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"

	"github.com/de-tools/grid-weekly-report/pkg/logging"
	"github.com/de-tools/grid-weekly-report/pkg/publish"
	"github.com/de-tools/grid-weekly-report/pkg/store/history"
	"github.com/de-tools/grid-weekly-report/pkg/store/warehouse"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix           = "WEEKLY_REPORT"
	DefaultEnvFile      = ".env"
	DefaultTemplatePath = "assets/weekly_report_template.docx"
)

type Config struct {
	DB           warehouse.Config       `mapstructure:"db"`
	DumpFolder   string                 `mapstructure:"dump_folder"`
	TemplatePath string                 `mapstructure:"template_path"`
	HTTP         HTTPConfig             `mapstructure:"http"`
	Log          logging.Config         `mapstructure:"log"`
	Logstash     logging.LogstashConfig `mapstructure:"logstash"`
	Exports      ExportsConfig          `mapstructure:"exports"`
	S3           publish.Config         `mapstructure:"s3"`
	Schedule     ScheduleConfig         `mapstructure:"schedule"`
	History      history.Settings       `mapstructure:"history"`
}

type HTTPConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	Secret string `mapstructure:"secret"`
}

func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type ExportsConfig struct {
	XLSX bool `mapstructure:"xlsx"`
	PDF  bool `mapstructure:"pdf"`
}

type ScheduleConfig struct {
	Cron string `mapstructure:"cron"`
}

// defaults registers every key so that environment overrides are picked up
// even without a config file.
var defaults = map[string]any{
	"db.driver":        warehouse.DriverPostgres,
	"db.dsn":           "",
	"dump_folder":      "",
	"template_path":    DefaultTemplatePath,
	"http.host":        "0.0.0.0",
	"http.port":        8080,
	"http.secret":      "",
	"log.level":        "info",
	"log.format":       logging.FormatJSON,
	"log.file":         "",
	"log.max_size_mb":  100,
	"log.max_backups":  5,
	"log.max_age_days": 30,
	"logstash.host":    "",
	"logstash.port":    0,
	"exports.xlsx":     false,
	"exports.pdf":      false,
	"s3.bucket":          "",
	"s3.prefix":          "",
	"s3.region":          publish.DefaultRegion,
	"s3.profile":         "",
	"schedule.cron":    "",
	"history.path":     "",
}

// Load reads the optional config file at path, then environment variables
// prefixed with WEEKLY_REPORT_. Env files are loaded first and never override
// variables already set; missing env files are ignored.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn is required"))
	}
	if c.DB.Driver == "" {
		errs = append(errs, errors.New("db.driver is required"))
	}
	if c.DumpFolder == "" {
		errs = append(errs, errors.New("dump_folder is required"))
	}
	if c.TemplatePath == "" {
		errs = append(errs, errors.New("template_path is required"))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d is out of range", c.HTTP.Port))
	}
	if c.Logstash.Host != "" && c.Logstash.Port <= 0 {
		errs = append(errs, errors.New("logstash.port is required when logstash.host is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
