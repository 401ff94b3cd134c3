package config

import (
	"fmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var GistsearchVersion = "0.1.0"

var C *config

// ConsoleOutput is where the "stdout" log output writes.
var ConsoleOutput io.Writer = os.Stdout

// Not using nested structs because the library
// doesn't support dot notation in this case sadly
type config struct {
	LogLevel       string `yaml:"log-level" env:"GS_LOG_LEVEL"`
	LogOutput      string `yaml:"log-output" env:"GS_LOG_OUTPUT"`
	GistsearchHome string `yaml:"gistsearch-home" env:"GS_GISTSEARCH_HOME"`

	HttpHost string `yaml:"http.host" env:"GS_HTTP_HOST"`
	HttpPort string `yaml:"http.port" env:"GS_HTTP_PORT"`

	GithubApiUrl    string        `yaml:"github.api-url" env:"GS_GITHUB_API_URL"`
	GithubWebUrl    string        `yaml:"github.web-url" env:"GS_GITHUB_WEB_URL"`
	GithubPageSize  int           `yaml:"github.page-size" env:"GS_GITHUB_PAGE_SIZE"`
	GithubTimeout   time.Duration `yaml:"github.timeout" env:"GS_GITHUB_TIMEOUT"`
	GithubUserAgent string        `yaml:"github.user-agent" env:"GS_GITHUB_USER_AGENT"`

	SearchConcurrency int `yaml:"search.concurrency" env:"GS_SEARCH_CONCURRENCY"`

	MetricsEnabled bool `yaml:"metrics.enabled" env:"GS_METRICS_ENABLED"`
}

func configWithDefaults() (*config, error) {
	c := &config{}

	c.LogLevel = "warn"
	c.LogOutput = "stdout"

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return c, err
	}
	c.GistsearchHome = filepath.Join(homeDir, ".gistsearch")

	c.HttpHost = "0.0.0.0"
	c.HttpPort = "9876"

	c.GithubApiUrl = "https://api.github.com"
	c.GithubWebUrl = "https://gist.github.com"
	c.GithubPageSize = 10
	c.GithubTimeout = 10 * time.Second
	c.GithubUserAgent = "gistsearch/" + GistsearchVersion

	c.SearchConcurrency = 1

	c.MetricsEnabled = false

	return c, nil
}

func InitConfig(configPath string, out io.Writer) error {
	// Default values
	c, err := configWithDefaults()
	if err != nil {
		return err
	}

	if err = loadConfigFromYaml(c, configPath, out); err != nil {
		return err
	}

	if err = loadConfigFromEnv(c, out); err != nil {
		return err
	}

	if c.GithubPageSize <= 0 {
		return fmt.Errorf("github.page-size must be positive, got %d", c.GithubPageSize)
	}
	if c.SearchConcurrency <= 0 {
		c.SearchConcurrency = 1
	}

	C = c

	return nil
}

func InitLog() {
	var logWriters []io.Writer
	for _, output := range strings.Split(C.LogOutput, ",") {
		switch strings.TrimSpace(output) {
		case "stdout":
			logWriters = append(logWriters, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = ConsoleOutput }))
		case "file":
			if err := os.MkdirAll(filepath.Join(GetHomeDir(), "log"), 0755); err != nil {
				panic(err)
			}
			file, err := os.OpenFile(filepath.Join(GetHomeDir(), "log", "gistsearch.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				panic(err)
			}
			logWriters = append(logWriters, file)
		}
	}
	if len(logWriters) == 0 {
		logWriters = append(logWriters, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = ConsoleOutput }))
	}

	level, err := zerolog.ParseLevel(C.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	multi := zerolog.MultiLevelWriter(logWriters...)
	log.Logger = zerolog.New(multi).Level(level).With().Timestamp().Logger()
}

func GetHomeDir() string {
	absolutePath, _ := filepath.Abs(C.GistsearchHome)
	return filepath.Clean(absolutePath)
}

func loadConfigFromYaml(c *config, configPath string, out io.Writer) error {
	if configPath != "" {
		file, err := os.Open(configPath)
		if err != nil {
			return fmt.Errorf("cannot open config file: %w", err)
		}
		defer file.Close()

		absolutePath, _ := filepath.Abs(configPath)
		_, _ = fmt.Fprintln(out, "Using config file: "+absolutePath)

		// Override default values with values from config.yml
		d := yaml.NewDecoder(file)
		if err = d.Decode(&c); err != nil && err != io.EOF {
			return err
		}
	}

	// Override default values with environment variables (as yaml)
	configEnv := os.Getenv("CONFIG")
	if configEnv != "" {
		_, _ = fmt.Fprintln(out, "Using config from environment variable: CONFIG")
		d := yaml.NewDecoder(strings.NewReader(configEnv))
		if err := d.Decode(&c); err != nil {
			return err
		}
	}

	return nil
}

func loadConfigFromEnv(c *config, out io.Writer) error {
	v := reflect.ValueOf(c).Elem()
	var envVars []string

	for i := 0; i < v.NumField(); i++ {
		tag := v.Type().Field(i).Tag.Get("env")
		if tag == "" {
			continue
		}

		envValue, ok := os.LookupEnv(tag)
		if !ok {
			continue
		}

		field := v.Field(i)
		switch {
		case field.Type() == reflect.TypeOf(time.Duration(0)):
			d, err := time.ParseDuration(envValue)
			if err != nil {
				return fmt.Errorf("invalid duration for %s: %w", tag, err)
			}
			field.SetInt(int64(d))
		case field.Kind() == reflect.String:
			field.SetString(envValue)
		case field.Kind() == reflect.Int:
			intVal, err := strconv.Atoi(envValue)
			if err != nil {
				return fmt.Errorf("invalid integer for %s: %w", tag, err)
			}
			field.SetInt(int64(intVal))
		case field.Kind() == reflect.Bool:
			boolVal, err := strconv.ParseBool(envValue)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %w", tag, err)
			}
			field.SetBool(boolVal)
		default:
			return fmt.Errorf("unsupported type for %s: %s", tag, field.Kind())
		}

		envVars = append(envVars, tag)
	}

	if len(envVars) > 0 {
		_, _ = fmt.Fprintln(out, "Using environment variables config: "+strings.Join(envVars, ", "))
	}

	return nil
}
