// Package config loads the service configuration from an optional YAML file
// with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"portfolio/internal/domain"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Site     SiteConfig     `yaml:"site"`
	Browser  BrowserConfig  `yaml:"browser"`
	Export   ExportConfig   `yaml:"export"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SiteConfig locates the resume page sources. BaseURL is the page the
// browser keeps open; empty means this server's own /resume.
type SiteConfig struct {
	TemplatesDir string `yaml:"templates_dir"`
	ContentFile  string `yaml:"content_file"`
	SchemaFile   string `yaml:"schema_file"`
	BaseURL      string `yaml:"base_url"`
}

type BrowserConfig struct {
	Driver       string `yaml:"driver"` // chromedp | rod
	ChromePath   string `yaml:"chrome_path"`
	Headless     bool   `yaml:"headless"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
}

type ExportConfig struct {
	TargetElementID string               `yaml:"target_element_id"`
	Filename        string               `yaml:"filename"`
	HeaderSelector  string               `yaml:"header_selector"`
	OutputDir       string               `yaml:"output_dir"`
	SettleDelay     time.Duration        `yaml:"settle_delay"`
	Options         domain.ExportOptions `yaml:"options"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text | json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "3000", ShutdownTimeout: 10 * time.Second},
		Site: SiteConfig{
			TemplatesDir: "templates",
			ContentFile:  "content/resume.json",
			SchemaFile:   "templates/resume.schema.json",
		},
		Browser: BrowserConfig{Driver: "chromedp", Headless: true, WindowWidth: 794, WindowHeight: 1123},
		Export: ExportConfig{
			TargetElementID: "resume-content",
			Filename:        "resume.pdf",
			HeaderSelector:  "header.site-header",
			OutputDir:       "resume-data/generated",
			SettleDelay:     500 * time.Millisecond,
			Options:         domain.DefaultExportOptions(),
		},
		Log: LogConfig{Level: "info", Format: "text", MaxSizeMB: 10, MaxBackups: 10, MaxAgeDays: 30, Compress: true},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Server.Port, "PORT")
	set(&c.Browser.ChromePath, "CHROME_PATH")
	set(&c.Browser.Driver, "BROWSER_DRIVER")
	set(&c.Database.URL, "EXPORTS_DATABASE_URL")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Site.BaseURL, "SITE_BASE_URL")
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	switch c.Browser.Driver {
	case "chromedp", "rod":
	default:
		errs = append(errs, fmt.Errorf("browser.driver: unknown driver %q", c.Browser.Driver))
	}
	if c.Export.TargetElementID == "" {
		errs = append(errs, errors.New("export.target_element_id is required"))
	}
	switch c.Export.Options.Mode {
	case domain.RenderModeRaster, domain.RenderModePrint:
	default:
		errs = append(errs, fmt.Errorf("export.options.mode: unknown mode %q", c.Export.Options.Mode))
	}
	if c.Export.SettleDelay < 0 {
		errs = append(errs, errors.New("export.settle_delay must not be negative"))
	}
	return errors.Join(errs...)
}

// PageURL is the URL of the live resume page.
func (c *Config) PageURL() string {
	if c.Site.BaseURL != "" {
		return c.Site.BaseURL
	}
	return "http://127.0.0.1:" + c.Server.Port + "/resume"
}
