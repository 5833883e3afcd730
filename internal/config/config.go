package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"launch_notifier"
	"launch_notifier/internal/logger"
	"launch_notifier/internal/models"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Defaults mirror the values the notifier has always shipped with.
const (
	DefaultAPIURL      = "https://ll.thespacedevs.com/2.2.0/launch/upcoming/"
	DefaultProvider    = "SpaceX"
	DefaultLimit       = 100
	DefaultAPITimeout  = 10 * time.Second
	DefaultSite        = "Vandenberg"
	DefaultDeviceWait  = 5 * time.Second
	DefaultOffsetHours = -7 // Arizona, no DST
	DefaultZoneLabel   = "AZ"
	defaultEnvFile     = ".env"
)

// DefaultSiteKeywords match Vandenberg pads and location names.
var DefaultSiteKeywords = []string{"vandenberg", "vsfb", "slc-4", "slc-3"}

// Config is the validated runtime configuration.
type Config struct {
	Transport models.TransportConfig
	Launch    LaunchConfig
	Zone      ZoneConfig
	LogLevel  string
}

// LaunchConfig drives the schedule API query and the site filter.
type LaunchConfig struct {
	APIURL       string
	Provider     string
	Limit        int
	Timeout      time.Duration
	Site         string
	SiteKeywords []string
}

// ZoneConfig is the fixed display offset.
type ZoneConfig struct {
	OffsetHours int
	Label       string
}

// Location returns the fixed-offset zone used for display.
func (z ZoneConfig) Location() *time.Location {
	return time.FixedZone(z.Label, z.OffsetHours*3600)
}

// Options come from command-line flags and take precedence over files and env.
type Options struct {
	ConfigFile string // explicit config file; empty searches configs/config.*
	EnvFile    string // dotenv file; empty tries ./.env
	DryRun     bool
	LogLevel   string
}

// Load reads the dotenv file, the optional config file and the environment, then validates.
// Every failure is wrapped with launch_notifier.ErrConfig.
func Load(opts Options) (Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, fmt.Errorf("%w: %w", launch_notifier.ErrConfig, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return Config{}, fmt.Errorf("%w: %w", launch_notifier.ErrConfig, err)
	}

	cfg, err := fromViper(v, opts)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", launch_notifier.ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("meshtastic.connection_type", "serial")
	v.SetDefault("meshtastic.serial_port", "")
	v.SetDefault("meshtastic.tcp_host", "")
	v.SetDefault("meshtastic.channel", 0)
	v.SetDefault("meshtastic.send_enabled", true)
	v.SetDefault("meshtastic.timeout", DefaultDeviceWait.String())

	v.SetDefault("launch.api_url", DefaultAPIURL)
	v.SetDefault("launch.provider", DefaultProvider)
	v.SetDefault("launch.limit", DefaultLimit)
	v.SetDefault("launch.timeout", DefaultAPITimeout.String())
	v.SetDefault("launch.site", DefaultSite)
	v.SetDefault("launch.site_keywords", DefaultSiteKeywords)

	v.SetDefault("timezone.offset_hours", DefaultOffsetHours)
	v.SetDefault("timezone.label", DefaultZoneLabel)

	v.SetDefault("log_level", logger.InfoLevel)
}

// loadEnvFile exports dotenv variables that are not already set.
// A missing default file is fine; a missing explicit file is not.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("env file %q: %w", path, err)
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %q: %w", path, err)
		}
		return nil
	}

	v.AddConfigPath("configs") // configs/config.yml
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func fromViper(v *viper.Viper, opts Options) (Config, error) {
	mode, err := parseMode(v.GetString("meshtastic.connection_type"))
	if err != nil {
		return Config{}, err
	}
	channel, err := intValue(v, "meshtastic.channel")
	if err != nil {
		return Config{}, err
	}
	sendEnabled, err := cast.ToBoolE(trimmed(v.Get("meshtastic.send_enabled")))
	if err != nil {
		return Config{}, fmt.Errorf("meshtastic.send_enabled: %w", err)
	}
	deviceTimeout, err := durationValue(v, "meshtastic.timeout")
	if err != nil {
		return Config{}, err
	}
	limit, err := intValue(v, "launch.limit")
	if err != nil {
		return Config{}, err
	}
	apiTimeout, err := durationValue(v, "launch.timeout")
	if err != nil {
		return Config{}, err
	}
	keywords, err := stringList(v.Get("launch.site_keywords"))
	if err != nil {
		return Config{}, fmt.Errorf("launch.site_keywords: %w", err)
	}
	offset, err := intValue(v, "timezone.offset_hours")
	if err != nil {
		return Config{}, err
	}

	level := v.GetString("log_level")
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}

	return Config{
		Transport: models.TransportConfig{
			Mode:         mode,
			SerialPort:   strings.TrimSpace(v.GetString("meshtastic.serial_port")),
			NetworkHost:  strings.TrimSpace(v.GetString("meshtastic.tcp_host")),
			ChannelIndex: channel,
			Timeout:      deviceTimeout,
			DryRun:       opts.DryRun || !sendEnabled,
		},
		Launch: LaunchConfig{
			APIURL:       strings.TrimSpace(v.GetString("launch.api_url")),
			Provider:     strings.TrimSpace(v.GetString("launch.provider")),
			Limit:        limit,
			Timeout:      apiTimeout,
			Site:         strings.TrimSpace(v.GetString("launch.site")),
			SiteKeywords: keywords,
		},
		Zone: ZoneConfig{
			OffsetHours: offset,
			Label:       strings.TrimSpace(v.GetString("timezone.label")),
		},
		LogLevel: strings.ToLower(strings.TrimSpace(level)),
	}, nil
}

// Validate checks cross-field rules. It runs before any pipeline stage.
func (c Config) Validate() error {
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	u, err := url.Parse(c.Launch.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: launch.api_url %q is not an http(s) URL", launch_notifier.ErrConfig, c.Launch.APIURL)
	}
	if c.Launch.Limit <= 0 {
		return fmt.Errorf("%w: launch.limit must be positive, got %d", launch_notifier.ErrConfig, c.Launch.Limit)
	}
	if c.Launch.Timeout <= 0 {
		return fmt.Errorf("%w: launch.timeout must be positive", launch_notifier.ErrConfig)
	}
	if c.Launch.Site == "" {
		return fmt.Errorf("%w: launch.site is empty", launch_notifier.ErrConfig)
	}
	if c.Zone.OffsetHours < -12 || c.Zone.OffsetHours > 14 {
		return fmt.Errorf("%w: timezone.offset_hours %d out of range", launch_notifier.ErrConfig, c.Zone.OffsetHours)
	}
	if c.Zone.Label == "" {
		return fmt.Errorf("%w: timezone.label is empty", launch_notifier.ErrConfig)
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: unknown log level %q", launch_notifier.ErrConfig, c.LogLevel)
	}
	return nil
}

func parseMode(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "serial":
		return models.ModeSerial, nil
	case "tcp", "network":
		return models.ModeNetwork, nil
	default:
		return "", fmt.Errorf("meshtastic.connection_type %q: want serial or tcp", s)
	}
}

// intValue reads decimal strings with strconv so "08" is 8, not a bad octal literal.
func intValue(v *viper.Viper, key string) (int, error) {
	raw := trimmed(v.Get(key))
	if s, ok := raw.(string); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a decimal integer", key, s)
		}
		return n, nil
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// durationValue accepts Go durations ("5s") or a bare number of seconds ("5", 5, 2.5).
func durationValue(v *viper.Viper, key string) (time.Duration, error) {
	raw := trimmed(v.Get(key))
	switch x := raw.(type) {
	case string:
		if secs, err := strconv.ParseFloat(x, 64); err == nil {
			return seconds(secs), nil
		}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		secs, err := cast.ToFloat64E(x)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return seconds(secs), nil
	}
	d, err := cast.ToDurationE(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// stringList accepts a YAML list or a comma separated env value.
func stringList(raw any) ([]string, error) {
	var items []string
	if s, ok := raw.(string); ok {
		items = strings.Split(s, ",")
	} else {
		list, err := cast.ToStringSliceE(raw)
		if err != nil {
			return nil, err
		}
		items = list
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.ToLower(strings.TrimSpace(it)); it != "" {
			out = append(out, it)
		}
	}
	return out, nil
}

func trimmed(raw any) any {
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return raw
}
