package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	appDir     = "coverscreen"
	envPrefix  = "COVERSCREEN"

	SourceKindDir    = "dir"
	SourceKindAPI    = "api"
	SourceKindStatic = "static"

	KeySourceKind           = "source.kind"
	KeySourceDir            = "source.dir"
	KeySourceAPIURL         = "source.api_url"
	KeySourceStaticFile     = "source.static_file"
	KeySourceHTTPTimeout    = "source.http_timeout"
	KeyTransportHost        = "transport.host"
	KeyTransportAckTimeout  = "transport.ack_timeout"
	KeyTransportDialTimeout = "transport.dial_timeout"
	KeyTransportRetries     = "transport.dial_retries"
	KeyMediaFFmpeg          = "media.ffmpeg"
	KeyMediaFFprobe         = "media.ffprobe"
	KeyMediaFetchTimeout    = "media.fetch_timeout"
	KeyLogLevel             = "log.level"
	KeyLogFormat            = "log.format"
)

type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	Transport TransportConfig `mapstructure:"transport"`
	Media     MediaConfig     `mapstructure:"media"`
	Log       LogConfig       `mapstructure:"log"`
}

type SourceConfig struct {
	Kind        string        `mapstructure:"kind"`
	Dir         string        `mapstructure:"dir"`
	APIURL      string        `mapstructure:"api_url"`
	StaticFile  string        `mapstructure:"static_file"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

type TransportConfig struct {
	Host        string        `mapstructure:"host"`
	AckTimeout  time.Duration `mapstructure:"ack_timeout"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	DialRetries int           `mapstructure:"dial_retries"`
}

// MediaConfig locates the external decoders used for video and bounds URL fetches.
type MediaConfig struct {
	FFmpeg       string        `mapstructure:"ffmpeg"`
	FFprobe      string        `mapstructure:"ffprobe"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance carrying every default and the COVERSCREEN_ env
// overrides. Flags are bound on top of it by the CLI before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeySourceKind, SourceKindDir)
	v.SetDefault(KeySourceDir, "/tmp/cover_screen")
	v.SetDefault(KeySourceAPIURL, "http://127.0.0.1:12580")
	v.SetDefault(KeySourceStaticFile, "")
	v.SetDefault(KeySourceHTTPTimeout, 10*time.Second)
	v.SetDefault(KeyTransportHost, "127.0.0.1")
	v.SetDefault(KeyTransportAckTimeout, 2*time.Second)
	v.SetDefault(KeyTransportDialTimeout, time.Second)
	v.SetDefault(KeyTransportRetries, 3)
	v.SetDefault(KeyMediaFFmpeg, "ffmpeg")
	v.SetDefault(KeyMediaFFprobe, "ffprobe")
	v.SetDefault(KeyMediaFetchTimeout, 30*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file into v and decodes the merged settings. An explicit
// path must exist; the default search locations may be empty.
func Load(v *viper.Viper, path string) (Config, error) {
	v.SetConfigType(configType)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceKindDir, SourceKindAPI:
	case SourceKindStatic:
		if strings.TrimSpace(c.Source.StaticFile) == "" {
			return errors.New("source.static_file is required for the static source")
		}
	default:
		return fmt.Errorf("unsupported source kind %q", c.Source.Kind)
	}
	if c.Transport.AckTimeout <= 0 {
		return fmt.Errorf("transport.ack_timeout must be positive, got %s", c.Transport.AckTimeout)
	}
	if c.Transport.DialTimeout <= 0 {
		return fmt.Errorf("transport.dial_timeout must be positive, got %s", c.Transport.DialTimeout)
	}
	if c.Transport.DialRetries < 0 {
		return fmt.Errorf("transport.dial_retries must not be negative, got %d", c.Transport.DialRetries)
	}
	if c.Media.FetchTimeout <= 0 {
		return fmt.Errorf("media.fetch_timeout must be positive, got %s", c.Media.FetchTimeout)
	}
	return nil
}

func searchDirs() []string {
	dirs := make([]string, 0, 2)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, appDir))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", appDir))
	}
	return dirs
}
