package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

type OTPConfig struct {
	Length      int    `yaml:"length"`
	EmailTTL    string `yaml:"email_ttl"`
	TransferTTL string `yaml:"transfer_ttl"`
	MaxAttempts int    `yaml:"max_attempts"`
	Grace       string `yaml:"grace"`
}

type SessionConfig struct {
	LivenessWindow     string `yaml:"liveness_window"`
	StalenessThreshold string `yaml:"staleness_threshold"`
	HeartbeatInterval  string `yaml:"heartbeat_interval"`
}

type ZoomConfig struct {
	SDKKey        string `yaml:"sdk_key"`
	SDKSecret     string `yaml:"sdk_secret"`
	MeetingNumber string `yaml:"meeting_number"`
	Password      string `yaml:"password"`
}

type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type InviteConfig struct {
	SiteURL  string `yaml:"site_url"`
	TokenTTL string `yaml:"token_ttl"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Session  SessionConfig  `yaml:"session"`
	Zoom     ZoomConfig     `yaml:"zoom"`
	SendGrid SendGridConfig `yaml:"sendgrid"`
	Invite   InviteConfig   `yaml:"invite"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port    string
	GinMode string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	AccessTTL time.Duration

	OTPLength      int
	OTPEmailTTL    time.Duration
	OTPTransferTTL time.Duration
	OTPMaxAttempts int
	OTPGrace       time.Duration

	LivenessWindow     time.Duration
	StalenessThreshold time.Duration
	HeartbeatInterval  time.Duration

	ZoomSDKKey        string
	ZoomSDKSecret     string
	ZoomMeetingNumber string
	ZoomPassword      string

	SendGridAPIKey string
	FromEmail      string
	FromName       string

	SiteURL        string
	InviteTokenTTL time.Duration

	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml and resolves every duration field. Secrets
// may be overridden from the environment so the YAML file stays committable.
func Load() (*Config, error) {
	return LoadFrom("config/config.yml")
}

func LoadFrom(path string) (*Config, error) {
	file, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accessTTL, err := time.ParseDuration(file.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	emailTTL, err := time.ParseDuration(file.OTP.EmailTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP email TTL: %w", err)
	}
	transferTTL, err := time.ParseDuration(file.OTP.TransferTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP transfer TTL: %w", err)
	}
	grace, err := time.ParseDuration(file.OTP.Grace)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP grace: %w", err)
	}
	liveness, err := time.ParseDuration(file.Session.LivenessWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid liveness window: %w", err)
	}
	staleness, err := time.ParseDuration(file.Session.StalenessThreshold)
	if err != nil {
		return nil, fmt.Errorf("invalid staleness threshold: %w", err)
	}
	heartbeat, err := time.ParseDuration(file.Session.HeartbeatInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid heartbeat interval: %w", err)
	}

	inviteTTL := time.Duration(0)
	if file.Invite.TokenTTL != "" {
		inviteTTL, err = time.ParseDuration(file.Invite.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid invite token TTL: %w", err)
		}
	}

	return &Config{
		Port:    fmt.Sprintf("%d", file.App.Port),
		GinMode: file.App.GinMode,

		DSN: env("DATABASE_DSN", file.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", file.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:       file.Redis.DB,

		JWTSecret: env("JWT_SECRET", file.JWT.Secret),
		JWTIssuer: file.JWT.Issuer,
		AccessTTL: accessTTL,

		OTPLength:      file.OTP.Length,
		OTPEmailTTL:    emailTTL,
		OTPTransferTTL: transferTTL,
		OTPMaxAttempts: file.OTP.MaxAttempts,
		OTPGrace:       grace,

		LivenessWindow:     liveness,
		StalenessThreshold: staleness,
		HeartbeatInterval:  heartbeat,

		ZoomSDKKey:        env("ZOOM_SDK_KEY", file.Zoom.SDKKey),
		ZoomSDKSecret:     env("ZOOM_SDK_SECRET", file.Zoom.SDKSecret),
		ZoomMeetingNumber: env("ZOOM_MEETING_NUMBER", file.Zoom.MeetingNumber),
		ZoomPassword:      env("ZOOM_PASSWORD", file.Zoom.Password),

		SendGridAPIKey: env("SENDGRID_API_KEY", file.SendGrid.APIKey),
		FromEmail:      file.SendGrid.FromEmail,
		FromName:       file.SendGrid.FromName,

		SiteURL:        env("SITE_URL", file.Invite.SiteURL),
		InviteTokenTTL: inviteTTL,

		CasbinModelPath: file.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
