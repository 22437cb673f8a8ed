package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type AttendanceConfig struct {
	ShiftMode     model.ShiftMode
	Timezone      string
	EditorRoles   []string
	MaxWeekOffset int
	Location      *time.Location
}

type Config struct {
	Environment string
	LogLevel    string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Attendance  AttendanceConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Host:        v.GetString("HTTP_HOST"),
			Port:        v.GetInt("HTTP_PORT"),
			CORSOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Attendance: AttendanceConfig{
			ShiftMode:     model.ShiftMode(strings.ToLower(strings.TrimSpace(v.GetString("ATTENDANCE_SHIFT_MODE")))),
			Timezone:      strings.TrimSpace(v.GetString("ATTENDANCE_TIMEZONE")),
			EditorRoles:   parseList(v.GetString("ATTENDANCE_EDITOR_ROLES")),
			MaxWeekOffset: v.GetInt("ATTENDANCE_MAX_WEEK_OFFSET"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.CORSOrigins) == 0 {
		cfg.HTTP.CORSOrigins = []string{"*"}
	}
	if cfg.Attendance.ShiftMode == "" {
		cfg.Attendance.ShiftMode = model.ShiftModeSplit
	}
	if cfg.Attendance.Timezone == "" {
		cfg.Attendance.Timezone = "UTC"
	}
	if len(cfg.Attendance.EditorRoles) == 0 {
		cfg.Attendance.EditorRoles = []string{string(model.UserRoleAdmin), string(model.UserRoleManager)}
	}
	if cfg.Attendance.MaxWeekOffset == 0 {
		cfg.Attendance.MaxWeekOffset = 104
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ATTENDANCE_TIMEZONE %q: %w", cfg.Attendance.Timezone, err)
	}
	cfg.Attendance.Location = loc
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if len(cfg.Attendance.ShiftMode.Shifts()) == 0 {
		return fmt.Errorf("ATTENDANCE_SHIFT_MODE must be %q or %q", model.ShiftModeSplit, model.ShiftModeDaily)
	}
	if cfg.Attendance.MaxWeekOffset < 0 {
		return fmt.Errorf("ATTENDANCE_MAX_WEEK_OFFSET must not be negative")
	}
	return nil
}

// ConnLifetime parses DB_CONN_MAX_LIFETIME, returning zero when unset or invalid.
func (c DBConfig) ConnLifetime() time.Duration {
	if c.ConnMaxLifetime == "" {
		return 0
	}
	d, err := time.ParseDuration(c.ConnMaxLifetime)
	if err != nil {
		return 0
	}
	return d
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
