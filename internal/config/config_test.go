package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

func baseViper() *viper.Viper {
	v := viper.New()
	v.Set("DB_DSN", "postgres://fleet@localhost/fleet")
	v.Set("JWT_ACCESS_SECRET", "secret")
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(baseViper())
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.HTTP.Port != 7090 {
		t.Errorf("Port = %d", cfg.HTTP.Port)
	}
	if cfg.Attendance.ShiftMode != model.ShiftModeSplit {
		t.Errorf("ShiftMode = %q", cfg.Attendance.ShiftMode)
	}
	if cfg.Attendance.Location != time.UTC {
		t.Errorf("Location = %v", cfg.Attendance.Location)
	}
	if len(cfg.Attendance.EditorRoles) != 2 {
		t.Errorf("EditorRoles = %v", cfg.Attendance.EditorRoles)
	}
}

func TestFromViper_Overrides(t *testing.T) {
	v := baseViper()
	v.Set("ATTENDANCE_SHIFT_MODE", " Daily ")
	v.Set("ATTENDANCE_EDITOR_ROLES", "admin, hr ,")
	v.Set("DB_CONN_MAX_LIFETIME", "30m")

	cfg, err := fromViper(v)
	if err != nil {
		t.Fatalf("fromViper: %v", err)
	}
	if cfg.Attendance.ShiftMode != model.ShiftModeDaily {
		t.Errorf("ShiftMode = %q", cfg.Attendance.ShiftMode)
	}
	if got := cfg.Attendance.EditorRoles; len(got) != 2 || got[0] != "admin" || got[1] != "hr" {
		t.Errorf("EditorRoles = %v", got)
	}
	if cfg.DB.ConnLifetime() != 30*time.Minute {
		t.Errorf("ConnLifetime = %s", cfg.DB.ConnLifetime())
	}
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]string
	}{
		{"missing dsn", map[string]string{"DB_DSN": ""}},
		{"missing secret", map[string]string{"JWT_ACCESS_SECRET": ""}},
		{"unknown shift mode", map[string]string{"ATTENDANCE_SHIFT_MODE": "triple"}},
		{"unknown timezone", map[string]string{"ATTENDANCE_TIMEZONE": "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := baseViper()
			for key, value := range tt.set {
				v.Set(key, value)
			}
			if _, err := fromViper(v); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}
