package config

import (
	"strings"
	"testing"
)

func baseConfig() Config {
	return Config{
		App:  AppConfig{Env: "local", Port: 8080},
		DB:   DBConfig{Driver: DriverMySQL, Host: "localhost", Port: 3306, User: "asterisk", Password: "x", Name: "asteriskcdrdb"},
		Auth: AuthConfig{JWTSecret: "secret"},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_DefaultsDriverAndTable(t *testing.T) {
	c := baseConfig()
	c.DB.Driver = ""
	c.CDR.Table = ""
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.Driver != DriverMySQL {
		t.Fatalf("expected mysql driver default, got %q", c.DB.Driver)
	}
	if c.CDR.Table != "cdr" {
		t.Fatalf("expected cdr table default, got %q", c.CDR.Table)
	}
}

func TestValidate_RejectsUnknownDriver(t *testing.T) {
	c := baseConfig()
	c.DB.Driver = "oracle"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestValidate_PgxProductionRequiresSSLMode(t *testing.T) {
	c := baseConfig()
	c.App.Env = "production"
	c.DB.Driver = DriverPgx
	c.Auth.JWTIssuer = "cdr-api"
	c.Auth.JWTAudience = "cdr-ui"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production pgx without DB_SSLMODE")
	}
}

func TestValidate_PgxLocalDefaultsSSLMode(t *testing.T) {
	c := baseConfig()
	c.DB.Driver = DriverPgx
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

func TestValidate_RedisOptional(t *testing.T) {
	c := baseConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("redis must be optional, got %v", err)
	}
	if c.RedisAddr() != "" {
		t.Fatalf("expected empty redis addr, got %q", c.RedisAddr())
	}

	c.Redis.Host = "localhost"
	if err := c.Validate(); err == nil {
		t.Fatalf("redis host without port must fail")
	}
	c.Redis.Port = 6379
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.RedisAddr() != "localhost:6379" {
		t.Fatalf("redis addr = %q", c.RedisAddr())
	}
}

func TestDSNPerDriver(t *testing.T) {
	c := baseConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.HasPrefix(c.DSN(), "asterisk:x@tcp(localhost:3306)/asteriskcdrdb?") {
		t.Errorf("mysql dsn = %q", c.DSN())
	}
	if !strings.Contains(c.DSN(), "parseTime=true") {
		t.Errorf("mysql dsn must enable parseTime: %q", c.DSN())
	}

	c.DB.Driver = DriverPgx
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(c.DSN(), "dbname=asteriskcdrdb") || !strings.Contains(c.DSN(), "sslmode=disable") {
		t.Errorf("pgx dsn = %q", c.DSN())
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" gw1, gw2 ,,gw3 ")
	if len(got) != 3 || got[0] != "gw1" || got[2] != "gw3" {
		t.Fatalf("splitList = %v", got)
	}
	if splitList("") != nil {
		t.Fatalf("empty input must yield nil")
	}
}
