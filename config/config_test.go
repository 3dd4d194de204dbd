package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Server:    ServerConfig{Port: 8080, Timezone: "UTC"},
		Auth:      AuthConfig{JWTSecret: "0123456789abcdef"},
		Dashboard: DashboardConfig{UpcomingLimit: 3},
		Job:       JobConfig{Enabled: true, AuditCron: "0 */6 * * *", DigestCron: "0 7 * * *"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"合法配置", func(c *Config) {}, ""},
		{"密钥为空", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt_secret 不能为空"},
		{"密钥过短", func(c *Config) { c.Auth.JWTSecret = "short" }, "不能少于 16"},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"时区无效", func(c *Config) { c.Server.Timezone = "Mars/Olympus" }, "server.timezone"},
		{"上限为 0", func(c *Config) { c.Dashboard.UpcomingLimit = 0 }, "upcoming_limit"},
		{"cron 无效", func(c *Config) { c.Job.AuditCron = "every hour" }, "job.audit_cron"},
		{"任务关闭时不校验 cron", func(c *Config) { c.Job.Enabled = false; c.Job.DigestCron = "x" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("期望通过, 实际错误: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("期望错误包含 %q, 实际: %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TALLER_AUTH_JWT_SECRET", "env-secret-0123456789")
	t.Setenv("TALLER_DASHBOARD_UPCOMING_LIMIT", "5")
	t.Setenv("TALLER_SERVER_TIMEZONE", "Europe/Madrid")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Dashboard.UpcomingLimit != 5 {
		t.Errorf("期望 UpcomingLimit=5, 实际=%d", cfg.Dashboard.UpcomingLimit)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("期望默认 AccessTokenTTL=15m, 实际=%s", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Server.Location().String() != "Europe/Madrid" {
		t.Errorf("期望时区 Europe/Madrid, 实际=%s", cfg.Server.Location())
	}
}
