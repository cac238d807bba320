package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		AppEnv:        EnvDevelopment,
		RootDir:       ".",
		UploadDir:     "uploads/documents",
		DBDriver:      "sqlite",
		StorageDriver: StorageLocal,
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("UPLOAD_DIR", "files/docs")
	t.Setenv("GENERATE_RATE_LIMIT", "5")
	t.Setenv("GENERATE_RATE_WINDOW", "nonsense")

	cfg := FromEnv()
	if !cfg.IsProduction() {
		t.Errorf("AppEnv = %q, want production", cfg.AppEnv)
	}
	if cfg.UploadDir != "files/docs" {
		t.Errorf("UploadDir = %q", cfg.UploadDir)
	}
	if cfg.GenerateRateLimit != 5 {
		t.Errorf("GenerateRateLimit = %d, want 5", cfg.GenerateRateLimit)
	}
	if cfg.GenerateRateWindow != time.Minute {
		t.Errorf("GenerateRateWindow = %v, want default 1m", cfg.GenerateRateWindow)
	}
	if cfg.StorageDriver != StorageLocal {
		t.Errorf("StorageDriver = %q, want %q", cfg.StorageDriver, StorageLocal)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   []string
	}{
		{"valid", func(*Config) {}, nil},
		{"missing env", func(c *Config) { c.AppEnv = "" }, []string{"APP_ENV is required"}},
		{"unknown env", func(c *Config) { c.AppEnv = "staging" }, []string{`got "staging"`}},
		{"production without email", func(c *Config) { c.AppEnv = EnvProduction }, []string{"RESEND_API_KEY"}},
		{"s3 without bucket", func(c *Config) { c.StorageDriver = StorageS3 }, []string{"S3_REGION", "S3_BUCKET"}},
		{"upload dir escapes", func(c *Config) { c.UploadDir = "../elsewhere" }, []string{"UPLOAD_DIR"}},
		{"upload dir is root", func(c *Config) { c.UploadDir = "." }, []string{"UPLOAD_DIR"}},
		{"bad driver", func(c *Config) { c.DBDriver = "mysql" }, []string{"DB_DRIVER"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if len(tt.want) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("Validate() = %q, want it to mention %q", err, w)
				}
			}
		})
	}
}

func TestSanitized(t *testing.T) {
	cfg := validConfig()
	cfg.DBConnection = "postgres://secret"
	cfg.S3SecretKey = "secret"
	cfg.ResendAPIKey = "secret"

	got := cfg.Sanitized()
	if got.DBConnection != "" || got.S3SecretKey != "" || got.ResendAPIKey != "" {
		t.Errorf("Sanitized() kept secrets: %+v", got)
	}
	if got.UploadDir != cfg.UploadDir {
		t.Errorf("UploadDir = %q, want %q", got.UploadDir, cfg.UploadDir)
	}
}
