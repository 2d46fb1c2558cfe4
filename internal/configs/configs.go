/*
Package configs is responsible for loading and parsing the portal's configuration settings.

Settings come from environment variables: the running environment and port, the remote
events service location, session and CSRF secrets, rate limits for the sign-in forms and
the optional S3-compatible storage used for event cover uploads.
*/
package configs

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	devSessionSecret = "dev_insecure_session_secret_change_me"
	devCSRFKey       = "dev-insecure-csrf-key-32-bytes!!"
)

// AppConfig contains all configuration parameters required for the portal to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Remote Events Service
	APIBaseURL string
	APITimeout time.Duration

	// Session and Security Settings
	AllowedOrigins     []string
	SessionSecret      string
	SessionIdleTimeout time.Duration
	CSRFKey            string
	SecureCookies      bool
	LoginRate          float64
	LoginBurst         int

	// S3 Storage Settings (event covers; all or nothing)
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicURL       string
}

// IsDevelopment reports whether the portal runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// CoversEnabled reports whether cover uploads to object storage are configured.
func (c *AppConfig) CoversEnabled() bool {
	return c.S3BucketName != ""
}

// LoadConfig reads and parses the portal configuration from environment variables.
// Development gets usable defaults for every secret; any other environment must set them.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	if port < 1024 || port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", port, 1024, 65535)
	}
	cfg.Port = port

	// --- Remote Events Service ---
	cfg.APIBaseURL = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:5500/api"
	}
	if u, err := url.Parse(cfg.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API_BASE_URL %q: an absolute http(s) URL is required", cfg.APIBaseURL)
	}

	cfg.APITimeout, err = getDuration("API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	// --- Session and Security Settings ---
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("SESSION_SECRET environment variable is required in %s environment for security", cfg.Environment)
		}
		cfg.SessionSecret = devSessionSecret
	}

	cfg.SessionIdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", 12*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.CSRFKey = os.Getenv("CSRF_KEY")
	if cfg.CSRFKey == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("CSRF_KEY environment variable is required in %s environment for security", cfg.Environment)
		}
		cfg.CSRFKey = devCSRFKey
	}
	if len(cfg.CSRFKey) != 32 {
		return nil, fmt.Errorf("CSRF_KEY must be exactly 32 bytes, got %d", len(cfg.CSRFKey))
	}

	secureStr := os.Getenv("SECURE_COOKIES")
	if secureStr == "" {
		cfg.SecureCookies = !cfg.IsDevelopment()
	} else {
		secure, err := strconv.ParseBool(secureStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SECURE_COOKIES environment variable: %w", err)
		}
		cfg.SecureCookies = secure
	}

	rateStr := os.Getenv("LOGIN_RATE")
	if rateStr == "" {
		rateStr = "0.5"
	}
	cfg.LoginRate, err = strconv.ParseFloat(rateStr, 64)
	if err != nil || cfg.LoginRate <= 0 {
		return nil, fmt.Errorf("invalid LOGIN_RATE environment variable %q", rateStr)
	}

	burstStr := os.Getenv("LOGIN_BURST")
	if burstStr == "" {
		burstStr = "5"
	}
	cfg.LoginBurst, err = strconv.Atoi(burstStr)
	if err != nil || cfg.LoginBurst < 1 {
		return nil, fmt.Errorf("invalid LOGIN_BURST environment variable %q", burstStr)
	}

	// --- S3 Storage Settings ---
	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.S3SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	cfg.S3PublicURL = strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/")

	s3Values := []string{cfg.S3BucketName, cfg.S3Endpoint, cfg.S3AccessKeyID, cfg.S3SecretAccessKey, cfg.S3PublicURL}
	set := 0
	for _, v := range s3Values {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != len(s3Values) {
		return nil, fmt.Errorf("S3_BUCKET_NAME, S3_ENDPOINT, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY and S3_PUBLIC_URL must be set together")
	}

	return cfg, nil
}

// getDuration parses a Go duration from key, accepting a plain number of seconds as well.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	if parsed, err := time.ParseDuration(val); err == nil && parsed > 0 {
		return parsed, nil
	}
	if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid %s environment variable %q", key, val)
}
