package config

import (
	"os"
	"testing"
	"time"
)

var allEnvVars = []string{
	"HOST", "PORT", "APP_URL", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT",
	"ENVIRONMENT", "CORS_ALLOWED_ORIGINS",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "DB_SQLITE_PATH",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME",
	"REDIS_ENABLED", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_POOL_SIZE",
	"REDIS_MIN_IDLE_CONNS", "REDIS_MAX_RETRIES", "REDIS_DIAL_TIMEOUT", "REDIS_READ_TIMEOUT", "REDIS_WRITE_TIMEOUT",
	"AUTH_TOKEN_SECRET", "BCRYPT_COST",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPM", "RATE_LIMIT_BURST", "RATE_LIMIT_CLEANUP",
	"STORAGE_DRIVER", "STORAGE_LOCAL_ROOT", "STORAGE_PUBLIC_URL", "NATS_URL", "STORAGE_NATS_BUCKET",
	"STORAGE_MAX_UPLOAD_BYTES",
}

func setEnvVars(vars map[string]string) {
	for k, v := range vars {
		os.Setenv(k, v)
	}
}

func clearEnvVars(vars []string) {
	for _, k := range vars {
		os.Unsetenv(k)
	}
}

func withEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(allEnvVars)
	setEnvVars(vars)
	t.Cleanup(func() { clearEnvVars(allEnvVars) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withEnv(t, nil)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error with default config, got: %v", err)
	}

	if config.Server.Host != "localhost" {
		t.Errorf("Expected default host 'localhost', got %s", config.Server.Host)
	}

	if config.Server.Port != "8080" {
		t.Errorf("Expected default port '8080', got %s", config.Server.Port)
	}

	if config.Server.AppURL != "http://localhost:8080" {
		t.Errorf("Expected default app URL 'http://localhost:8080', got %s", config.Server.AppURL)
	}

	if config.Server.Environment != "development" {
		t.Errorf("Expected default environment 'development', got %s", config.Server.Environment)
	}

	if len(config.Server.AllowedOrigins) != 1 || config.Server.AllowedOrigins[0] != "*" {
		t.Errorf("Expected default allowed origins [*], got %v", config.Server.AllowedOrigins)
	}

	if config.Database.Driver != "postgres" {
		t.Errorf("Expected default DB driver 'postgres', got %s", config.Database.Driver)
	}

	if config.Database.Port != "5432" {
		t.Errorf("Expected default DB port '5432', got %s", config.Database.Port)
	}

	if config.Database.Name != "task_manager" {
		t.Errorf("Expected default DB name 'task_manager', got %s", config.Database.Name)
	}

	if config.Database.MaxOpenConns != 25 {
		t.Errorf("Expected default max open conns 25, got %d", config.Database.MaxOpenConns)
	}

	if config.Redis.Enabled {
		t.Error("Expected Redis to be disabled by default")
	}

	if config.Redis.PoolSize != 10 {
		t.Errorf("Expected default Redis pool size 10, got %d", config.Redis.PoolSize)
	}

	if config.Auth.BCryptCost != 10 {
		t.Errorf("Expected default bcrypt cost 10, got %d", config.Auth.BCryptCost)
	}

	if !config.RateLimit.Enabled {
		t.Error("Expected rate limiting to be enabled by default")
	}

	if config.RateLimit.RequestsPerMin != 60 {
		t.Errorf("Expected default requests per minute 60, got %d", config.RateLimit.RequestsPerMin)
	}

	if config.Storage.Driver != "local" {
		t.Errorf("Expected default storage driver 'local', got %s", config.Storage.Driver)
	}

	if config.Storage.PublicURL != "http://localhost:8080/storage" {
		t.Errorf("Expected default public URL derived from app URL, got %s", config.Storage.PublicURL)
	}

	if config.Storage.NATSBucket != "task-images" {
		t.Errorf("Expected default NATS bucket 'task-images', got %s", config.Storage.NATSBucket)
	}
}

func TestLoadConfig_CustomEnvironment(t *testing.T) {
	withEnv(t, map[string]string{
		"HOST":                 "0.0.0.0",
		"PORT":                 "9000",
		"APP_URL":              "https://tasks.example.com/",
		"ENVIRONMENT":          "production",
		"CORS_ALLOWED_ORIGINS": "https://a.example.com, https://b.example.com",
		"DB_DRIVER":            "MySQL",
		"DB_HOST":              "db.example.com",
		"DB_PORT":              "3306",
		"DB_PASSWORD":          "secure_password",
		"DB_MAX_OPEN_CONNS":    "50",
		"REDIS_ENABLED":        "true",
		"REDIS_HOST":           "redis.example.com",
		"REDIS_DB":             "1",
		"AUTH_TOKEN_SECRET":    "super-secret-key",
		"RATE_LIMIT_ENABLED":   "false",
		"RATE_LIMIT_RPM":       "200",
		"READ_TIMEOUT":         "45s",
		"STORAGE_DRIVER":       "nats",
		"NATS_URL":             "nats://nats.example.com:4222",
	})

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error with custom config, got: %v", err)
	}

	if config.Server.AppURL != "https://tasks.example.com" {
		t.Errorf("Expected trailing slash trimmed from app URL, got %s", config.Server.AppURL)
	}

	if len(config.Server.AllowedOrigins) != 2 || config.Server.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("Expected two trimmed origins, got %v", config.Server.AllowedOrigins)
	}

	if config.Database.Driver != "mysql" {
		t.Errorf("Expected DB driver 'mysql', got %s", config.Database.Driver)
	}

	if config.Database.MaxOpenConns != 50 {
		t.Errorf("Expected max open conns 50, got %d", config.Database.MaxOpenConns)
	}

	if !config.Redis.Enabled || config.Redis.DB != 1 {
		t.Errorf("Expected Redis enabled on DB 1, got enabled=%v db=%d", config.Redis.Enabled, config.Redis.DB)
	}

	if config.Auth.TokenSecret != "super-secret-key" {
		t.Errorf("Expected token secret 'super-secret-key', got %s", config.Auth.TokenSecret)
	}

	if config.RateLimit.Enabled {
		t.Error("Expected rate limiting to be disabled")
	}

	if config.RateLimit.RequestsPerMin != 200 {
		t.Errorf("Expected requests per minute 200, got %d", config.RateLimit.RequestsPerMin)
	}

	if config.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Expected read timeout 45s, got %v", config.Server.ReadTimeout)
	}

	if config.Storage.Driver != "nats" || config.Storage.NATSURL != "nats://nats.example.com:4222" {
		t.Errorf("Expected nats storage, got %s at %s", config.Storage.Driver, config.Storage.NATSURL)
	}

	if config.Storage.PublicURL != "https://tasks.example.com/storage" {
		t.Errorf("Expected public URL under app URL, got %s", config.Storage.PublicURL)
	}
}

func TestLoadConfig_ProductionValidation(t *testing.T) {
	withEnv(t, map[string]string{
		"ENVIRONMENT":       "production",
		"AUTH_TOKEN_SECRET": "secure-token-secret",
	})

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error for missing database password in production")
	}

	if err.Error() != "database password is required in production" {
		t.Errorf("Expected specific error message, got: %v", err)
	}
}

func TestLoadConfig_ProductionTokenSecretValidation(t *testing.T) {
	withEnv(t, map[string]string{
		"ENVIRONMENT": "production",
		"DB_PASSWORD": "secure-db-password",
	})

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error for default token secret in production")
	}

	if err.Error() != "token secret must be set in production" {
		t.Errorf("Expected specific error message, got: %v", err)
	}
}

func TestLoadConfig_UnsupportedDrivers(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		errorMsg string
	}{
		{
			name:     "database driver",
			envVars:  map[string]string{"DB_DRIVER": "oracle"},
			errorMsg: `unsupported database driver "oracle"`,
		},
		{
			name:     "storage driver",
			envVars:  map[string]string{"STORAGE_DRIVER": "s3"},
			errorMsg: `unsupported storage driver "s3"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withEnv(t, tt.envVars)

			_, err := LoadConfig()
			if err == nil {
				t.Fatal("Expected error, but got none")
			}
			if err.Error() != tt.errorMsg {
				t.Errorf("Expected error '%s', got '%s'", tt.errorMsg, err.Error())
			}
		})
	}
}

func TestConfig_GetDatabaseDSN(t *testing.T) {
	tests := []struct {
		name     string
		database DatabaseConfig
		expected string
	}{
		{
			name: "postgres",
			database: DatabaseConfig{
				Driver:   "postgres",
				Host:     "localhost",
				Port:     "5432",
				User:     "testuser",
				Password: "testpass",
				Name:     "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "mysql",
			database: DatabaseConfig{
				Driver:   "mysql",
				Host:     "db",
				Port:     "3306",
				User:     "app",
				Password: "secret",
				Name:     "tasks",
			},
			expected: "app:secret@tcp(db:3306)/tasks?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name:     "sqlite",
			database: DatabaseConfig{Driver: "sqlite", SQLitePath: "/tmp/tasks.db"},
			expected: "/tmp/tasks.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Database: tt.database}

			actual := config.GetDatabaseDSN()
			if actual != tt.expected {
				t.Errorf("Expected DSN '%s', got '%s'", tt.expected, actual)
			}
		})
	}
}

func TestConfig_GetRedisAddr(t *testing.T) {
	config := &Config{
		Redis: RedisConfig{
			Host: "redis.example.com",
			Port: "6380",
		},
	}

	expected := "redis.example.com:6380"
	actual := config.GetRedisAddr()

	if actual != expected {
		t.Errorf("Expected Redis addr '%s', got '%s'", expected, actual)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		environment string
		expected    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
		{"", false},
	}

	for _, test := range tests {
		config := &Config{
			Server: ServerConfig{
				Environment: test.environment,
			},
		}

		actual := config.IsProduction()
		if actual != test.expected {
			t.Errorf("For environment '%s', expected IsProduction() = %v, got %v",
				test.environment, test.expected, actual)
		}
	}
}

func TestGetEnvAsInt(t *testing.T) {
	key := "TEST_INT_VAR"
	defaultValue := 42

	os.Unsetenv(key)
	result := getEnvAsInt(key, defaultValue)
	if result != defaultValue {
		t.Errorf("Expected default value %d, got %d", defaultValue, result)
	}

	os.Setenv(key, "100")
	defer os.Unsetenv(key)

	result = getEnvAsInt(key, defaultValue)
	if result != 100 {
		t.Errorf("Expected env value 100, got %d", result)
	}

	os.Setenv(key, "not-a-number")
	result = getEnvAsInt(key, defaultValue)
	if result != defaultValue {
		t.Errorf("Expected default value %d for invalid int, got %d", defaultValue, result)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	key := "TEST_BOOL_VAR"
	defaultValue := true

	testCases := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
		{"invalid", defaultValue},
	}

	for _, tc := range testCases {
		os.Setenv(key, tc.value)
		result := getEnvAsBool(key, defaultValue)
		if result != tc.expected {
			t.Errorf("For value '%s', expected %v, got %v", tc.value, tc.expected, result)
		}
	}

	os.Unsetenv(key)
}

func TestGetEnvAsDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"
	defaultValue := 30 * time.Second

	os.Setenv(key, "5m")
	defer os.Unsetenv(key)

	result := getEnvAsDuration(key, defaultValue)
	if result != 5*time.Minute {
		t.Errorf("Expected env value 5m, got %v", result)
	}

	os.Setenv(key, "not-a-duration")
	result = getEnvAsDuration(key, defaultValue)
	if result != defaultValue {
		t.Errorf("Expected default value %v for invalid duration, got %v", defaultValue, result)
	}
}

func TestGetEnvAsSlice(t *testing.T) {
	key := "TEST_SLICE_VAR"
	defaultValue := []string{"*"}

	os.Setenv(key, " , ")
	defer os.Unsetenv(key)

	result := getEnvAsSlice(key, defaultValue)
	if len(result) != 1 || result[0] != "*" {
		t.Errorf("Expected default for blank entries, got %v", result)
	}

	os.Setenv(key, "a,b ,,c")
	result = getEnvAsSlice(key, defaultValue)
	if len(result) != 3 || result[1] != "b" {
		t.Errorf("Expected [a b c], got %v", result)
	}
}
