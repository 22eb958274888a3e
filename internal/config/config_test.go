package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CheckInTimeout != 300*time.Second {
		t.Fatalf("unexpected check-in timeout: %s", cfg.CheckInTimeout)
	}
	if cfg.MapsPerScrim != 3 || cfg.MapHistoryDays != 14 || cfg.MinMapPoolSize != 10 {
		t.Fatalf("unexpected map settings: maps=%d history=%d pool=%d", cfg.MapsPerScrim, cfg.MapHistoryDays, cfg.MinMapPoolSize)
	}
	if cfg.DodgeBanFirst != 5*time.Minute || cfg.DodgeBanSecond != 30*time.Minute || cfg.DodgeBanThird != 2*time.Hour {
		t.Fatalf("unexpected dodge bans: %s %s %s", cfg.DodgeBanFirst, cfg.DodgeBanSecond, cfg.DodgeBanThird)
	}
	if cfg.DodgeWindow != 24*time.Hour {
		t.Fatalf("unexpected dodge window: %s", cfg.DodgeWindow)
	}
	if len(cfg.Leagues) != 3 || cfg.Leagues[0] != "Academy" || cfg.Leagues[2] != "Master" {
		t.Fatalf("unexpected leagues: %v", cfg.Leagues)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected storage driver: %s", cfg.StorageDriver)
	}
	if cfg.IdentityMode != IdentityNone {
		t.Fatalf("unexpected identity mode: %s", cfg.IdentityMode)
	}
	if cfg.QStashEnabled || cfg.RedisEnabled {
		t.Fatalf("expected event sinks disabled by default")
	}
}

func TestLoad_QueueOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("QUEUE_CHECK_IN_TIMEOUT", "90s")
	t.Setenv("DODGE_BAN_2", "45m")
	t.Setenv("LEAGUES", " Rookie , Pro ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CheckInTimeout != 90*time.Second {
		t.Fatalf("unexpected check-in timeout: %s", cfg.CheckInTimeout)
	}
	if cfg.DodgeBanSecond != 45*time.Minute {
		t.Fatalf("unexpected second dodge ban: %s", cfg.DodgeBanSecond)
	}
	if len(cfg.Leagues) != 2 || cfg.Leagues[0] != "Rookie" || cfg.Leagues[1] != "Pro" {
		t.Fatalf("unexpected leagues: %v", cfg.Leagues)
	}
}

func TestLoad_InvalidQueueValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "QUEUE_CHECK_IN_TIMEOUT", value: "0s"},
		{key: "QUEUE_MAPS_PER_SCRIM", value: "0"},
		{key: "MIN_MAP_POOL_SIZE", value: "abc"},
		{key: "DODGE_WINDOW", value: "-1h"},
		{key: "EVENT_WORKERS", value: "-2"},
		{key: "STORAGE_DRIVER", value: "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_IdentityModes(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("http requires base url", func(t *testing.T) {
		t.Setenv("IDENTITY_MODE", "http")
		t.Setenv("IDENTITY_BASE_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when IDENTITY_MODE=http without IDENTITY_BASE_URL")
		}
	})

	t.Run("sql requires db url", func(t *testing.T) {
		t.Setenv("IDENTITY_MODE", "SQL")
		t.Setenv("IDENTITY_DB_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when IDENTITY_MODE=sql without IDENTITY_DB_URL")
		}
	})

	t.Run("http with circuit settings", func(t *testing.T) {
		t.Setenv("IDENTITY_MODE", "http")
		t.Setenv("IDENTITY_BASE_URL", "https://registry.example.gg")
		t.Setenv("IDENTITY_CIRCUIT_FAILURE_COUNT", "3")
		t.Setenv("IDENTITY_CIRCUIT_OPEN_TIMEOUT", "30s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.IdentityMode != IdentityHTTP {
			t.Fatalf("unexpected identity mode: %s", cfg.IdentityMode)
		}
		if !cfg.IdentityCircuit.Enabled || cfg.IdentityCircuit.FailureCount != 3 || cfg.IdentityCircuit.OpenTimeout != 30*time.Second {
			t.Fatalf("unexpected identity circuit: %+v", cfg.IdentityCircuit)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		t.Setenv("IDENTITY_MODE", "ldap")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown IDENTITY_MODE")
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "scrim-matchmaker-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "scrim-matchmaker-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled || cfg.CacheTTL != 60*time.Second || cfg.CacheMaxEntries != 4096 {
			t.Fatalf("unexpected cache defaults: enabled=%v ttl=%s max=%d", cfg.CacheEnabled, cfg.CacheTTL, cfg.CacheMaxEntries)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_EventSinks(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("qstash requires token target and internal token", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "")
		t.Setenv("QSTASH_TARGET_BASE_URL", "")
		t.Setenv("INTERNAL_TOKEN", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when QSTASH_ENABLED=true without required env")
		}
	})

	t.Run("qstash enabled with required values", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "qstash-token")
		t.Setenv("QSTASH_TARGET_BASE_URL", "https://bot-gateway.example.gg")
		t.Setenv("INTERNAL_TOKEN", "internal-token")
		t.Setenv("QSTASH_RETRIES", "2")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.QStashEnabled || cfg.QStashRetries != 2 || cfg.QStashEventPath != "/v1/events" {
			t.Fatalf("unexpected qstash config: enabled=%v retries=%d path=%s", cfg.QStashEnabled, cfg.QStashRetries, cfg.QStashEventPath)
		}
	})

	t.Run("redis", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "false")
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REDIS_DB", "2")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.RedisEnabled || cfg.RedisDB != 2 || cfg.RedisListKey != "scrim_events" {
			t.Fatalf("unexpected redis config: %+v", cfg)
		}
	})
}
