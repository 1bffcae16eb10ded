package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	JWTSecret string
	Engine    EngineConfig
)

// HorizonPolicy menentukan cara memproyeksikan rapat saat seri lama tidak aktif.
type HorizonPolicy string

const (
	// PolicyResume: base = max(tanggal terakhir, hari ini).
	PolicyResume HorizonPolicy = "resume"
	// PolicyAlign: maju per minggu dari tanggal terakhir sampai >= hari ini (hari tetap sama).
	PolicyAlign HorizonPolicy = "align"
	// PolicyBackfill: isi semua minggu yang terlewat, lalu lanjut ke depan.
	PolicyBackfill HorizonPolicy = "backfill"
)

func ParseHorizonPolicy(s string) (HorizonPolicy, bool) {
	switch HorizonPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyResume:
		return PolicyResume, true
	case PolicyAlign:
		return PolicyAlign, true
	case PolicyBackfill:
		return PolicyBackfill, true
	}
	return PolicyResume, false
}

type EngineConfig struct {
	MinFuture   int
	Policy      HorizonPolicy
	LockTimeout time.Duration
	Timezone    string
	SweepCron   string
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MinFuture:   2,
		Policy:      PolicyResume,
		LockTimeout: 5 * time.Second,
		Timezone:    "Asia/Jakarta",
		SweepCron:   "5 0 * * *",
	}
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg("Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Info().Msg(".env file berhasil dimuat")
		}
	} else {
		log.Info().Msg("Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Error().Msg("JWT_SECRET belum diset!")
	}

	Engine = LoadEngineConfig()
}

// LoadEngineConfig baca HORIZON_* / LOCK_TIMEOUT / APP_TIMEZONE.
// Nilai invalid → default + warning.
func LoadEngineConfig() EngineConfig {
	cfg := DefaultEngineConfig()

	if v := GetEnv("HORIZON_MIN_FUTURE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MinFuture = n
		} else {
			log.Warn().Str("value", v).Msg("HORIZON_MIN_FUTURE invalid, pakai default")
		}
	}
	if v := GetEnv("HORIZON_POLICY"); v != "" {
		p, ok := ParseHorizonPolicy(v)
		if !ok {
			log.Warn().Str("value", v).Msg("HORIZON_POLICY invalid, pakai resume")
		}
		cfg.Policy = p
	}
	if v := GetEnv("LOCK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.LockTimeout = d
		} else {
			log.Warn().Str("value", v).Msg("LOCK_TIMEOUT invalid, pakai default")
		}
	}
	if v := GetEnv("APP_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v, ok := os.LookupEnv("HORIZON_SWEEP_CRON"); ok {
		cfg.SweepCron = strings.TrimSpace(v)
	}
	return cfg
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
