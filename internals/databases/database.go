package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"masjidku_meetings/internals/configs"
	meetingModel "masjidku_meetings/internals/features/meetings/model"
)

var DB *gorm.DB

// DSN dari DATABASE_URL, atau dirakit dari DB_* (statement_timeout ikut dipasang).
func BuildDSN() string {
	if url := configs.GetEnv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=masjidku_meetings&options=-c statement_timeout=%s",
		configs.GetEnv("DB_USER"),
		configs.GetEnv("DB_PASSWORD"),
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "require"),
		configs.GetEnv("DB_STATEMENT_TIMEOUT_MS", "15000"),
	)
}

func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger:  configs.NewGormLogger(),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
}

func ConnectDB() {
	log.Info().Msg("🔌 Koneksi ke PostgreSQL...")
	db, err := Open(BuildDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Gagal konek DB")
	}
	DB = db
	log.Info().Msg("✅ DB connected.")
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn().Err(err).Msg("pool tune err")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate: tabel fitur meetings (+ unique index slot area/tanggal/jam).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(meetingModel.All()...)
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
