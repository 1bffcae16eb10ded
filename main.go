package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"masjidku_meetings/internals/configs"
	database "masjidku_meetings/internals/databases"
	meetingController "masjidku_meetings/internals/features/meetings/controller"
	"masjidku_meetings/internals/features/meetings/scheduler"
	meetingService "masjidku_meetings/internals/features/meetings/service"
	helper "masjidku_meetings/internals/helpers"
	"masjidku_meetings/internals/helpers/dbtime"
	middlewares "masjidku_meetings/internals/middlewares"
	routes "masjidku_meetings/internals/route"
)

func main() {
	configs.LoadEnv()
	configs.InitLogger()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler:            helper.FiberErrorHandler,
	})

	// HTTP timeout guard (selaras dengan statement_timeout di DB)
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + migrate
	database.ConnectDB()
	database.TunePool(database.DB)
	if err := database.Migrate(database.DB); err != nil {
		log.Fatal().Err(err).Msg("❌ migrasi gagal")
	}

	cfg := configs.Engine
	loc := dbtime.LoadLocation(cfg.Timezone)
	clock := dbtime.SystemClock{Location: loc}

	series := meetingService.NewSeriesService(database.DB, cfg, nil, clock)
	query := meetingService.NewQueryService(database.DB, clock)

	// ⏱ sweep horizon setelah DB siap (HORIZON_SWEEP_CRON kosong = nonaktif)
	if cfg.SweepCron != "" {
		cr, err := scheduler.StartHorizonSweepScheduler(series, scheduler.SweepConfig{
			CronSchedule: cfg.SweepCron,
			Location:     loc,
		})
		if err != nil {
			log.Fatal().Err(err).Str("cron", cfg.SweepCron).Msg("❌ jadwal sweep tidak valid")
		}
		defer cr.Stop()
	}

	routes.SetupRoutes(app, database.DB, meetingController.NewMeetingController(series, query))

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Info().Str("port", port).Msg("✅ Listening")
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
