package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"intelliface/backend/foundation/web"
	"intelliface/backend/internal/auth"
	"intelliface/backend/internal/commands"
	"intelliface/backend/internal/pkg/config"
	"intelliface/backend/internal/pkg/repository/postgresql"
	"intelliface/backend/internal/router"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Println("main: error:", err)
		}
		os.Exit(1)
	}
}

func run() error {
	var flags struct {
		conf.Version
		ConfigPath string `conf:"default:config.yaml"`
	}
	flags.SVN = "1.0.0"
	flags.Desc = "attendance backend with face verification"

	if err := conf.Parse(os.Args[1:], "ATTENDANCE", &flags); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage("ATTENDANCE", &flags)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return commands.ErrHelp
		case conf.ErrVersionWanted:
			version, err := conf.VersionString("ATTENDANCE", &flags)
			if err != nil {
				return errors.Wrap(err, "generating config version")
			}
			fmt.Println(version)
			return commands.ErrHelp
		}
		return errors.Wrap(err, "parsing config")
	}

	cfg, err := config.NewConfig(flags.ConfigPath)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	postgresDB := postgresql.NewDB(
		cfg.DBUsername,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DisableTLS,
	)
	defer postgresDB.Close()

	commands.MigrateUP(postgresDB)

	var redisDB *redis.Client
	if cfg.RedisAddr != "" {
		redisDB = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisDB.Close()
	}

	authenticator, err := auth.New(cfg.JWTKeyPath)
	if err != nil {
		return errors.Wrap(err, "constructing authenticator")
	}

	app := web.NewApp()

	return router.NewRouter(app, postgresDB, redisDB, cfg, authenticator).Init()
}
