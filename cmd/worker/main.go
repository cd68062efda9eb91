package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GoSim-25-26J-441/photogrid-backend/config"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/logging"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/repository"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/service"
	"github.com/sirupsen/logrus"
)

const usage = `usage: worker <command> [args]

commands:
  export [file]   write the collection as JSON to file (default stdout)
  import <file>   add every named record of a JSON array file
  backup          write one backup to the configured sink
  clear           remove every template`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "photogrid-worker").WithError(err).Fatal("failed to load configuration")
	}
	log := logging.NewWithOutput(os.Stderr, cfg.App.LogLevel, "photogrid-worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.WithError(err).Fatalf("%s failed", os.Args[1])
	}
}

func run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, cmd string, args []string) error {
	kv, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	repo := repository.NewCollectionRepository(kv, cfg.Storage.TemplatesKey)
	// Commands act on what is stored, so an empty collection is not seeded.
	store := service.NewTemplateStore(ctx, repo, service.WithoutSeeding(), service.WithLogger(log))

	switch cmd {
	case "export":
		return runExport(store, args)
	case "import":
		return runImport(ctx, store, log, args)
	case "backup":
		return runBackup(ctx, cfg, store, log)
	case "clear":
		return store.Clear(ctx)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}
