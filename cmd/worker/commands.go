package main

import (
	"context"
	"fmt"
	"os"

	"github.com/GoSim-25-26J-441/photogrid-backend/config"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/backup"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/service"
	"github.com/sirupsen/logrus"
)

func runExport(store *service.TemplateStore, args []string) error {
	data, err := store.Export()
	if err != nil {
		return err
	}

	if len(args) == 0 || args[0] == "-" {
		_, err = fmt.Fprintln(os.Stdout, data)
		return err
	}
	return os.WriteFile(args[0], []byte(data), 0o644)
}

func runImport(ctx context.Context, store *service.TemplateStore, log logrus.FieldLogger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import needs exactly one file argument")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	n, err := store.Import(ctx, string(data))
	if err != nil {
		return err
	}
	log.Infof("imported %d templates from %s", n, args[0])
	return nil
}

func runBackup(ctx context.Context, cfg *config.Config, store *service.TemplateStore, log logrus.FieldLogger) error {
	sink, err := backup.NewSink(ctx, cfg.Backup)
	if err != nil {
		return err
	}
	_, err = backup.NewScheduler(store, sink, log).RunOnce(ctx)
	return err
}
