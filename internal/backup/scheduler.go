package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/domain"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Exporter produces the serialized template collection.
type Exporter interface {
	Export() (string, error)
}

type Scheduler struct {
	exporter Exporter
	sink     Sink
	log      logrus.FieldLogger
	now      func() time.Time
	cron     *cron.Cron
}

func NewScheduler(exporter Exporter, sink Sink, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		exporter: exporter,
		sink:     sink,
		log:      log.WithField("component", "backup"),
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start runs a backup on every tick of schedule (six fields, seconds first)
// and starts the cron runner.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			s.log.WithError(err).Error("scheduled backup failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}

	s.log.Infof("backup scheduler started (%s)", schedule)
	s.cron.Start()
	return nil
}

// Stop stops the runner. The returned context is done once a running
// backup has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce exports the collection and writes it to the sink, returning
// where it was written.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	data, err := s.exporter.Export()
	if err != nil {
		return "", fmt.Errorf("export templates: %w", err)
	}

	name := domain.ExportFileName(s.now().UTC())
	if err := s.sink.Write(ctx, name, []byte(data)); err != nil {
		return "", err
	}

	loc := s.sink.Location(name)
	s.log.WithField("location", loc).Info("templates backed up")
	return loc, nil
}
