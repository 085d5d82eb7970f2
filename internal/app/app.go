package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

//go:generate mockgen -destination=./app_mock.go -package=app -source=app.go

// Job is a unit of work the application runs to completion.
type Job interface {
	// Run does the work. It should return promptly once ctx is cancelled.
	Run(ctx context.Context) error
	// Name is the name of the job. It is used for logging and identification purposes, only.
	Name() string
}

type App struct {
	serviceName string
	// jobs run sequentially in the order given.
	jobs []Job
	// osSignalChan is a channel that will be used to signal when the OS has sent a signal to the application.
	osSignalChan chan os.Signal
	// runCalled allows Run to be called once
	runCalled *atomic.Bool
}

type Config struct {
	ServiceName string
}

func (c *Config) validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, errors.New("service name is required"))
	}
	return errors.Join(errs...)
}

// CreateApp creates a new application that runs the provided jobs.
func CreateApp(cfg *Config, jobs ...Job) (*App, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &App{
		serviceName:  cfg.ServiceName,
		jobs:         jobs,
		runCalled:    &atomic.Bool{},
		osSignalChan: make(chan os.Signal, 1), // first signal we get cancels the run
	}, nil
}

// Run executes every job in order and stops at the first failure. An interrupt or terminate signal
// cancels the context handed to the running job. Every log line written through the context
// carries the run id.
func (a *App) Run(ctx context.Context) error {
	if !a.runCalled.CompareAndSwap(false, true) {
		return errors.New("run has already been called")
	}

	logger := log.With().
		Str("service", a.serviceName).
		Str("run_id", uuid.NewString()).
		Logger()

	// defer funcs are always LIFO - don't forget!
	ctxCancel, cancel := context.WithCancel(logger.WithContext(ctx))
	defer cancel()

	done := make(chan struct{})
	signal.Notify(a.osSignalChan, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(a.osSignalChan)
		close(done)
	}()

	go func() {
		select {
		case sig := <-a.osSignalChan:
			logger.Info().Msg("OS Signal received: " + sig.String() + " cancelling run")
			cancel()
		case <-done:
		}
	}()

	for _, job := range a.jobs {
		logger.Debug().Msg("Running job: " + job.Name())
		start := time.Now()

		if err := a.runJob(ctxCancel, job); err != nil {
			return err
		}

		logger.Debug().Dur("elapsed", time.Since(start)).Msg("Finished job: " + job.Name())
	}

	return nil
}

// runJob runs a single job, converting a panic into an error.
func (a *App) runJob(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in Run() for job %s: %v", job.Name(), r)
			zerolog.Ctx(ctx).Error().Msg(err.Error())
		}
	}()

	if err = job.Run(ctx); err != nil {
		return fmt.Errorf("%s: %w", job.Name(), err)
	}
	return nil
}
