package app

import (
	"bytes"
	"context"
	"errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"os"
	"strings"
	"testing"
	"time"
)

func TestCreateApp(t *testing.T) {
	tests := map[string]struct {
		cfg   *Config
		error error
	}{
		"invalid config": {
			cfg:   &Config{},
			error: errors.New("service name is required"),
		},
		"valid config": {
			cfg: &Config{ServiceName: "groupcount"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			got, err := CreateApp(tc.cfg)
			if tc.error != nil {
				req.Error(err)
				req.Nil(got)
				req.Equal(tc.error.Error(), err.Error())
				return
			}
			req.NoError(err)
			req.NotNil(got)
		})
	}
}

func TestApp_Run(t *testing.T) {
	tests := map[string]struct {
		firstErr   error
		firstPanic bool
		runsSecond bool
		wantErr    string
	}{
		"all jobs succeed": {
			runsSecond: true,
		},
		"failure stops the run": {
			firstErr: assert.AnError,
			wantErr:  "first: " + assert.AnError.Error(),
		},
		"panic is recovered": {
			firstPanic: true,
			wantErr:    "panic in Run() for job first: boom",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			req := require.New(t)

			first := NewMockJob(ctrl)
			second := NewMockJob(ctrl)
			first.EXPECT().Name().Return("first").AnyTimes()
			second.EXPECT().Name().Return("second").AnyTimes()

			firstRun := first.EXPECT().Run(gomock.Any()).Times(1)
			if tc.firstPanic {
				firstRun.DoAndReturn(func(context.Context) error {
					panic("boom")
				})
			} else {
				firstRun.Return(tc.firstErr)
			}

			if tc.runsSecond {
				second.EXPECT().Run(gomock.Any()).Return(nil).Times(1).After(firstRun)
			}

			a, err := CreateApp(&Config{ServiceName: "test"}, first, second)
			req.NoError(err)

			err = a.Run(context.Background())
			if tc.wantErr != "" {
				req.Error(err)
				req.Equal(tc.wantErr, err.Error())
				if tc.firstErr != nil {
					req.ErrorIs(err, tc.firstErr)
				}
				return
			}
			req.NoError(err)
		})
	}
}

func TestApp_Run_Once(t *testing.T) {
	req := require.New(t)

	a, err := CreateApp(&Config{ServiceName: "test"})
	req.NoError(err)

	req.NoError(a.Run(context.Background()))
	req.EqualError(a.Run(context.Background()), "run has already been called")
}

func TestApp_Run_SignalCancels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	req := require.New(t)

	a, err := CreateApp(&Config{ServiceName: "test"})
	req.NoError(err)

	job := NewMockJob(ctrl)
	job.EXPECT().Name().Return("waiter").AnyTimes()
	job.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		a.osSignalChan <- os.Interrupt
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return errors.New("context was not cancelled")
		}
	}).Times(1)
	a.jobs = []Job{job}

	err = a.Run(context.Background())
	req.ErrorIs(err, context.Canceled)
}

func TestApp_Run_LoggerCarriesRunID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	req := require.New(t)

	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = previous }()

	job := NewMockJob(ctrl)
	job.EXPECT().Name().Return("logger").AnyTimes()
	job.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		zerolog.Ctx(ctx).Info().Msg("from job")
		return nil
	}).Times(1)

	a, err := CreateApp(&Config{ServiceName: "test"}, job)
	req.NoError(err)
	req.NoError(a.Run(context.Background()))

	var jobLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "from job") {
			jobLine = line
		}
	}
	req.Contains(jobLine, `"run_id":"`)
	req.Contains(jobLine, `"service":"test"`)
}
