package counter

import (
	"context"
	"errors"
	"github.com/litetable/groupcount/internal/report"
	"io"
)

// Job counts one file and writes its report. Nothing is written unless the count succeeds.
type Job struct {
	counter *Counter
	path    string
	out     io.Writer
}

type JobConfig struct {
	Counter *Counter
	Path    string
	Out     io.Writer
}

func (c *JobConfig) validate() error {
	var errGrp []error
	if c.Counter == nil {
		errGrp = append(errGrp, errors.New("counter cannot be nil"))
	}
	if c.Path == "" {
		errGrp = append(errGrp, errors.New("path cannot be empty"))
	}
	if c.Out == nil {
		errGrp = append(errGrp, errors.New("output cannot be nil"))
	}
	return errors.Join(errGrp...)
}

func NewJob(cfg *JobConfig) (*Job, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Job{
		counter: cfg.Counter,
		path:    cfg.Path,
		out:     cfg.Out,
	}, nil
}

// Run implements app.Job.
func (j *Job) Run(ctx context.Context) error {
	t, err := j.counter.Count(ctx, j.path)
	if err != nil {
		return err
	}
	return report.Write(j.out, t.Sorted())
}

func (j *Job) Name() string {
	return "Group Counter"
}
