package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
)

type fakeJob struct {
	name string
	runs int
	err  error
}

func (f *fakeJob) Name() string { return f.name }

func (f *fakeJob) Run(ctx context.Context) error {
	f.runs++
	return f.err
}

type fakeLock struct {
	acquired bool
	releases int
}

func (f *fakeLock) Acquire(ctx context.Context) (bool, error) { return f.acquired, nil }

func (f *fakeLock) Release(ctx context.Context) error {
	f.releases++
	return nil
}

func TestRegistrySkipsNilJobs(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil, &fakeJob{name: "a"})
	registry.Register(nil)
	registry.Register(&fakeJob{name: "b"})

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Name() != "a" || jobs[1].Name() != "b" {
		t.Fatalf("jobs out of order: %s, %s", jobs[0].Name(), jobs[1].Name())
	}
}

func TestRunCycleRunsJobsAndReleasesLock(t *testing.T) {
	t.Parallel()

	ok := &fakeJob{name: "ok"}
	failing := &fakeJob{name: "failing", err: fmt.Errorf("boom")}
	lock := &fakeLock{acquired: true}

	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Registry: NewRegistry(ok, failing),
		Lock:     lock,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}

	if ok.runs != 1 || failing.runs != 1 {
		t.Fatalf("expected each job to run once, got %d/%d", ok.runs, failing.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock release, got %d", lock.releases)
	}
}

func TestRunCycleSkipsWithoutLock(t *testing.T) {
	t.Parallel()

	job := &fakeJob{name: "job"}
	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Registry: NewRegistry(job),
		Lock:     &fakeLock{acquired: false},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job skipped, ran %d times", job.runs)
	}
}
