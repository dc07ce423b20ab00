package service

import (
	"context"
	"errors"
	"testing"
)

func TestRunnerService_Add(t *testing.T) {
	repo := &fakeRunnerRepo{}
	svc := NewRunnerService(repo)

	r, err := svc.Add(context.Background(), " Ada ")
	if err != nil || r.Name != "Ada" {
		t.Fatalf("Add = %+v, %v", r, err)
	}
	if _, err := svc.Add(context.Background(), "x23456789012345678901234567890123456789012345678901234567890123456"); !errors.Is(err, ErrInvalidRunner) {
		t.Fatalf("expected ErrInvalidRunner for long name, got %v", err)
	}
	repo.addErr = errors.New("readonly")
	if _, err := svc.Add(context.Background(), "Bo"); err == nil {
		t.Fatalf("expected repo error")
	}
	if len(repo.added) != 1 {
		t.Fatalf("added %v", repo.added)
	}
}
