package email

import (
	"errors"
	"fmt"
)

// Dispatch stages, in the order they run
const (
	StageConfig       = "config"
	StageRender       = "render"
	StageCompose      = "compose"
	StageConnect      = "connect"
	StageAuthenticate = "authenticate"
	StageSend         = "send"
)

var (
	ErrNotConfigured       = errors.New("email service is not configured")
	ErrStartTLSUnsupported = errors.New("server does not support STARTTLS")
)

// StageError records which dispatch stage failed
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}
