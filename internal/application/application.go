package application

import "context"

// UseCase executes one command and returns its result.
type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}
