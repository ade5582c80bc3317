package session

import (
	"context"
	"fmt"
)

// KeyReader blocks until the next key event.
type KeyReader interface {
	ReadKey() (Key, error)
}

// Terminal is a host that can both draw and deliver keys.
type Terminal interface {
	Screen
	KeyReader
}

// Run drives the session against t until the user confirms or interrupts.
// It paints, reads one key, handles it, and repeats; evaluations therefore
// run strictly one at a time in key order. The confirmed command is
// returned; an interrupt yields ErrCancelled and an ended ctx its error,
// even while a key read is pending.
func (s *Session) Run(ctx context.Context, t Terminal) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if _, err := s.Paint(t); err != nil {
			return "", fmt.Errorf("paint: %w", err)
		}
		k, err := readKey(ctx, t)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return "", fmt.Errorf("read key: %w", err)
		}
		switch s.Handle(ctx, k) {
		case Confirmed:
			return s.Result(), nil
		case Cancelled:
			return "", ErrCancelled
		}
	}
}

type keyResult struct {
	key Key
	err error
}

// readKey waits for the next key or for ctx to end. A read still pending when
// ctx ends is abandoned; hosts unblock it when they close.
func readKey(ctx context.Context, r KeyReader) (Key, error) {
	ch := make(chan keyResult, 1)
	go func() {
		k, err := r.ReadKey()
		ch <- keyResult{key: k, err: err}
	}()
	select {
	case res := <-ch:
		return res.key, res.err
	case <-ctx.Done():
		return Key{}, ctx.Err()
	}
}
