package paramcheck

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Checker converts and validates one raw parameter value.
//
// Returning a non-nil value stores it in place of the raw value; returning
// (nil, nil) keeps the raw value. Fail rejects the value with a message of
// its own, Deny stops the request with 403, and any other error rejects the
// value with the parameter's Msg.
type Checker interface {
	Check(ctx context.Context, raw any) (any, error)
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context, raw any) (any, error)

// Check implements Checker.
func (f CheckFunc) Check(ctx context.Context, raw any) (any, error) {
	return f(ctx, raw)
}

// Chain runs checkers in order, feeding each the value the previous one
// produced. The first error stops the chain.
func Chain(checkers ...Checker) Checker {
	return CheckFunc(func(ctx context.Context, raw any) (any, error) {
		cur := raw
		for _, c := range checkers {
			v, err := c.Check(ctx, cur)
			if err != nil {
				return nil, err
			}
			if v != nil {
				cur = v
			}
		}
		return cur, nil
	})
}

// runCheck calls c, turning a panic into an error.
func runCheck(ctx context.Context, log Logger, name string, c Checker, raw any) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("parameter checker panicked", "param", name, "panic", rec, "stack", string(debug.Stack()))
			v, err = nil, fmt.Errorf("checker panicked: %v", rec)
		}
	}()
	return c.Check(ctx, raw)
}
