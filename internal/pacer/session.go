package pacer

import "context"

type boundSession struct {
	pacer Pacer
	state *RateLimitState
}

// Bind returns a Session for a single sequential loop. It does no locking.
func Bind(p Pacer, state *RateLimitState) Session {
	if state == nil {
		state = &RateLimitState{}
	}
	return &boundSession{pacer: p, state: state}
}

func (s *boundSession) Submit(ctx context.Context, prompt string) (string, error) {
	return s.pacer.Submit(ctx, prompt, s.state)
}

// serialSession lets concurrent callers share one pacer and one state, with
// at most one request in flight.
type serialSession struct {
	pacer Pacer
	slot  chan struct{}
	state RateLimitState
}

// Serialize returns a Session safe for concurrent use.
func Serialize(p Pacer) Session {
	return &serialSession{pacer: p, slot: make(chan struct{}, 1)}
}

func (s *serialSession) Submit(ctx context.Context, prompt string) (string, error) {
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-s.slot }()

	return s.pacer.Submit(ctx, prompt, &s.state)
}
