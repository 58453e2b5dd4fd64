package realtime

import (
	"context"
	"errors"
)

// Multi fans one publish out to several publishers. Every publisher is tried;
// errors are joined so the caller can log them in one place.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, channel, event string, payload any) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, channel, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
