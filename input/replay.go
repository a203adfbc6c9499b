package input

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/BeatGlow/pencil/stylus"
)

// Replay reads JSON lines from r and sends one event per interval to out.
// Blank lines and lines starting with # are skipped. It returns nil at the
// end of r and ctx.Err() when cancelled.
func Replay(ctx context.Context, r io.Reader, interval time.Duration, out chan<- stylus.Event) error {
	var (
		scanner = bufio.NewScanner(r)
		line    int
		timer   *time.Timer
	)
	if interval > 0 {
		timer = time.NewTimer(0)
		defer timer.Stop()
	}
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		ev, err := Decode(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		if timer != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
			timer.Reset(interval)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- ev:
		}
	}
	return scanner.Err()
}
