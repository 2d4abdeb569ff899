package engine

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewBWLimiter returns a limiter that caps aggregate copy throughput at
// bytesPerSec. The burst is 1 MiB, or the rate itself when slower.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := 1 << 20
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

// rateLimitedReader throttles reads against a limiter shared by all copy
// workers.
type rateLimitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func newRateLimitedReader(ctx context.Context, r io.Reader, limiter *rate.Limiter) *rateLimitedReader {
	return &rateLimitedReader{ctx: ctx, r: r, limiter: limiter}
}

func (rl *rateLimitedReader) Read(p []byte) (int, error) {
	// WaitN rejects requests larger than the burst.
	if b := rl.limiter.Burst(); len(p) > b {
		p = p[:b]
	}
	n, err := rl.r.Read(p)
	if n > 0 {
		if werr := rl.limiter.WaitN(rl.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
