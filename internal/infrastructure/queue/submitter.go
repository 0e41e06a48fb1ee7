// Package queue serializes mint submissions. The signing account has a single
// nonce sequence, so concurrent submissions that each fetch the pending nonce
// would collide and all but one would be rejected by the network. A lone
// worker drains a channel of jobs, guaranteeing one nonce-acquire-and-broadcast
// at a time; callers block on a reply channel until their receipt arrives.
package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rimba/nft-store/internal/api/metrics"
	"github.com/rimba/nft-store/internal/core/domain"
	"github.com/rimba/nft-store/internal/core/ports"
)

const channelBuffer = 64

type mintResult struct {
	receipt *domain.MintReceipt
	err     error
}

type mintJob struct {
	ctx   context.Context
	req   domain.MintRequest
	reply chan mintResult
}

// MintSubmitter funnels all mint calls through one worker. It implements
// ports.Minter, so callers are unaware of the queueing.
type MintSubmitter struct {
	jobs   chan mintJob
	minter ports.Minter
	logger zerolog.Logger
}

func NewMintSubmitter(minter ports.Minter, logger zerolog.Logger) *MintSubmitter {
	return &MintSubmitter{
		jobs:   make(chan mintJob, channelBuffer),
		minter: minter,
		logger: logger,
	}
}

// Start launches the worker goroutine. The worker stops when ctx is cancelled;
// jobs still queued at that point are answered with ctx.Err().
func (s *MintSubmitter) Start(ctx context.Context) {
	go s.run(ctx)
}

// Mint enqueues the request and blocks until the worker hands back a result
// or ctx is cancelled.
func (s *MintSubmitter) Mint(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error) {
	job := mintJob{ctx: ctx, req: req, reply: make(chan mintResult, 1)}

	select {
	case s.jobs <- job:
		metrics.MintQueueDepth.Inc()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-job.reply:
		return res.receipt, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *MintSubmitter) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.drain(ctx.Err())
			return
		case job := <-s.jobs:
			metrics.MintQueueDepth.Dec()
			start := time.Now()
			receipt, err := s.minter.Mint(job.ctx, job.req)
			if err != nil {
				metrics.MintsTotal.WithLabelValues("error").Inc()
				s.logger.Error().Err(err).Str("recipient", job.req.Recipient).Msg("mint submission failed")
			} else {
				metrics.MintsTotal.WithLabelValues("success").Inc()
				metrics.MintDuration.Observe(time.Since(start).Seconds())
			}
			job.reply <- mintResult{receipt: receipt, err: err}
		}
	}
}

// drain answers queued jobs after shutdown so no caller hangs.
func (s *MintSubmitter) drain(err error) {
	for {
		select {
		case job := <-s.jobs:
			metrics.MintQueueDepth.Dec()
			job.reply <- mintResult{err: err}
		default:
			return
		}
	}
}
