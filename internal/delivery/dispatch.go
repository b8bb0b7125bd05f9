package delivery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Mode selects how a message is fanned out.
type Mode string

// Delivery modes.
const (
	ModeBatch      Mode = "batch"      // one message per chunk, recipients in Bcc
	ModeIndividual Mode = "individual" // one message per recipient
)

// MaxBatchRecipients is the Postmark limit on addresses per message.
const MaxBatchRecipients = 50

// MaxWorkers caps concurrent sends in individual mode.
const MaxWorkers = 32

// ParseMode parses a mode name. Empty means batch.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeBatch:
		return ModeBatch, nil
	case ModeIndividual:
		return ModeIndividual, nil
	}
	return "", fmt.Errorf("%w: %q (must be batch or individual)", ErrInvalidMode, s)
}

// Result is the outcome of one outgoing message.
type Result struct {
	Recipients []Recipient
	Err        error
}

// Summary reports a dispatch run.
type Summary struct {
	BatchID string
	Sent    int // recipients reached
	Failed  int // recipients not reached
	Results []Result
}

// Dispatch sends msg to recipients. msg.To and msg.Bcc are replaced per
// outgoing message: batch chunks go in Bcc so list members never see each
// other, individual messages carry their one recipient in To. Every message of the run carries the same BatchID.
// Returns an error wrapping ErrFailedToSend when any recipient was not
// reached; the summary is returned either way once sending started.
func Dispatch(ctx context.Context, sender Sender, msg Message, recipients []Recipient, mode Mode, workers int) (*Summary, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if mode != ModeBatch && mode != ModeIndividual {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	msg.BatchID = uuid.NewString()

	var groups [][]Recipient
	if mode == ModeBatch {
		groups = chunk(recipients, MaxBatchRecipients)
	} else {
		groups = chunk(recipients, 1)
	}

	results := sendAll(ctx, sender, msg, groups, mode, resolveWorkers(workers, mode, len(groups)))

	summary := &Summary{BatchID: msg.BatchID, Results: results}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed += len(r.Recipients)
		} else {
			summary.Sent += len(r.Recipients)
		}
	}
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d recipients", ErrFailedToSend, summary.Failed, len(recipients))
	}
	return summary, nil
}

// sendAll sends one message per group on a pool of workers.
func sendAll(ctx context.Context, sender Sender, msg Message, groups [][]Recipient, mode Mode, workers int) []Result {
	results := make([]Result, len(groups))
	jobs := make(chan int, len(groups))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx].Recipients = groups[idx]
				if err := ctx.Err(); err != nil {
					results[idx].Err = err
					continue
				}
				out := msg
				out.To, out.Bcc = nil, nil
				if mode == ModeBatch {
					out.Bcc = groups[idx]
				} else {
					out.To = groups[idx]
				}
				results[idx].Err = sender.Send(ctx, out)
			}
		}()
	}

	for i := range groups {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// resolveWorkers bounds the worker count. Batch mode sends sequentially.
func resolveWorkers(workers int, mode Mode, jobs int) int {
	if mode == ModeBatch || workers < 1 {
		workers = 1
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if workers > jobs {
		workers = jobs
	}
	return workers
}

// chunk splits rs into groups of at most size.
func chunk(rs []Recipient, size int) [][]Recipient {
	groups := make([][]Recipient, 0, (len(rs)+size-1)/size)
	for start := 0; start < len(rs); start += size {
		end := min(start+size, len(rs))
		groups = append(groups, rs[start:end])
	}
	return groups
}
