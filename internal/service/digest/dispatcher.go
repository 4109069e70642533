package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/savora/recipedigest/internal/domain"
	"github.com/savora/recipedigest/internal/pkg/logger"
)

// DispatcherConfig holds the per-run message settings. Passing it in at
// construction keeps the dispatcher free of process-wide state.
type DispatcherConfig struct {
	Subject   string
	FromName  string
	FromEmail string

	// SendTimeout bounds each individual delivery. Zero means the
	// transport's own deadline is the only bound.
	SendTimeout time.Duration

	// SkipUnchanged enables the unchanged-digest skip. It has no effect
	// unless a DedupStore is attached.
	SkipUnchanged bool
}

// Dispatcher drives one full digest pass: for every user, aggregate,
// compose, send. Per-recipient failures are logged and counted, never
// propagated; one bad address cannot cost anyone else their digest.
type Dispatcher struct {
	directory  UserDirectory
	aggregator *Aggregator
	transport  Transport
	cfg        DispatcherConfig

	// optional collaborators
	renderer HTMLRenderer
	dedup    DedupStore
}

// NewDispatcher creates a dispatcher over the given collaborators.
func NewDispatcher(directory UserDirectory, aggregator *Aggregator, transport Transport, cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		directory:  directory,
		aggregator: aggregator,
		transport:  transport,
		cfg:        cfg,
	}
}

// SetHTMLRenderer attaches an HTML renderer. When set, each message
// carries an HTML part alongside the plain body.
func (d *Dispatcher) SetHTMLRenderer(r HTMLRenderer) { d.renderer = r }

// SetDedupStore attaches the store backing the unchanged-digest skip.
func (d *Dispatcher) SetDedupStore(s DedupStore) { d.dedup = s }

// Run executes one digest pass over every registered user. It returns a
// non-nil report always; the error is non-nil only when the user list
// itself cannot be fetched and no per-recipient work was possible.
// Re-running sends fresh digests; there is no already-sent-today guard.
func (d *Dispatcher) Run(ctx context.Context) (*domain.DigestRunReport, error) {
	report := &domain.DigestRunReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	users, err := d.directory.ListAllUsers(ctx)
	if err != nil {
		report.Status = domain.DigestRunFailed
		report.FinishedAt = time.Now().UTC()
		return report, fmt.Errorf("listing users: %w", err)
	}

	report.Total = len(users)
	logger.Info("digest run started", "run_id", report.RunID, "users", report.Total)

	for _, u := range users {
		d.processUser(ctx, u, report)
	}

	report.Status = domain.DigestRunCompleted
	report.FinishedAt = time.Now().UTC()
	logger.Info("digest run completed",
		"run_id", report.RunID,
		"sent", report.Sent,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

// processUser is the per-recipient unit of work. Every failure path ends
// here; nothing escapes to abort the surrounding run.
func (d *Dispatcher) processUser(ctx context.Context, u domain.User, report *domain.DigestRunReport) {
	// Resolve the ID from the same email the directory just listed. A miss
	// here means the directory contradicted itself mid-run.
	userID, err := d.directory.FindUserIDByEmail(ctx, u.Email)
	if err != nil {
		logger.Error("digest user lookup failed mid-run, skipping recipient",
			"run_id", report.RunID, "email", u.Email, "error", err.Error())
		report.Failed++
		return
	}

	summaries, err := d.aggregator.Summarize(ctx, userID)
	if err != nil {
		logger.Error("digest aggregation failed, skipping recipient",
			"run_id", report.RunID, "email", u.Email, "error", err.Error())
		report.Failed++
		return
	}

	body := ComposeBody(summaries)

	if d.cfg.SkipUnchanged && d.dedup != nil {
		hash := BodyHash(body)
		unchanged, err := d.dedup.Unchanged(ctx, userID, hash)
		if err != nil {
			// Fail open: a broken dedup store must not cost anyone a digest.
			logger.Warn("dedup check failed, sending anyway",
				"run_id", report.RunID, "email", u.Email, "error", err.Error())
		} else if unchanged {
			logger.Debug("digest unchanged since last run, skipping",
				"run_id", report.RunID, "email", u.Email)
			report.Skipped++
			return
		}
	}

	msg := &domain.DigestMessage{
		RecipientEmail: u.Email,
		RecipientName:  u.Username,
		Subject:        d.cfg.Subject,
		Body:           body,
	}

	if d.renderer != nil {
		html, err := d.renderer.RenderDigestHTML(u.Username, summaries)
		if err != nil {
			logger.Warn("digest HTML render failed, sending plain text only",
				"run_id", report.RunID, "email", u.Email, "error", err.Error())
		} else {
			msg.HTMLBody = html
		}
	}

	sendCtx := ctx
	if d.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.cfg.SendTimeout)
		defer cancel()
	}

	if err := d.transport.Send(sendCtx, msg); err != nil {
		logger.Warn("digest delivery failed, continuing with remaining recipients",
			"run_id", report.RunID, "email", u.Email, "error", err.Error())
		report.Failed++
		return
	}

	if d.cfg.SkipUnchanged && d.dedup != nil {
		if err := d.dedup.Remember(ctx, userID, BodyHash(body)); err != nil {
			logger.Warn("failed to record digest hash",
				"run_id", report.RunID, "email", u.Email, "error", err.Error())
		}
	}

	report.Sent++
}
