package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/intentstack/intentstack/dto"
	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/enum"
	er "github.com/intentstack/intentstack/internal/errors"
	"github.com/intentstack/intentstack/internal/logger"
	"github.com/intentstack/intentstack/internal/models"
	"github.com/intentstack/intentstack/internal/tracing"
	"github.com/intentstack/intentstack/internal/utils"
)

// Processor drains PENDING work items through the classification,
// matching, extraction, pricing and action workflow. At most one pass
// runs at a time per process; an overlapping pass is skipped.
type Processor struct {
	emails     interfaces.ProcessedEmailRepository
	users      interfaces.UserRepository
	intentions interfaces.IntentionRepository
	prices     interfaces.PriceRepository
	classifier interfaces.IntentionClassifier
	dispatcher *Dispatcher
	publisher  interfaces.EventPublisher
	log        logger.Logger

	inFlight atomic.Bool
}

func NewProcessor(
	emails interfaces.ProcessedEmailRepository,
	users interfaces.UserRepository,
	intentions interfaces.IntentionRepository,
	prices interfaces.PriceRepository,
	classifier interfaces.IntentionClassifier,
	dispatcher *Dispatcher,
	publisher interfaces.EventPublisher,
	log logger.Logger,
) *Processor {
	return &Processor{
		emails:     emails,
		users:      users,
		intentions: intentions,
		prices:     prices,
		classifier: classifier,
		dispatcher: dispatcher,
		publisher:  publisher,
		log:        log,
	}
}

// RunProcessingPass works through every PENDING email, oldest first.
// Returns ErrPassInFlight when a pass is already running; a failure on
// one email moves that email to ERROR and never aborts the batch.
func (p *Processor) RunProcessingPass(ctx context.Context) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.log.Info("Email processing already in progress, skipping")
		return er.ErrPassInFlight
	}
	defer p.inFlight.Store(false)

	span, ctx := tracing.StartTracerSpan(ctx, "Processor.RunProcessingPass")
	defer span.Finish()
	tracing.TagComponentPipeline(span)

	p.log.Info("Starting email processing")

	pending, err := p.emails.ListPending(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to list pending emails")
	}
	span.LogKV("pendingCount", len(pending))

	for _, email := range pending {
		if err := p.processOne(ctx, email); err != nil {
			p.log.Errorf("Error processing email %s: %v", email.ID, err)
		}
	}

	p.log.Info("Email processing completed")
	return nil
}

// Reprocess runs the workflow again for a single email. Emails that
// already reached PROCESSED are rejected; NO_MATCH and ERROR ones go
// through the full workflow with the current catalog.
func (p *Processor) Reprocess(ctx context.Context, emailID string) error {
	span, ctx := tracing.StartTracerSpan(ctx, "Processor.Reprocess")
	defer span.Finish()
	tracing.TagComponentPipeline(span)
	tracing.TagEntity(span, emailID)

	email, err := p.emails.GetByID(ctx, emailID)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	if email.Status == enum.ProcessingStatusProcessed {
		return er.ErrAlreadyProcessed
	}

	return p.processOne(ctx, email)
}

// statisticsMove carries the counters that belong to a matched email.
// They are folded in only after the PROCESSED write is durable, so a
// failed finalize cannot double-count when the item is re-run.
type statisticsMove struct {
	intentionID string
	confidence  float64
	priceID     string
}

// processOne drives a single email to a terminal status. Any workflow
// failure lands the email in ERROR with the failure message; the status
// row always records the attempt count and elapsed time.
func (p *Processor) processOne(ctx context.Context, email *models.ProcessedEmail) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Processor.processOne")
	defer span.Finish()
	tracing.TagComponentPipeline(span)
	tracing.TagEntity(span, email.ID)
	tracing.TagUser(span, email.UserID)

	start := time.Now()
	attempts := email.Attempts + 1

	status, patch, stats, workflowErr := p.runWorkflow(ctx, email)
	if workflowErr != nil {
		tracing.TraceErr(span, workflowErr)
		status = enum.ProcessingStatusError
		patch = &interfaces.StatusPatch{
			Error: utils.Ptr(workflowErr.Error()),
		}
		stats = nil
	}

	patch.Attempts = utils.Ptr(attempts)
	patch.ProcessingDuration = utils.Ptr(time.Since(start).Milliseconds())

	updated, err := p.emails.UpdateStatus(ctx, email.ID, status, patch)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to update email status")
	}

	if stats != nil {
		p.moveStatistics(ctx, email.UserID, stats)
	}

	p.publishProcessed(ctx, updated)

	span.LogKV("result.status", status.String())
	return workflowErr
}

// moveStatistics folds one processed email into the user, intention and
// price counters. Each update is best effort; a counter failure never
// fails an already finalized email.
func (p *Processor) moveStatistics(ctx context.Context, userID string, stats *statisticsMove) {
	if err := p.users.UpdateStatistics(ctx, userID, false, true); err != nil {
		p.log.Errorf("Failed to update statistics for user %s: %v", userID, err)
	}
	if err := p.intentions.UpdateStatistics(ctx, stats.intentionID, stats.confidence); err != nil {
		p.log.Errorf("Failed to update statistics for intention %s: %v", stats.intentionID, err)
	}
	if stats.priceID != "" {
		if err := p.prices.IncrementUsage(ctx, stats.priceID); err != nil {
			p.log.Errorf("Failed to increment usage for price %s: %v", stats.priceID, err)
		}
	}
}

// runWorkflow executes the classify, match, extract, price and act
// steps and returns the terminal status with its patch, plus the
// statistics to move once that status is written
func (p *Processor) runWorkflow(ctx context.Context, email *models.ProcessedEmail) (enum.ProcessingStatus, *interfaces.StatusPatch, *statisticsMove, error) {
	// Step 1: detect the intention
	detection, err := p.classifier.DetectIntention(ctx, email.Subject, email.Content)
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "intention detection failed")
	}

	aiResponse := models.JSONMap{
		"detectedIntention": detection.DetectedIntention,
		"confidence":        detection.Confidence,
	}
	if detection.Reasoning != "" {
		aiResponse["reasoning"] = detection.Reasoning
	}
	if detection.Provider != "" {
		aiResponse["provider"] = detection.Provider
	}

	// Step 2: match against the admin catalog
	intentions, err := p.intentions.ListActive(ctx)
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "failed to list intentions")
	}
	matched := MatchIntention(detection.DetectedIntention, intentions)
	if matched == nil {
		// No statistics move on NO_MATCH
		return enum.ProcessingStatusNoMatch, &interfaces.StatusPatch{
			AIResponse: aiResponse,
		}, nil, nil
	}

	// Step 3: extract the intention's configured fields
	extracted := map[string]interface{}{}
	if fields := matched.ExtractFields(); len(fields) > 0 {
		extracted, err = p.classifier.ExtractInformation(ctx, email.Subject, email.Content, fields)
		if err != nil {
			return "", nil, nil, errors.Wrap(err, "information extraction failed")
		}
	}

	// Step 4: select the applicable price
	prices, err := p.prices.ListByIntention(ctx, matched.ID)
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "failed to list prices")
	}
	price := SelectPrice(email, prices)

	// Step 5: execute the intention's actions
	user, err := p.users.GetByID(ctx, email.UserID)
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "failed to load user")
	}
	outcomes, err := p.dispatcher.DispatchActions(ctx, matched.ActionIDs, &ExecutionContext{
		Email:     email,
		User:      user,
		Intention: matched,
		Extracted: extracted,
		Price:     price,
	})
	if err != nil {
		// An unreachable action catalog fails the item; per-action
		// failures are already isolated inside the dispatcher
		return "", nil, nil, err
	}

	executedActions := make(models.JSONArray, 0, len(outcomes))
	for _, outcome := range outcomes {
		entry := map[string]interface{}{
			"actionId": outcome.ActionID,
			"status":   outcome.Status,
		}
		if outcome.Result != nil {
			entry["result"] = outcome.Result
		}
		if outcome.Error != "" {
			entry["error"] = outcome.Error
		}
		executedActions = append(executedActions, entry)
	}

	// Step 6: statistics move after the PROCESSED write lands
	patch := &interfaces.StatusPatch{
		AIResponse:         aiResponse,
		ExtractedData:      extracted,
		MatchedIntentionID: utils.Ptr(matched.ID),
		ExecutedActions:    executedActions,
	}
	stats := &statisticsMove{
		intentionID: matched.ID,
		confidence:  detection.Confidence,
	}
	if price != nil {
		patch.AppliedPriceID = utils.Ptr(price.ID)
		stats.priceID = price.ID
	}

	return enum.ProcessingStatusProcessed, patch, stats, nil
}

func (p *Processor) publishProcessed(ctx context.Context, email *models.ProcessedEmail) {
	if p.publisher == nil {
		return
	}
	event := dto.EmailProcessed{
		EmailID: email.ID,
		UserID:  email.UserID,
		Status:  email.Status.String(),
	}
	if email.MatchedIntentionID != nil {
		event.IntentionID = *email.MatchedIntentionID
	}
	if err := p.publisher.PublishEmailProcessed(ctx, event); err != nil {
		p.log.Errorf("Failed to publish processed event for email %s: %v", email.ID, err)
	}
}
