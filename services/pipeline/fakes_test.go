package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/intentstack/intentstack/dto"
	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/enum"
	"github.com/intentstack/intentstack/internal/logger"
	"github.com/intentstack/intentstack/internal/models"
	"github.com/intentstack/intentstack/internal/repository"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

// fakeEmailStore is an in-memory ProcessedEmailRepository with the same
// dedup and patch semantics as the postgres implementation
type fakeEmailStore struct {
	mu        sync.Mutex
	emails    map[string]*models.ProcessedEmail
	nextID    int
	updateErr error
}

func newFakeEmailStore() *fakeEmailStore {
	return &fakeEmailStore{emails: map[string]*models.ProcessedEmail{}}
}

func (s *fakeEmailStore) Create(ctx context.Context, email *models.ProcessedEmail) (*models.ProcessedEmail, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.emails {
		if existing.UserID == email.UserID && existing.MessageID == email.MessageID {
			return existing, false, nil
		}
	}
	s.nextID++
	if email.ID == "" {
		email.ID = fmt.Sprintf("email_%d", s.nextID)
	}
	if email.Status == "" {
		email.Status = enum.ProcessingStatusPending
	}
	email.CreatedAt = time.Now()
	s.emails[email.ID] = email
	return email, true, nil
}

func (s *fakeEmailStore) GetByID(ctx context.Context, id string) (*models.ProcessedEmail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.emails[id]
	if !ok {
		return nil, repository.ErrEmailNotFound
	}
	copied := *email
	return &copied, nil
}

func (s *fakeEmailStore) ListPending(ctx context.Context) ([]*models.ProcessedEmail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []*models.ProcessedEmail
	for _, email := range s.emails {
		if email.Status == enum.ProcessingStatusPending && email.IsActive {
			copied := *email
			pending = append(pending, &copied)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

func (s *fakeEmailStore) ListByUser(ctx context.Context, userID string, status enum.ProcessingStatus, limit, offset int) ([]*models.ProcessedEmail, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.ProcessedEmail
	for _, email := range s.emails {
		if email.UserID != userID {
			continue
		}
		if status != "" && email.Status != status {
			continue
		}
		copied := *email
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func (s *fakeEmailStore) UpdateStatus(ctx context.Context, id string, status enum.ProcessingStatus, patch *interfaces.StatusPatch) (*models.ProcessedEmail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	email, ok := s.emails[id]
	if !ok {
		return nil, repository.ErrEmailNotFound
	}
	email.Status = status
	if status.IsTerminal() {
		now := time.Now()
		email.ProcessedAt = &now
	}
	if patch != nil {
		if patch.AIResponse != nil {
			email.AIResponse = patch.AIResponse
		}
		if patch.ExtractedData != nil {
			email.ExtractedData = patch.ExtractedData
		}
		if patch.MatchedIntentionID != nil {
			email.MatchedIntentionID = patch.MatchedIntentionID
		}
		if patch.AppliedPriceID != nil {
			email.AppliedPriceID = patch.AppliedPriceID
		}
		if patch.ExecutedActions != nil {
			email.ExecutedActions = patch.ExecutedActions
		}
		if patch.Error != nil {
			email.Error = *patch.Error
		}
		if patch.Attempts != nil {
			email.Attempts = *patch.Attempts
		}
		if patch.ProcessingDuration != nil {
			email.ProcessingDuration = *patch.ProcessingDuration
		}
	}
	copied := *email
	return &copied, nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	stats []string
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	store := &fakeUserStore{users: map[string]*models.User{}}
	for _, user := range users {
		store.users[user.ID] = user
	}
	return store
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) ListActive(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []*models.User
	for _, user := range s.users {
		if user.IsActive {
			active = append(active, user)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active, nil
}

func (s *fakeUserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) UpdateStatistics(ctx context.Context, id string, emailProcessed, intentionMatched bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if emailProcessed {
		user.EmailsProcessed++
	}
	if intentionMatched {
		user.MatchedIntentions++
	}
	s.stats = append(s.stats, fmt.Sprintf("%s:%t:%t", id, emailProcessed, intentionMatched))
	return nil
}

func (s *fakeUserStore) RecordError(ctx context.Context, id string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.LastError = message
	return nil
}

type fakeIntentionStore struct {
	mu         sync.Mutex
	intentions []*models.Intention
	statsCalls map[string][]float64
}

func newFakeIntentionStore(intentions ...*models.Intention) *fakeIntentionStore {
	return &fakeIntentionStore{
		intentions: intentions,
		statsCalls: map[string][]float64{},
	}
}

func (s *fakeIntentionStore) Create(ctx context.Context, intention *models.Intention) (*models.Intention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intentions = append(s.intentions, intention)
	return intention, nil
}

func (s *fakeIntentionStore) GetByID(ctx context.Context, id string) (*models.Intention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, intention := range s.intentions {
		if intention.ID == id {
			return intention, nil
		}
	}
	return nil, repository.ErrIntentionNotFound
}

func (s *fakeIntentionStore) ListActive(ctx context.Context) ([]*models.Intention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []*models.Intention
	for _, intention := range s.intentions {
		if intention.IsActive {
			active = append(active, intention)
		}
	}
	return active, nil
}

func (s *fakeIntentionStore) Update(ctx context.Context, intention *models.Intention) error {
	return nil
}

func (s *fakeIntentionStore) UpdateStatistics(ctx context.Context, id string, confidence float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsCalls[id] = append(s.statsCalls[id], confidence)
	for _, intention := range s.intentions {
		if intention.ID == id {
			total := intention.AverageConfidence*float64(intention.MatchCount) + confidence
			intention.MatchCount++
			intention.AverageConfidence = total / float64(intention.MatchCount)
			return nil
		}
	}
	return repository.ErrIntentionNotFound
}

type fakePriceStore struct {
	mu         sync.Mutex
	prices     map[string][]*models.Price
	usageCalls []string
}

func newFakePriceStore() *fakePriceStore {
	return &fakePriceStore{prices: map[string][]*models.Price{}}
}

func (s *fakePriceStore) add(price *models.Price) {
	s.prices[price.IntentionID] = append(s.prices[price.IntentionID], price)
}

func (s *fakePriceStore) Create(ctx context.Context, price *models.Price) (*models.Price, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(price)
	return price, nil
}

func (s *fakePriceStore) GetByID(ctx context.Context, id string) (*models.Price, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, prices := range s.prices {
		for _, price := range prices {
			if price.ID == id {
				return price, nil
			}
		}
	}
	return nil, repository.ErrPriceNotFound
}

func (s *fakePriceStore) ListByIntention(ctx context.Context, intentionID string) ([]*models.Price, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prices[intentionID], nil
}

func (s *fakePriceStore) IncrementUsage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usageCalls = append(s.usageCalls, id)
	return nil
}

type fakeActionStore struct {
	mu         sync.Mutex
	actions    map[string]*models.Action
	executions []recordedExecution
	getErr     error
}

type recordedExecution struct {
	actionID   string
	success    bool
	durationMs int64
	errMessage string
}

func newFakeActionStore(actions ...*models.Action) *fakeActionStore {
	store := &fakeActionStore{actions: map[string]*models.Action{}}
	for _, action := range actions {
		store.actions[action.ID] = action
	}
	return store
}

func (s *fakeActionStore) Create(ctx context.Context, action *models.Action) (*models.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[action.ID] = action
	return action, nil
}

func (s *fakeActionStore) GetByID(ctx context.Context, id string) (*models.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.actions[id]
	if !ok {
		return nil, repository.ErrActionNotFound
	}
	return action, nil
}

func (s *fakeActionStore) GetByIDs(ctx context.Context, ids []string) ([]*models.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	var result []*models.Action
	for _, id := range ids {
		if action, ok := s.actions[id]; ok {
			result = append(result, action)
		}
	}
	return result, nil
}

func (s *fakeActionStore) RecordExecution(ctx context.Context, id string, success bool, durationMs int64, errMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executions = append(s.executions, recordedExecution{
		actionID:   id,
		success:    success,
		durationMs: durationMs,
		errMessage: errMessage,
	})
	return nil
}

// fakeClassifier returns a scripted detection per subject
type fakeClassifier struct {
	mu          sync.Mutex
	detection   *dto.IntentionDetection
	detectErr   error
	extracted   map[string]interface{}
	extractErr  error
	detectCalls int
}

func (c *fakeClassifier) DetectIntention(ctx context.Context, subject, content string) (*dto.IntentionDetection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detectCalls++
	if c.detectErr != nil {
		return nil, c.detectErr
	}
	return c.detection, nil
}

func (c *fakeClassifier) ExtractInformation(ctx context.Context, subject, content string, fields []string) (map[string]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.extractErr != nil {
		return nil, c.extractErr
	}
	if c.extracted != nil {
		return c.extracted, nil
	}
	return map[string]interface{}{}, nil
}

// fakeExecutor records executions and fails the ids told to fail
type fakeExecutor struct {
	mu       sync.Mutex
	failFor  map[string]error
	executed []executedCall
}

type executedCall struct {
	actionType enum.ActionType
	config     map[string]interface{}
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{failFor: map[string]error{}}
}

func (e *fakeExecutor) Execute(ctx context.Context, actionType enum.ActionType, resolvedConfig map[string]interface{}) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, executedCall{actionType: actionType, config: resolvedConfig})
	if err, ok := e.failFor[actionType.String()]; ok {
		return nil, err
	}
	return map[string]interface{}{"ok": true}, nil
}

type fakeMailbox struct {
	mu       sync.Mutex
	messages map[string][]dto.RawMessage
	err      error
	fetches  int
}

func newFakeMailbox() *fakeMailbox {
	return &fakeMailbox{messages: map[string][]dto.RawMessage{}}
}

func (m *fakeMailbox) FetchUnseen(ctx context.Context, credentials interfaces.MailboxCredentials) ([]dto.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.err != nil {
		return nil, m.err
	}
	return m.messages[credentials.Username], nil
}

type plainCipher struct{}

func (plainCipher) Encrypt(plaintext string) (string, error) { return plaintext, nil }

func (plainCipher) Decrypt(ciphertext string) (string, error) { return ciphertext, nil }

type fakePublisher struct {
	mu            sync.Mutex
	processed     []dto.EmailProcessed
	notifications []dto.Notification
}

func (p *fakePublisher) PublishEmailProcessed(ctx context.Context, event dto.EmailProcessed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed = append(p.processed, event)
	return nil
}

func (p *fakePublisher) PublishNotification(ctx context.Context, entityID string, entityType enum.EntityType, notification dto.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, notification)
	return nil
}

func (p *fakePublisher) Close() error { return nil }
