package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"knowledge-assistant/internal/assistant"
	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/mailer"
	"knowledge-assistant/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// memDB is an in-memory stand-in for the schema. Values are stored by copy
// so a snapshot taken at the start of WithinTx can be restored on error.
type memDB struct {
	users         map[uuid.UUID]entity.User
	sessions      map[uuid.UUID]entity.Session
	otps          map[string]entity.EmailOTP
	profiles      map[uuid.UUID]entity.Profile
	settings      map[uuid.UUID]entity.Settings
	notifications map[uuid.UUID]entity.Notification
	conversations map[uuid.UUID]entity.Conversation
	messages      map[uuid.UUID]entity.Message
	categories    map[uuid.UUID]entity.Category
	articles      map[uuid.UUID]entity.Article
	reads         map[[2]uuid.UUID]time.Time
	enquiries     map[uuid.UUID]entity.Enquiry

	// fail makes the named operation return the error, e.g. "settings.create".
	fail map[string]error
}

func newMemDB() *memDB {
	return &memDB{
		users:         map[uuid.UUID]entity.User{},
		sessions:      map[uuid.UUID]entity.Session{},
		otps:          map[string]entity.EmailOTP{},
		profiles:      map[uuid.UUID]entity.Profile{},
		settings:      map[uuid.UUID]entity.Settings{},
		notifications: map[uuid.UUID]entity.Notification{},
		conversations: map[uuid.UUID]entity.Conversation{},
		messages:      map[uuid.UUID]entity.Message{},
		categories:    map[uuid.UUID]entity.Category{},
		articles:      map[uuid.UUID]entity.Article{},
		reads:         map[[2]uuid.UUID]time.Time{},
		enquiries:     map[uuid.UUID]entity.Enquiry{},
		fail:          map[string]error{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *memDB) snapshot() *memDB {
	return &memDB{
		users:         cloneMap(db.users),
		sessions:      cloneMap(db.sessions),
		otps:          cloneMap(db.otps),
		profiles:      cloneMap(db.profiles),
		settings:      cloneMap(db.settings),
		notifications: cloneMap(db.notifications),
		conversations: cloneMap(db.conversations),
		messages:      cloneMap(db.messages),
		categories:    cloneMap(db.categories),
		articles:      cloneMap(db.articles),
		reads:         cloneMap(db.reads),
		enquiries:     cloneMap(db.enquiries),
		fail:          db.fail,
	}
}

func (db *memDB) restore(s *memDB) {
	*db = *s
}

func (db *memDB) err(op string) error {
	return db.fail[op]
}

func uniqueViolation(constraint string) error {
	return fmt.Errorf("failed to insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: constraint})
}

type memTx struct {
	db   *memDB
	repo *repository.Repository
}

func (t *memTx) WithinTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	snap := t.db.snapshot()
	if err := fn(t.repo); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

func newMemRepository(db *memDB) *repository.Repository {
	repo := &repository.Repository{
		User:         &memUserRepo{db},
		Session:      &memSessionRepo{db},
		OTP:          &memOTPRepo{db},
		Profile:      &memProfileRepo{db},
		Settings:     &memSettingsRepo{db},
		Notification: &memNotificationRepo{db},
		Conversation: &memConversationRepo{db},
		Message:      &memMessageRepo{db},
		Category:     &memCategoryRepo{db},
		Article:      &memArticleRepo{db},
		Enquiry:      &memEnquiryRepo{db},
	}
	repo.Tx = &memTx{db: db, repo: repo}
	return repo
}

// ==================== USERS ====================

type memUserRepo struct{ db *memDB }

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	if err := r.db.err("user.create"); err != nil {
		return err
	}
	for _, existing := range r.db.users {
		if existing.Username == u.Username {
			return uniqueViolation("users_username_key")
		}
		if existing.Email == u.Email {
			return uniqueViolation("users_email_key")
		}
	}
	r.db.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.db.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	for id, existing := range r.db.users {
		if id != u.ID && existing.Email == u.Email {
			return uniqueViolation("users_email_key")
		}
	}
	r.db.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := r.db.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash = hash
	r.db.users[id] = u
	return nil
}

func (r *memUserRepo) CountAll(context.Context) (int64, error) {
	return int64(len(r.db.users)), nil
}

// ==================== SESSIONS ====================

type memSessionRepo struct{ db *memDB }

func (r *memSessionRepo) Create(_ context.Context, s *entity.Session) error {
	if err := r.db.err("session.create"); err != nil {
		return err
	}
	r.db.sessions[s.Token] = *s
	return nil
}

func (r *memSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	s, ok := r.db.sessions[token]
	if !ok || s.RevokedAt != nil {
		return nil, nil
	}
	return &s, nil
}

func (r *memSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	s, ok := r.db.sessions[token]
	if !ok || s.RevokedAt != nil {
		return errors.New("session not found or already revoked")
	}
	now := time.Now()
	s.RevokedAt = &now
	r.db.sessions[token] = s
	return nil
}

func (r *memSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for token, s := range r.db.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			r.db.sessions[token] = s
		}
	}
	return nil
}

func (r *memSessionRepo) CleanExpiredSessions(context.Context) (int64, error) {
	return 0, nil
}

// ==================== OTP ====================

type memOTPRepo struct{ db *memDB }

func (r *memOTPRepo) Upsert(_ context.Context, otp *entity.EmailOTP) error {
	r.db.otps[otp.Email] = *otp
	return nil
}

func (r *memOTPRepo) FindByEmail(_ context.Context, email string) (*entity.EmailOTP, error) {
	if o, ok := r.db.otps[email]; ok {
		return &o, nil
	}
	return nil, nil
}

func (r *memOTPRepo) FindByEmailForUpdate(ctx context.Context, email string) (*entity.EmailOTP, error) {
	return r.FindByEmail(ctx, email)
}

func (r *memOTPRepo) IncrementAttempts(_ context.Context, email string) (int, error) {
	o, ok := r.db.otps[email]
	if !ok {
		return 0, nil
	}
	o.Attempts++
	r.db.otps[email] = o
	return o.Attempts, nil
}

func (r *memOTPRepo) Refresh(_ context.Context, email, code string) error {
	o, ok := r.db.otps[email]
	if !ok {
		return errors.New("otp not found")
	}
	o.OTPCode = code
	o.Attempts = 0
	r.db.otps[email] = o
	return nil
}

func (r *memOTPRepo) MarkVerified(_ context.Context, email string) error {
	o, ok := r.db.otps[email]
	if !ok {
		return errors.New("otp not found")
	}
	o.IsVerified = true
	r.db.otps[email] = o
	return nil
}

func (r *memOTPRepo) Delete(_ context.Context, email string) error {
	delete(r.db.otps, email)
	return nil
}

// ==================== PROFILE & SETTINGS ====================

type memProfileRepo struct{ db *memDB }

func (r *memProfileRepo) Create(_ context.Context, p *entity.Profile) error {
	if _, ok := r.db.profiles[p.UserID]; ok {
		return uniqueViolation("user_profiles_pkey")
	}
	r.db.profiles[p.UserID] = *p
	return nil
}

func (r *memProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Profile, error) {
	if p, ok := r.db.profiles[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *memProfileRepo) UpdateBio(_ context.Context, userID uuid.UUID, bio string) error {
	p := r.db.profiles[userID]
	p.Bio = bio
	r.db.profiles[userID] = p
	return nil
}

func (r *memProfileRepo) IncrementConversations(_ context.Context, userID uuid.UUID, delta int) error {
	if p, ok := r.db.profiles[userID]; ok {
		p.TotalConversations += delta
		r.db.profiles[userID] = p
	}
	return nil
}

func (r *memProfileRepo) IncrementMessages(_ context.Context, userID uuid.UUID, delta int) error {
	if err := r.db.err("profile.increment_messages"); err != nil {
		return err
	}
	if p, ok := r.db.profiles[userID]; ok {
		p.TotalMessages += delta
		r.db.profiles[userID] = p
	}
	return nil
}

func (r *memProfileRepo) MarkArticleRead(_ context.Context, userID, articleID uuid.UUID) error {
	key := [2]uuid.UUID{userID, articleID}
	if _, ok := r.db.reads[key]; !ok {
		r.db.reads[key] = time.Now()
	}
	return nil
}

func (r *memProfileRepo) CountArticlesRead(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for key := range r.db.reads {
		if key[0] == userID {
			n++
		}
	}
	return n, nil
}

type memSettingsRepo struct{ db *memDB }

func (r *memSettingsRepo) Create(_ context.Context, s *entity.Settings) error {
	if err := r.db.err("settings.create"); err != nil {
		return err
	}
	if _, ok := r.db.settings[s.UserID]; ok {
		return uniqueViolation("user_settings_pkey")
	}
	r.db.settings[s.UserID] = *s
	return nil
}

func (r *memSettingsRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Settings, error) {
	if s, ok := r.db.settings[userID]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *memSettingsRepo) Update(_ context.Context, s *entity.Settings) error {
	r.db.settings[s.UserID] = *s
	return nil
}

// ==================== NOTIFICATIONS ====================

type memNotificationRepo struct{ db *memDB }

func (r *memNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.db.notifications[n.ID] = *n
	return nil
}

func (r *memNotificationRepo) byUser(userID uuid.UUID) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range r.db.notifications {
		if n.UserID == userID {
			n := n
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memNotificationRepo) FindLatestByUser(_ context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error) {
	out := r.byUser(userID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, item := range r.byUser(userID) {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) (bool, error) {
	n, ok := r.db.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.IsRead = true
	r.db.notifications[id] = n
	return true, nil
}

func (r *memNotificationRepo) DeleteAllByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for id, item := range r.db.notifications {
		if item.UserID == userID {
			delete(r.db.notifications, id)
			n++
		}
	}
	return n, nil
}

// ==================== CHAT ====================

type memConversationRepo struct{ db *memDB }

func (r *memConversationRepo) Create(_ context.Context, c *entity.Conversation) error {
	r.db.conversations[c.ID] = *c
	return nil
}

func (r *memConversationRepo) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.Conversation, error) {
	c, ok := r.db.conversations[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return &c, nil
}

func (r *memConversationRepo) FindByUser(_ context.Context, userID uuid.UUID, limit int) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	for _, c := range r.db.conversations {
		if c.UserID == userID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memConversationRepo) Update(_ context.Context, c *entity.Conversation) error {
	r.db.conversations[c.ID] = *c
	return nil
}

func (r *memConversationRepo) Delete(_ context.Context, id, userID uuid.UUID) (bool, error) {
	c, ok := r.db.conversations[id]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(r.db.conversations, id)
	for mid, m := range r.db.messages {
		if m.ConversationID == id {
			delete(r.db.messages, mid)
		}
	}
	return true, nil
}

func (r *memConversationRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.db.conversations {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

type memMessageRepo struct{ db *memDB }

func (r *memMessageRepo) Create(_ context.Context, m *entity.Message) error {
	r.db.messages[m.ID] = *m
	return nil
}

func (r *memMessageRepo) FindByConversation(_ context.Context, conversationID uuid.UUID) ([]*entity.Message, error) {
	var out []*entity.Message
	for _, m := range r.db.messages {
		if m.ConversationID == conversationID {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memMessageRepo) FindRecent(ctx context.Context, conversationID uuid.UUID, limit int) ([]*entity.Message, error) {
	all, _ := r.FindByConversation(ctx, conversationID)
	out := make([]*entity.Message, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (r *memMessageRepo) CountByRole(ctx context.Context, conversationID uuid.UUID, role entity.MessageRole) (int64, error) {
	all, _ := r.FindByConversation(ctx, conversationID)
	var n int64
	for _, m := range all {
		if m.Role == role {
			n++
		}
	}
	return n, nil
}

// ==================== KNOWLEDGE BASE ====================

type memCategoryRepo struct{ db *memDB }

func (r *memCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.db.categories[c.ID] = *c
	return nil
}

func (r *memCategoryRepo) FindAll(context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.db.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCategoryRepo) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	for _, c := range r.db.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

type memArticleRepo struct{ db *memDB }

func (r *memArticleRepo) withCategory(a entity.Article) *entity.Article {
	if c, ok := r.db.categories[a.CategoryID]; ok {
		a.Category = &c
	}
	return &a
}

func (r *memArticleRepo) published(match func(a entity.Article) bool) []*entity.Article {
	var out []*entity.Article
	for _, a := range r.db.articles {
		if a.IsPublished && match(a) {
			out = append(out, r.withCategory(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *memArticleRepo) filter(f repository.ArticleFilter) []*entity.Article {
	return r.published(func(a entity.Article) bool {
		if f.CategorySlug != "" {
			c, ok := r.db.categories[a.CategoryID]
			if !ok || c.Slug != f.CategorySlug {
				return false
			}
		}
		if f.Query != "" {
			return containsFold(a.Title, f.Query) || containsFold(a.Description, f.Query) || containsFold(a.Content, f.Query)
		}
		return true
	})
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func (r *memArticleRepo) Create(_ context.Context, a *entity.Article) error {
	for _, existing := range r.db.articles {
		if existing.Slug == a.Slug {
			return uniqueViolation("articles_slug_key")
		}
	}
	stored := *a
	stored.Category = nil
	r.db.articles[a.ID] = stored
	return nil
}

func (r *memArticleRepo) FindPublishedBySlug(_ context.Context, slug string) (*entity.Article, error) {
	out := r.published(func(a entity.Article) bool { return a.Slug == slug })
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *memArticleRepo) FindPublished(_ context.Context, f repository.ArticleFilter, offset, limit int) ([]*entity.Article, error) {
	return page(r.filter(f), offset, limit), nil
}

func (r *memArticleRepo) CountPublished(_ context.Context, f repository.ArticleFilter) (int64, error) {
	return int64(len(r.filter(f))), nil
}

func (r *memArticleRepo) SearchPublished(_ context.Context, query string, limit int) ([]*entity.Article, error) {
	if err := r.db.err("article.search"); err != nil {
		return nil, err
	}
	return page(r.filter(repository.ArticleFilter{Query: query}), 0, limit), nil
}

func (r *memArticleRepo) FindReadByUser(_ context.Context, userID uuid.UUID, limit int) ([]*entity.Article, error) {
	var out []*entity.Article
	for key := range r.db.reads {
		if key[0] == userID {
			if a, ok := r.db.articles[key[1]]; ok {
				out = append(out, r.withCategory(a))
			}
		}
	}
	return page(out, 0, limit), nil
}

func (r *memArticleRepo) FindRelated(_ context.Context, categoryID, excludeID uuid.UUID, limit int) ([]*entity.Article, error) {
	return page(r.published(func(a entity.Article) bool {
		return a.CategoryID == categoryID && a.ID != excludeID
	}), 0, limit), nil
}

func (r *memArticleRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	a := r.db.articles[id]
	a.Views++
	r.db.articles[id] = a
	return nil
}

func (r *memArticleRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, a := range r.db.articles {
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// ==================== ENQUIRIES ====================

type memEnquiryRepo struct{ db *memDB }

func (r *memEnquiryRepo) Create(_ context.Context, e *entity.Enquiry) error {
	r.db.enquiries[e.ID] = *e
	return nil
}

func (r *memEnquiryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Enquiry, error) {
	if e, ok := r.db.enquiries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r *memEnquiryRepo) matching(status *string) []*entity.Enquiry {
	var out []*entity.Enquiry
	for _, e := range r.db.enquiries {
		if status == nil || string(e.Status) == *status {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memEnquiryRepo) FindAll(_ context.Context, status *string, offset, limit int) ([]*entity.Enquiry, error) {
	return page(r.matching(status), offset, limit), nil
}

func (r *memEnquiryRepo) CountAll(_ context.Context, status *string) (int64, error) {
	return int64(len(r.matching(status))), nil
}

func (r *memEnquiryRepo) Update(_ context.Context, e *entity.Enquiry) error {
	r.db.enquiries[e.ID] = *e
	return nil
}

// ==================== COLLABORATORS ====================

type fakeQueue struct {
	jobs []mailer.Job
	err  error
}

func (q *fakeQueue) Submit(job mailer.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type fakeLimiter struct {
	err   error
	calls int
}

func (l *fakeLimiter) Allow(context.Context, string) error {
	l.calls++
	return l.err
}

type stubProvider struct {
	reply   string
	err     error
	prompts []string
}

func (p *stubProvider) Model() string { return "stub" }

func (p *stubProvider) Generate(_ context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	return p.reply, p.err
}

func (p *stubProvider) ListModels(context.Context) ([]string, error) { return nil, nil }

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// ==================== HARNESS ====================

type harness struct {
	db       *memDB
	repo     *repository.Repository
	mail     *fakeQueue
	limiter  *fakeLimiter
	provider *stubProvider
	clock    *testClock
	svc      *Service
}

type harnessOption func(*harness, *Deps)

// withProvider switches the gateway out of demo mode.
func withProvider(p *stubProvider) harnessOption {
	return func(h *harness, d *Deps) {
		h.provider = p
		d.Gateway = assistant.NewGateway("test-key", p, zap.NewNop())
	}
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	db := newMemDB()
	h := &harness{
		db:      db,
		repo:    newMemRepository(db),
		mail:    &fakeQueue{},
		limiter: &fakeLimiter{},
		clock:   &testClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
	}

	cfg := &utils.Config{
		App:     utils.AppConfig{Name: "AI Knowledge Assistant", SiteURL: "http://localhost:8080"},
		Session: utils.SessionConfig{ExpiryHours: 24},
		Email:   utils.EmailConfig{AdminEmail: "admin@x.com", SupportEmail: "support@x.com"},
	}

	deps := Deps{
		Repo:    h.repo,
		Config:  cfg,
		Mail:    h.mail,
		Limiter: h.limiter,
		Gateway: assistant.NewGateway("", nil, zap.NewNop()),
		Log:     zap.NewNop(),
		Now:     h.clock.Now,
	}
	for _, opt := range opts {
		opt(h, &deps)
	}

	h.svc = NewService(deps)
	return h
}
