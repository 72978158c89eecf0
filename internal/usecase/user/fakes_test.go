package user

import (
	"bytes"
	"context"
	"errors"
	domainUser "estate-brokerage/internal/domain/user"
	appErrors "estate-brokerage/pkg/errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memoryRepository mirrors the guarded updates of the database backends.
type memoryRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domainUser.User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[uuid.UUID]*domainUser.User)}
}

func clone(u *domainUser.User) *domainUser.User {
	c := *u
	if u.Verification != nil {
		v := *u.Verification
		c.Verification = &v
	}
	return &c
}

func (r *memoryRepository) find(match func(*domainUser.User) bool) *domainUser.User {
	for _, u := range r.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func (r *memoryRepository) Create(_ context.Context, user *domainUser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domainUser.ErrEmailTaken
		}
		if u.Username == user.Username {
			return domainUser.ErrUsernameTaken
		}
	}
	r.users[user.ID] = clone(user)
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return domainUser.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, userID uuid.UUID) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *memoryRepository) lookup(match func(*domainUser.User) bool) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(match)
	if u == nil {
		return nil, domainUser.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	return r.lookup(func(u *domainUser.User) bool { return u.Email == email })
}

func (r *memoryRepository) GetByIdentifier(_ context.Context, identifier string) (*domainUser.User, error) {
	email := strings.ToLower(identifier)
	return r.lookup(func(u *domainUser.User) bool { return u.Email == email || u.Username == identifier })
}

func (r *memoryRepository) FindByEmailOrUsername(_ context.Context, email, username string) (*domainUser.User, error) {
	return r.lookup(func(u *domainUser.User) bool { return u.Email == email || u.Username == username })
}

func (r *memoryRepository) GetByRefreshTokenHash(_ context.Context, hash string) (*domainUser.User, error) {
	return r.lookup(func(u *domainUser.User) bool { return hash != "" && u.RefreshTokenHash == hash })
}

func (r *memoryRepository) GetAll(_ context.Context) ([]*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*domainUser.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, clone(u))
	}
	return users, nil
}

// update applies fn under the lock when guard holds for the identity.
func (r *memoryRepository) update(match func(*domainUser.User) bool, guard func(*domainUser.User) bool, fn func(*domainUser.User)) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(match)
	if u == nil {
		return nil, domainUser.ErrUserNotFound
	}
	if guard != nil && !guard(u) {
		return nil, domainUser.ErrNoMatch
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return clone(u), nil
}

func byID(id uuid.UUID) func(*domainUser.User) bool {
	return func(u *domainUser.User) bool { return u.ID == id }
}

func (r *memoryRepository) SetVerification(_ context.Context, userID uuid.UUID, pending *domainUser.PendingVerification) error {
	_, err := r.update(byID(userID),
		func(u *domainUser.User) bool { return !u.IsVerified },
		func(u *domainUser.User) { u.Verification = pending },
	)
	return err
}

func (r *memoryRepository) ConsumeOTP(_ context.Context, email, code string, now time.Time) (*domainUser.User, error) {
	return r.update(func(u *domainUser.User) bool { return u.Email == email },
		func(u *domainUser.User) bool { return u.PendingOTP(code, now) },
		func(u *domainUser.User) {
			u.IsVerified = true
			u.Verification = nil
		},
	)
}

func (r *memoryRepository) ConsumeVerificationToken(_ context.Context, tokenHash string) (*domainUser.User, error) {
	return r.update(func(u *domainUser.User) bool {
		return !u.IsVerified && u.Verification != nil &&
			u.Verification.Kind == domainUser.VerificationEmailToken && u.Verification.Secret == tokenHash
	}, nil, func(u *domainUser.User) {
		u.IsVerified = true
		u.Verification = nil
	})
}

func (r *memoryRepository) ClaimFederated(_ context.Context, userID uuid.UUID, passwordHash string) (*domainUser.User, error) {
	return r.update(byID(userID),
		func(u *domainUser.User) bool { return !u.IsVerified },
		func(u *domainUser.User) {
			u.IsVerified = true
			u.Verification = nil
			u.PasswordHashed = passwordHash
			u.RefreshTokenHash = ""
			u.ResetCode = ""
			u.ResetExpiresAt = nil
		},
	)
}

func (r *memoryRepository) SetRefreshToken(_ context.Context, userID uuid.UUID, hash string) error {
	_, err := r.update(byID(userID), nil, func(u *domainUser.User) { u.RefreshTokenHash = hash })
	return err
}

func (r *memoryRepository) SwapRefreshToken(_ context.Context, userID uuid.UUID, oldHash, newHash string) error {
	_, err := r.update(byID(userID),
		func(u *domainUser.User) bool { return u.RefreshTokenHash == oldHash },
		func(u *domainUser.User) { u.RefreshTokenHash = newHash },
	)
	return err
}

func (r *memoryRepository) ClearRefreshToken(_ context.Context, userID uuid.UUID, hash string) error {
	_, err := r.update(byID(userID),
		func(u *domainUser.User) bool { return u.RefreshTokenHash == hash },
		func(u *domainUser.User) { u.RefreshTokenHash = "" },
	)
	return err
}

func (r *memoryRepository) SetResetCode(_ context.Context, userID uuid.UUID, code string, expiresAt time.Time) error {
	_, err := r.update(byID(userID), nil, func(u *domainUser.User) {
		u.ResetCode = code
		u.ResetExpiresAt = &expiresAt
	})
	return err
}

func (r *memoryRepository) ResetPassword(_ context.Context, email, code string, now time.Time, passwordHash string) (*domainUser.User, error) {
	return r.update(func(u *domainUser.User) bool { return u.Email == email },
		func(u *domainUser.User) bool { return u.ResetCodeValid(code, now) },
		func(u *domainUser.User) {
			u.PasswordHashed = passwordHash
			u.ResetCode = ""
			u.ResetExpiresAt = nil
			u.RefreshTokenHash = ""
		},
	)
}

func (r *memoryRepository) ClearExpiredCodes(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cleared int64
	for _, u := range r.users {
		touched := false
		if v := u.Verification; v != nil && v.ExpiresAt != nil && !now.Before(*v.ExpiresAt) {
			u.Verification = nil
			touched = true
		}
		if u.ResetExpiresAt != nil && !now.Before(*u.ResetExpiresAt) {
			u.ResetCode = ""
			u.ResetExpiresAt = nil
			touched = true
		}
		if touched {
			cleared++
		}
	}
	return cleared, nil
}

func (r *memoryRepository) Ping(context.Context) error { return nil }

// racingRepository hides existing identities from the pre-insert lookup, as a
// concurrent registration would.
type racingRepository struct {
	*memoryRepository
}

func (r *racingRepository) FindByEmailOrUsername(context.Context, string, string) (*domainUser.User, error) {
	return nil, domainUser.ErrUserNotFound
}

type sentMessage struct {
	Kind string
	To   string
	Body string
}

// recordingNotifier keeps every message; fail makes the next sends error.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	fail error
}

func (n *recordingNotifier) record(kind, to, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, sentMessage{Kind: kind, To: to, Body: body})
	return nil
}

func (n *recordingNotifier) SendVerificationOTP(_ context.Context, to, _, code string, _ time.Duration) error {
	return n.record("otp", to, code)
}

func (n *recordingNotifier) SendVerificationLink(_ context.Context, to, _, link string) error {
	return n.record("link", to, link)
}

func (n *recordingNotifier) SendPasswordResetCode(_ context.Context, to, _, code string, _ time.Duration) error {
	return n.record("reset", to, code)
}

func (n *recordingNotifier) last(kind string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Kind == kind {
			return n.sent[i].Body
		}
	}
	return ""
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Verify(ctx context.Context, token string) (*domainUser.FederatedProfile, error) {
	args := m.Called(ctx, token)
	if profile := args.Get(0); profile != nil {
		return profile.(*domainUser.FederatedProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

type memoryImageStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryImageStore() *memoryImageStore {
	return &memoryImageStore{files: make(map[string][]byte)}
}

func (s *memoryImageStore) Save(_ context.Context, data []byte, _, extension string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := uuid.NewString() + extension
	s.files[name] = append([]byte(nil), data...)
	return name, nil
}

func (s *memoryImageStore) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.files[name]
	if !ok {
		return nil, "", appErrors.ErrImageNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), "image/png", nil
}

func (s *memoryImageStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[name]; !ok {
		return errors.New("no such file")
	}
	delete(s.files, name)
	return nil
}

func (s *memoryImageStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domainUser.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event domainUser.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}
