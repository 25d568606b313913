package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"member_directory/internal/model"
	"member_directory/internal/repository"

	"github.com/google/uuid"
)

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	err      error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*model.Account{}}
}

func (r *fakeAccountRepo) Create(_ context.Context, a *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if a, ok := r.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeAccountRepo) UpdatePassword(_ context.Context, id, hash string, temporary bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return errors.New("account not found")
	}
	a.PasswordHash = hash
	a.IsTempPassword = temporary
	return nil
}

func (r *fakeAccountRepo) get(id string) model.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.accounts[id]
}

// fakeOTPRepo mirrors the SQL semantics of the postgres repository
type fakeOTPRepo struct {
	mu   sync.Mutex
	otps []*model.PasswordResetOTP
}

func (r *fakeOTPRepo) Create(_ context.Context, otp *model.PasswordResetOTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if otp.ID == "" {
		otp.ID = uuid.NewString()
	}
	cp := *otp
	r.otps = append(r.otps, &cp)
	return nil
}

func (r *fakeOTPRepo) FindLatestValid(_ context.Context, userID string, now time.Time) (*model.PasswordResetOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []*model.PasswordResetOTP
	for _, o := range r.otps {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	if len(mine) == 0 {
		return nil, nil
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	latest := *mine[0]
	if !latest.ValidAt(now) {
		return nil, nil
	}
	return &latest, nil
}

func (r *fakeOTPRepo) Claim(_ context.Context, id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.otps {
		if o.ID == id && !o.Used && now.Before(o.ExpiresAt) {
			o.Used = true
			return true, nil
		}
	}
	return false, nil
}

type sentMail struct {
	to     string
	secret string
}

type fakeMailer struct {
	mu          sync.Mutex
	otps        []sentMail
	passwords   []sentMail
	otpErr      error
	passwordErr error
	delay       time.Duration
}

func (m *fakeMailer) SendOTP(ctx context.Context, to, otp string, _ time.Duration) error {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.otpErr != nil {
		return m.otpErr
	}
	m.otps = append(m.otps, sentMail{to, otp})
	return nil
}

func (m *fakeMailer) SendTemporaryPassword(_ context.Context, to, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.passwordErr != nil {
		return m.passwordErr
	}
	m.passwords = append(m.passwords, sentMail{to, password})
	return nil
}

func (m *fakeMailer) lastPassword() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.passwords) == 0 {
		return ""
	}
	return m.passwords[len(m.passwords)-1].secret
}
