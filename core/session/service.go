package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/lms"
)

var (
	// errors
	ErrNotFound = errors.New("session not found")
	ErrIDTaken  = errors.New("session id already in use")

	newID = func() string { return uuid.New().String() } // mockable
)

const maxIDAttempts = 3

type (
	// Session ties an opaque identifier to an authenticated account.
	Session struct {
		ID        string
		Account   lms.Client
		User      lms.User
		CanvasURL string
		CreatedAt time.Time
	}

	Repository interface {
		// SaveSession stores s, failing if its ID is taken.
		SaveSession(s Session) error
		GetSessionByID(id string) (Session, error)
		// DeleteSession removes the session if present.
		DeleteSession(id string) error
		CountSessions() int
	}

	Service struct {
		repo Repository
		ttl  time.Duration
	}
)

// NewService creates a session Service. A zero ttl keeps sessions until they are destroyed.
func NewService(repo Repository, ttl time.Duration) *Service {
	return &Service{repo: repo, ttl: ttl}
}

// Create opens a new session for the account and returns it.
func (svc *Service) Create(account lms.Client, usr lms.User, canvasURL string) (Session, error) {
	s := Session{
		Account:   account,
		User:      usr,
		CanvasURL: canvasURL,
		CreatedAt: core.NowFunc().UTC(),
	}
	var err error
	for i := 0; i < maxIDAttempts; i++ {
		s.ID = newID()
		if err = svc.repo.SaveSession(s); err != ErrIDTaken {
			break
		}
	}
	if err != nil {
		return Session{}, err
	}
	return s, nil
}

// Resolve looks a session up. Unknown and expired ids yield ErrNotFound.
func (svc *Service) Resolve(id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNotFound
	}
	s, err := svc.repo.GetSessionByID(id)
	if err != nil {
		return Session{}, err
	}
	if svc.ttl > 0 && core.NowFunc().After(s.CreatedAt.Add(svc.ttl)) {
		_ = svc.repo.DeleteSession(id)
		return Session{}, ErrNotFound
	}
	return s, nil
}

// Destroy removes the session. Destroying an unknown id is not an error.
func (svc *Service) Destroy(id string) error {
	if id == "" {
		return nil
	}
	return svc.repo.DeleteSession(id)
}

// Count returns the number of live sessions.
func (svc *Service) Count() int {
	return svc.repo.CountSessions()
}
