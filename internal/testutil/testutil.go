// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"movein-backend/config"
	"movein-backend/db/models"
	"movein-backend/middleware"
	"movein-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an in-memory SQLite database migrated with the production models.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(config.AllModels...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func CreateProfile(t *testing.T, db *gorm.DB, name, email string, role models.Role) *models.Profile {
	t.Helper()

	p := &models.Profile{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
		Phone: "010-0000-0000",
		Role:  role,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}
	return p
}

// MemoryStore is an in-process SessionStore.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]memoryEntry
}

type memoryEntry struct {
	value   string
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok || (!e.expires.IsZero() && time.Now().After(e.expires)) {
		return "", middleware.ErrSessionNotFound
	}
	return e.value, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *MemoryStore) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) GetDel(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	delete(s.data, key)
	if !ok || (!e.expires.IsZero() && time.Now().After(e.expires)) {
		return "", middleware.ErrSessionNotFound
	}
	return e.value, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// RecordingNotifier captures outbound notifications instead of delivering them.
type RecordingNotifier struct {
	mu                 sync.Mutex
	Verifications      []string
	VerificationLinks  []string
	DecidedCards       []models.MoveInCard
	AnsweredComplaints []models.Complaint
	PublishedNotices   []models.Notice
}

func (n *RecordingNotifier) VerificationRequested(ctx context.Context, email, name, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Verifications = append(n.Verifications, email)
	n.VerificationLinks = append(n.VerificationLinks, link)
	return nil
}

func (n *RecordingNotifier) CardDecided(ctx context.Context, card *models.MoveInCard) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.DecidedCards = append(n.DecidedCards, *card)
	return nil
}

func (n *RecordingNotifier) ComplaintAnswered(ctx context.Context, complaint *models.Complaint, recipient *models.Profile) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.AnsweredComplaints = append(n.AnsweredComplaints, *complaint)
	return nil
}

func (n *RecordingNotifier) NoticePublished(ctx context.Context, notice *models.Notice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.PublishedNotices = append(n.PublishedNotices, *notice)
	return nil
}

// AuthAs stands in for ProtectedRoute and authenticates every request as profile.
func AuthAs(profile *models.Profile) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", &token.Payload{ID: uuid.New(), UserID: profile.ID, Email: profile.Email})
		c.Locals("profile", profile)
		return c.Next()
	}
}

// TestProfileHeader selects the caller for AuthByHeader.
const TestProfileHeader = "X-Test-Profile"

// AuthByHeader authenticates each request as the profile whose id is in
// TestProfileHeader. Requests without a known id get 401.
func AuthByHeader(profiles ...*models.Profile) fiber.Handler {
	byID := make(map[string]*models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID.String()] = p
	}
	return func(c *fiber.Ctx) error {
		p, ok := byID[c.Get(TestProfileHeader)]
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
				"error":   "Authentication required",
			})
		}
		return AuthAs(p)(c)
	}
}
