package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/chirps-api/internal/auth"
	"github.com/straye-as/chirps-api/internal/domain"
	"github.com/straye-as/chirps-api/internal/repository"
	"github.com/straye-as/chirps-api/internal/service"
	"github.com/straye-as/chirps-api/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func userContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.Name,
		Email:       user.Email,
	})
}

func systemContext() context.Context {
	return auth.WithUserContext(context.Background(), auth.NewSystemContext())
}

// recordingInvalidator remembers which dashboards were invalidated
type recordingInvalidator struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userIDs ...uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, userIDs...)
}

func (r *recordingInvalidator) invalidated() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.calls...)
}

// recordingPublisher captures realtime pushes
type recordingPublisher struct {
	mu       sync.Mutex
	messages map[uuid.UUID][]interface{}
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{messages: make(map[uuid.UUID][]interface{})}
}

func (p *recordingPublisher) Publish(userID uuid.UUID, v interface{}) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[userID] = append(p.messages[userID], v)
	return 1
}

func (p *recordingPublisher) count(userID uuid.UUID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages[userID])
}

type serviceFixture struct {
	db            *gorm.DB
	invalidator   *recordingInvalidator
	publisher     *recordingPublisher
	notifications *service.NotificationService
}

func setupServiceFixture(t *testing.T) *serviceFixture {
	db := testutil.SetupTestDB(t)
	publisher := newRecordingPublisher()
	return &serviceFixture{
		db:            db,
		invalidator:   &recordingInvalidator{},
		publisher:     publisher,
		notifications: service.NewNotificationService(repository.NewNotificationRepository(db), publisher, zap.NewNop()),
	}
}

func (f *serviceFixture) chirpService() *service.ChirpService {
	return service.NewChirpService(repository.NewChirpRepository(f.db), f.invalidator, zap.NewNop())
}

func (f *serviceFixture) reactionService() *service.ReactionService {
	return service.NewReactionService(
		repository.NewReactionRepository(f.db),
		repository.NewChirpRepository(f.db),
		f.notifications,
		f.invalidator,
		zap.NewNop(),
	)
}

func (f *serviceFixture) commentService() *service.CommentService {
	return service.NewCommentService(
		repository.NewCommentRepository(f.db),
		repository.NewChirpRepository(f.db),
		f.notifications,
		f.invalidator,
		zap.NewNop(),
	)
}

func (f *serviceFixture) countNotifications(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&domain.Notification{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func testHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}
