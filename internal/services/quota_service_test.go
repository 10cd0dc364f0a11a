package services

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/medimarkt/medimarkt-backend/internal/errors"
	"github.com/medimarkt/medimarkt-backend/internal/models"
	"github.com/medimarkt/medimarkt-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// QuotaServiceTestSuite is the test suite for QuotaService
type QuotaServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	svc  QuotaService
	now  time.Time
	user *models.User
}

// SetupSuite runs once before all tests
func (s *QuotaServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(s.T(), err)

	err = db.AutoMigrate(&models.User{}, &models.Plan{}, &models.Subscription{})
	require.NoError(s.T(), err)

	s.db = db
	s.now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s.svc = NewQuotaServiceWithClock(repository.NewSubscriptionRepository(db), func() time.Time { return s.now })
}

// TearDownSuite runs once after all tests
func (s *QuotaServiceTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *QuotaServiceTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM subscriptions")
	s.db.Exec("DELETE FROM users")

	s.user = &models.User{Email: "buyer@clinic.example", Role: models.RoleBuyer}
	require.NoError(s.T(), s.db.Create(s.user).Error)
}

// TestQuotaServiceTestSuite runs the test suite
func TestQuotaServiceTestSuite(t *testing.T) {
	suite.Run(t, new(QuotaServiceTestSuite))
}

// newSubscription inserts a subscription in the given billing state
func (s *QuotaServiceTestSuite) newSubscription(status models.SubscriptionStatus, limit, used int, periodEnd time.Time) *models.Subscription {
	sub := &models.Subscription{
		UserID:          s.user.ID,
		PlanID:          1,
		Status:          status,
		ConnectionLimit: limit,
		ConnectionsUsed: used,
		PeriodStart:     s.now.AddDate(0, -1, 0),
		PeriodEnd:       periodEnd,
	}
	require.NoError(s.T(), s.db.Create(sub).Error)
	return sub
}

// ==================== EffectiveStatus Tests ====================

func (s *QuotaServiceTestSuite) TestEffectiveStatus_Active() {
	sub := s.newSubscription(models.SubscriptionStatusActive, 5, 0, s.now.AddDate(0, 1, 0))

	status, err := s.svc.EffectiveStatus(context.Background(), sub.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), EffectiveActive, status)
}

func (s *QuotaServiceTestSuite) TestEffectiveStatus_CancelledWithinPeriod() {
	sub := s.newSubscription(models.SubscriptionStatusCancelled, 5, 0, s.now.Add(time.Hour))

	status, err := s.svc.EffectiveStatus(context.Background(), sub.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), EffectiveActive, status)
}

func (s *QuotaServiceTestSuite) TestEffectiveStatus_CancelledPastPeriod() {
	sub := s.newSubscription(models.SubscriptionStatusCancelled, 5, 0, s.now.Add(-time.Hour))

	status, err := s.svc.EffectiveStatus(context.Background(), sub.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), EffectiveExpired, status)
}

func (s *QuotaServiceTestSuite) TestEffectiveStatus_Expired() {
	// An expired billing status is expired even inside the period window
	sub := s.newSubscription(models.SubscriptionStatusExpired, 5, 0, s.now.AddDate(0, 1, 0))

	status, err := s.svc.EffectiveStatus(context.Background(), sub.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), EffectiveExpired, status)
}

// ==================== HasRemainingQuota Tests ====================

func (s *QuotaServiceTestSuite) TestHasRemainingQuota() {
	sub := s.newSubscription(models.SubscriptionStatusActive, 2, 1, s.now.AddDate(0, 1, 0))

	ok, err := s.svc.HasRemainingQuota(context.Background(), sub.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)

	s.db.Model(sub).Update("connections_used", 2)
	ok, err = s.svc.HasRemainingQuota(context.Background(), sub.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *QuotaServiceTestSuite) TestHasRemainingQuota_ExpiredAlwaysFalse() {
	sub := s.newSubscription(models.SubscriptionStatusExpired, 5, 0, s.now.AddDate(0, 1, 0))

	ok, err := s.svc.HasRemainingQuota(context.Background(), sub.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *QuotaServiceTestSuite) TestHasRemainingQuota_Unlimited() {
	sub := s.newSubscription(models.SubscriptionStatusActive, models.UnlimitedConnections, 10000, s.now.AddDate(0, 1, 0))

	ok, err := s.svc.HasRemainingQuota(context.Background(), sub.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)
}

// ==================== ConsumeOne Tests ====================

func (s *QuotaServiceTestSuite) TestConsumeOne_Success() {
	sub := s.newSubscription(models.SubscriptionStatusActive, 3, 0, s.now.AddDate(0, 1, 0))

	used, err := s.svc.ConsumeOne(context.Background(), sub.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, used)
}

func (s *QuotaServiceTestSuite) TestConsumeOne_Exhausted() {
	sub := s.newSubscription(models.SubscriptionStatusActive, 1, 1, s.now.AddDate(0, 1, 0))

	_, err := s.svc.ConsumeOne(context.Background(), sub.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrQuotaExceeded)
}

func (s *QuotaServiceTestSuite) TestConsumeOne_ExpiredSubscription() {
	sub := s.newSubscription(models.SubscriptionStatusExpired, 5, 0, s.now.AddDate(0, 1, 0))

	_, err := s.svc.ConsumeOne(context.Background(), sub.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrSubscriptionRequired)
}

func (s *QuotaServiceTestSuite) TestConsumeOne_NotFound() {
	_, err := s.svc.ConsumeOne(context.Background(), 9999)
	assert.ErrorIs(s.T(), err, apperrors.ErrSubscriptionRequired)
}

// ==================== SnapshotForUser Tests ====================

func (s *QuotaServiceTestSuite) TestSnapshotForUser() {
	sub := s.newSubscription(models.SubscriptionStatusActive, 10, 3, s.now.AddDate(0, 1, 0))

	snapshot, err := s.svc.SnapshotForUser(context.Background(), s.user.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), sub.ID, snapshot.SubscriptionID)
	assert.Equal(s.T(), EffectiveActive, snapshot.Status)
	assert.Equal(s.T(), 10, snapshot.ConnectionLimit)
	assert.Equal(s.T(), 3, snapshot.ConnectionsUsed)
	assert.False(s.T(), snapshot.Unlimited)
}

func (s *QuotaServiceTestSuite) TestSnapshotForUser_NoSubscription() {
	_, err := s.svc.SnapshotForUser(context.Background(), 9999)
	assert.ErrorIs(s.T(), err, apperrors.ErrSubscriptionRequired)
}
