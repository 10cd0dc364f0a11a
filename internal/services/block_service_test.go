package services

import (
	"context"
	"testing"

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

// BlockServiceTestSuite is the test suite for BlockService
type BlockServiceTestSuite struct {
	suite.Suite
	db    *gorm.DB
	svc   BlockService
	alice *models.User
	bob   *models.User
}

// SetupSuite runs once before all tests
func (s *BlockServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(s.T(), err)

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(&models.User{}, &models.Block{})
	require.NoError(s.T(), err)

	s.db = db
	s.svc = NewBlockService(repository.NewBlockRepository(db), repository.NewUserRepository(db))
}

// TearDownSuite runs once after all tests
func (s *BlockServiceTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *BlockServiceTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM blocks")
	s.db.Exec("DELETE FROM users")

	s.alice = &models.User{Email: "alice@clinic.example", Role: models.RoleBuyer}
	s.bob = &models.User{Email: "bob@supplier.example", Role: models.RoleSeller}
	require.NoError(s.T(), s.db.Create(s.alice).Error)
	require.NoError(s.T(), s.db.Create(s.bob).Error)
}

// TestBlockServiceTestSuite runs the test suite
func TestBlockServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BlockServiceTestSuite))
}

// ==================== Block Tests ====================

func (s *BlockServiceTestSuite) TestBlock_Success() {
	block, err := s.svc.Block(context.Background(), s.alice.ID, s.bob.ID, "unsolicited offers")
	require.NoError(s.T(), err)

	assert.NotZero(s.T(), block.ID)
	assert.True(s.T(), block.IsActive)
	assert.Equal(s.T(), "unsolicited offers", block.Reason)
}

func (s *BlockServiceTestSuite) TestBlock_Self() {
	_, err := s.svc.Block(context.Background(), s.alice.ID, s.alice.ID, "")
	assert.ErrorIs(s.T(), err, apperrors.ErrInvalidInput)
}

func (s *BlockServiceTestSuite) TestBlock_UnknownUser() {
	_, err := s.svc.Block(context.Background(), s.alice.ID, 9999, "")
	assert.ErrorIs(s.T(), err, apperrors.ErrUserNotFound)
}

func (s *BlockServiceTestSuite) TestBlock_Duplicate() {
	_, err := s.svc.Block(context.Background(), s.alice.ID, s.bob.ID, "")
	require.NoError(s.T(), err)

	_, err = s.svc.Block(context.Background(), s.alice.ID, s.bob.ID, "")
	assert.ErrorIs(s.T(), err, apperrors.ErrAlreadyBlocked)
}

// ==================== Unblock Tests ====================

func (s *BlockServiceTestSuite) TestUnblock_Success() {
	_, err := s.svc.Block(context.Background(), s.alice.ID, s.bob.ID, "")
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.svc.Unblock(context.Background(), s.alice.ID, s.bob.ID))

	blocking, err := s.svc.IsBlocking(context.Background(), s.alice.ID, s.bob.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), blocking)
}

func (s *BlockServiceTestSuite) TestUnblock_SecondCallNotFound() {
	_, err := s.svc.Block(context.Background(), s.alice.ID, s.bob.ID, "")
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.svc.Unblock(context.Background(), s.alice.ID, s.bob.ID))

	err = s.svc.Unblock(context.Background(), s.alice.ID, s.bob.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrBlockNotFound)
}

func (s *BlockServiceTestSuite) TestUnblock_NoBlock() {
	err := s.svc.Unblock(context.Background(), s.alice.ID, s.bob.ID)
	assert.ErrorIs(s.T(), err, apperrors.ErrBlockNotFound)
}

// ==================== Query Tests ====================

func (s *BlockServiceTestSuite) TestExistsEitherDirection() {
	_, err := s.svc.Block(context.Background(), s.bob.ID, s.alice.ID, "")
	require.NoError(s.T(), err)

	exists, err := s.svc.ExistsEitherDirection(context.Background(), s.alice.ID, s.bob.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), exists)
}

func (s *BlockServiceTestSuite) TestBlockCycle_FreshRowPerCycle() {
	first, err := s.svc.Block(context.Background(), s.alice.ID, s.bob.ID, "round one")
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.svc.Unblock(context.Background(), s.alice.ID, s.bob.ID))

	second, err := s.svc.Block(context.Background(), s.alice.ID, s.bob.ID, "round two")
	require.NoError(s.T(), err)
	assert.NotEqual(s.T(), first.ID, second.ID)

	blocks, err := s.svc.ListBlocks(context.Background(), s.alice.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), blocks, 1)
	assert.Equal(s.T(), "round two", blocks[0].Reason)
}
