package repositories_test

import (
	"testing"

	"estatelink_backend/internal/models"
	"estatelink_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createNotification(t *testing.T, db *gorm.DB, repo repositories.NotificationRepository, userID string, notifType models.NotificationType, isRead bool) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID:  userID,
		Message: "test",
		Type:    notifType,
		IsRead:  isRead,
	}
	require.NoError(t, repo.Create(db, n))
	return n
}

func TestAdjustCounter_IncrementAndClamp(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewNotificationRepository()

	// Первый инкремент создает строку
	require.NoError(t, repo.AdjustCounter(db, "user-1", 2, 1))

	counter, err := repo.GetCounter(db, "user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, counter.Count)
	assert.EqualValues(t, 1, counter.MessageCount)

	// Декремент ниже нуля прижимается к нулю
	require.NoError(t, repo.AdjustCounter(db, "user-1", -5, -1))

	counter, err = repo.GetCounter(db, "user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, counter.Count)
	assert.EqualValues(t, 0, counter.MessageCount)
}

func TestGetCounter_MissingRowIsZero(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewNotificationRepository()

	counter, err := repo.GetCounter(db, "nobody")
	require.NoError(t, err)
	assert.EqualValues(t, 0, counter.Count)
	assert.EqualValues(t, 0, counter.MessageCount)

	// Чтение не создает строку
	var count int64
	db.Model(&models.NotificationCounter{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestFindUnreadOwned_FiltersForeignAndRead(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewNotificationRepository()

	unread := createNotification(t, db, repo, "user-1", models.NotificationTypeGeneral, false)
	read := createNotification(t, db, repo, "user-1", models.NotificationTypeGeneral, true)
	foreign := createNotification(t, db, repo, "user-2", models.NotificationTypeGeneral, false)

	found, err := repo.FindUnreadOwned(db, "user-1", []string{unread.ID, read.ID, foreign.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, unread.ID, found[0].ID)
}

// Строки без типа (до разделения счетчиков) попадают в general-выборку.
func TestMarkReadByType_LegacyEmptyType(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewNotificationRepository()

	legacy := createNotification(t, db, repo, "user-1", "", false)
	general := createNotification(t, db, repo, "user-1", models.NotificationTypeGeneral, false)
	message := createNotification(t, db, repo, "user-1", models.NotificationTypeMessage, false)

	affected, err := repo.MarkReadByType(db, "user-1", models.NotificationTypeGeneral)
	require.NoError(t, err)
	assert.Len(t, affected, 2)

	ids := []string{affected[0].ID, affected[1].ID}
	assert.ElementsMatch(t, []string{legacy.ID, general.ID}, ids)

	// message-уведомление не тронуто
	found, err := repo.FindByID(db, message.ID)
	require.NoError(t, err)
	assert.False(t, found.IsRead)

	// Повторный вызов ничего не выбирает
	affected, err = repo.MarkReadByType(db, "user-1", models.NotificationTypeGeneral)
	require.NoError(t, err)
	assert.Empty(t, affected)
}

func TestMarkReadAndUnread(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewNotificationRepository()

	n := createNotification(t, db, repo, "user-1", models.NotificationTypeGeneral, false)

	require.NoError(t, repo.MarkRead(db, []string{n.ID}))
	found, err := repo.FindByID(db, n.ID)
	require.NoError(t, err)
	assert.True(t, found.IsRead)
	assert.NotNil(t, found.ReadAt)

	require.NoError(t, repo.MarkUnread(db, []string{n.ID}))
	found, err = repo.FindByID(db, n.ID)
	require.NoError(t, err)
	assert.False(t, found.IsRead)
	assert.Nil(t, found.ReadAt)
}

func TestDeleteByIDs(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewNotificationRepository()

	n := createNotification(t, db, repo, "user-1", models.NotificationTypeGeneral, false)
	keep := createNotification(t, db, repo, "user-1", models.NotificationTypeGeneral, false)

	require.NoError(t, repo.DeleteByIDs(db, []string{n.ID}))

	_, err := repo.FindByID(db, n.ID)
	assert.ErrorIs(t, err, repositories.ErrNotificationNotFound)

	_, err = repo.FindByID(db, keep.ID)
	assert.NoError(t, err)
}
