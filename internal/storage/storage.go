package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"dategogo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Store is the persistence surface the live-messaging core depends on.
// Messages and profiles live in PostgreSQL; presence hints and the ban
// blacklist live in Redis.
type Store interface {
	SaveMessage(msg *models.ChatMessage) error
	GetChatHistory(userID1, userID2 int64, page, size int) ([]models.ChatMessage, error)
	MarkAsRead(toUserID, fromUserID int64) error
	GetUnreadCount(userID int64) (int64, error)
	GetChatContacts(userID int64) ([]models.ChatContact, error)

	GetUserProfile(userID int64) (*models.User, error)
	IsUserBanned(userID int64) (bool, error)

	SetUserOnline(userID int64) error
	RefreshUserOnline(userID int64) error
	SetUserOffline(userID int64) error
}

// Service implements Store on top of GORM and go-redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context

	// OnlineTTL bounds how long a Redis presence key outlives its last
	// heartbeat refresh.
	OnlineTTL time.Duration
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client, onlineTTL time.Duration) *Service {
	return &Service{
		DB:        db,
		Redis:     rdb,
		Ctx:       context.Background(),
		OnlineTTL: onlineTTL,
	}
}

// SaveMessage inserts the message into PostgreSQL. GORM fills msg.ID and
// msg.CreatedAt on success.
func (s *Service) SaveMessage(msg *models.ChatMessage) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message %d -> %d: %v", msg.FromUserID, msg.ToUserID, err)
		return err
	}
	return nil
}

// GetChatHistory returns one page of the conversation between the two users,
// both directions, oldest first. Page numbers start at 1.
func (s *Service) GetChatHistory(userID1, userID2 int64, page, size int) ([]models.ChatMessage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	var history []models.ChatMessage
	err := s.DB.
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userID1, userID2, userID2, userID1).
		Order("created_at asc").
		Offset((page - 1) * size).
		Limit(size).
		Find(&history).Error
	if err != nil {
		log.Printf("ERROR: Failed to get chat history for (%d,%d): %v", userID1, userID2, err)
		return nil, err
	}
	return history, nil
}

// MarkAsRead flags every unread message from fromUserID to toUserID as read.
func (s *Service) MarkAsRead(toUserID, fromUserID int64) error {
	return s.DB.Model(&models.ChatMessage{}).
		Where("to_user_id = ? AND from_user_id = ? AND is_read = ?", toUserID, fromUserID, models.MessageUnread).
		Update("is_read", models.MessageRead).Error
}

// GetUnreadCount counts unread messages addressed to the user across all
// correspondents.
func (s *Service) GetUnreadCount(userID int64) (int64, error) {
	var count int64
	err := s.DB.Model(&models.ChatMessage{}).
		Where("to_user_id = ? AND is_read = ?", userID, models.MessageUnread).
		Count(&count).Error
	if err != nil {
		log.Printf("ERROR: Failed to count unread messages for user %d: %v", userID, err)
		return 0, err
	}
	return count, nil
}

// GetChatContacts returns every correspondent of the user with the latest
// message exchanged and that correspondent's unread backlog, most recent
// conversation first. Uses DISTINCT ON (PostgreSQL) to pick the newest row
// per correspondent.
func (s *Service) GetChatContacts(userID int64) ([]models.ChatContact, error) {
	rawSQL := `
        SELECT contact_user_id, last_message, last_message_time
        FROM (
            SELECT DISTINCT ON (contact_user_id)
                CASE WHEN from_user_id = ? THEN to_user_id ELSE from_user_id END AS contact_user_id,
                content    AS last_message,
                created_at AS last_message_time
            FROM chat_messages
            WHERE from_user_id = ? OR to_user_id = ?
            ORDER BY contact_user_id, created_at DESC
        ) AS latest
        ORDER BY last_message_time DESC
    `

	var contacts []models.ChatContact
	if err := s.DB.Raw(rawSQL, userID, userID, userID).Scan(&contacts).Error; err != nil {
		log.Printf("ERROR: Failed to list chat contacts for user %d: %v", userID, err)
		return nil, err
	}

	for i := range contacts {
		var unread int64
		err := s.DB.Model(&models.ChatMessage{}).
			Where("to_user_id = ? AND from_user_id = ? AND is_read = ?",
				userID, contacts[i].ContactUserID, models.MessageUnread).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}
		contacts[i].UnreadCount = int(unread)

		profile, err := s.GetUserProfile(contacts[i].ContactUserID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			contacts[i].Nickname = profile.Nickname
			contacts[i].Avatar = profile.Avatar
		}
	}
	return contacts, nil
}

// GetUserProfile loads the display profile for enrichment. A missing user
// yields (nil, nil) rather than an error.
func (s *Service) GetUserProfile(userID int64) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to load profile for user %d: %v", userID, err)
		return nil, err
	}
	return &user, nil
}

// IsUserBanned checks the Redis ban blacklist.
func (s *Service) IsUserBanned(userID int64) (bool, error) {
	if s.Redis == nil {
		return false, nil
	}
	status, err := s.Redis.Get(s.Ctx, banKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// SetUserOnline publishes a presence hint with the configured TTL. The key
// expires on its own if this process dies without cleaning up.
func (s *Service) SetUserOnline(userID int64) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Set(s.Ctx, onlineKey(userID), "1", s.OnlineTTL).Err()
}

// RefreshUserOnline extends the presence hint; called by the heartbeat for
// every connection that survived a sweep.
func (s *Service) RefreshUserOnline(userID int64) error {
	return s.SetUserOnline(userID)
}

// SetUserOffline drops the presence hint immediately.
func (s *Service) SetUserOffline(userID int64) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(s.Ctx, onlineKey(userID)).Err()
}

func onlineKey(userID int64) string { return fmt.Sprintf("online:%d", userID) }
func banKey(userID int64) string    { return fmt.Sprintf("ban:%d", userID) }
