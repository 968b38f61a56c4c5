// Command admin is an operator CLI for the chat core: ban management, live
// presence inspection, and unread backlog checks.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"dategogo/backend/internal/config"
	"dategogo/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <ban|unban|online|unread> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ban":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin ban <user_id> [duration_in_hours]")
			os.Exit(1)
		}
		userID := parseUserID(os.Args[2])
		var ttl time.Duration
		if len(os.Args) > 3 {
			hours, err := strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid duration. Please provide an integer.")
				os.Exit(1)
			}
			ttl = time.Duration(hours) * time.Hour
		}
		if err := rdb.Set(ctx, fmt.Sprintf("ban:%d", userID), "active", ttl).Err(); err != nil {
			log.Fatalf("Error banning user: %v", err)
		}
		fmt.Printf("User %d has been banned.\n", userID)

	case "unban":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unban <user_id>")
			os.Exit(1)
		}
		userID := parseUserID(os.Args[2])
		if err := rdb.Del(ctx, fmt.Sprintf("ban:%d", userID)).Err(); err != nil {
			log.Fatalf("Error unbanning user: %v", err)
		}
		fmt.Printf("User %d has been unbanned.\n", userID)

	case "online":
		keys, err := scanKeys(ctx, rdb, "online:*")
		if err != nil {
			log.Fatalf("Error listing online users: %v", err)
		}
		fmt.Printf("%d users online:\n", len(keys))
		for _, key := range keys {
			fmt.Println("  " + key)
		}

	case "unread":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unread <user_id>")
			os.Exit(1)
		}
		userID := parseUserID(os.Args[2])

		db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		store := storage.NewStorageService(db, rdb, cfg.OnlineTTL)
		count, err := store.GetUnreadCount(userID)
		if err != nil {
			log.Fatalf("Error counting unread messages: %v", err)
		}
		fmt.Printf("User %d has %d unread messages.\n", userID, count)

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func parseUserID(arg string) int64 {
	userID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || userID <= 0 {
		fmt.Println("Invalid user ID. Please provide a positive integer.")
		os.Exit(1)
	}
	return userID
}

func scanKeys(ctx context.Context, rdb *redis.Client, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
