package config

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// DB is the shared PostgreSQL handle, initialized once at startup.
var DB *sql.DB

// LoadEnv loads environment variables from a .env file, probing the usual
// locations. A missing file is not fatal when the database configuration is
// already present in the environment.
func LoadEnv() error {
	possiblePaths := []string{
		".env",
		"../.env",
		os.Getenv("STATEDASH_ENV"),
	}

	var loadedFile string
	for _, path := range possiblePaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			loadedFile = path
			break
		}
	}

	if loadedFile == "" {
		if os.Getenv("DB_HOST") != "" {
			return nil
		}
		return fmt.Errorf("no .env file found and DB_HOST not set in environment")
	}

	file, err := os.Open(loadedFile)
	if err != nil {
		return fmt.Errorf("error opening .env file: %v", err)
	}
	defer file.Close()

	log.Printf("Loading environment variables from %s", loadedFile)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		os.Setenv(key, value)
	}
	return scanner.Err()
}

// InitDBWithRetry attempts to connect to PostgreSQL with retries.
func InitDBWithRetry(maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = InitDB()
		if err == nil {
			return nil
		}
		log.Printf("Failed to connect to PostgreSQL (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(5 * time.Second)
	}
	return fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err)
}

// InitDB opens the connection pool and verifies it with a ping.
func InitDB() error {
	host := GetEnvWithDefault("DB_HOST", "localhost")
	port := GetEnvWithDefault("DB_PORT", "5432")
	user := GetEnvWithDefault("DB_USER", "postgres")
	password := os.Getenv("DB_PASSWORD")
	dbname := GetEnvWithDefault("DB_NAME", "statedash")
	sslmode := GetEnvWithDefault("DB_SSL_MODE", "disable")

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	log.Printf("Connecting to PostgreSQL at %s:%s/%s (sslmode=%s)", host, port, dbname, sslmode)

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error opening PostgreSQL database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = DB.PingContext(ctx); err != nil {
		return fmt.Errorf("error connecting to PostgreSQL database: %v", err)
	}

	log.Printf("Successfully connected to PostgreSQL database: %s", dbname)
	return nil
}

// CheckPostgresHealth pings the pool with a short deadline.
func CheckPostgresHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("PostgreSQL health check failed: %v", err)
	}
	return nil
}

// CloseDB closes the connection pool.
func CloseDB() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			log.Printf("Error closing PostgreSQL connection: %v", err)
		}
	}
}

// WithTransaction runs fn in a serializable transaction, rolling back on
// error or panic.
func WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := DB.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
