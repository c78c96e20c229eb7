package config

import (
	"os"
	"path/filepath"
)

type StorageBackend string

const (
	StorageFile   StorageBackend = "file"
	StorageRedis  StorageBackend = "redis"
	StorageMemory StorageBackend = "memory"
)

type StorageConfig interface {
	GetStorageBackend() StorageBackend
	GetSessionFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKeyPrefix() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetStorageBackend() StorageBackend {
	switch backend := StorageBackend(GetEnv("STORAGE_BACKEND", string(StorageFile))); backend {
	case StorageFile, StorageRedis, StorageMemory:
		return backend
	default:
		return StorageFile
	}
}

// GetSessionFile is where the file backend keeps the token and role.
func (Storage) GetSessionFile() string {
	if path := os.Getenv("SESSION_FILE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront-session.yaml"
	}
	return filepath.Join(home, ".storefront", "session.yaml")
}

func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "127.0.0.1:6379")
}

func (Storage) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Storage) GetRedisDB() int {
	return GetEnvAsInt("REDIS_DB", 0)
}

func (Storage) GetRedisKeyPrefix() string {
	return GetEnv("REDIS_KEY_PREFIX", "storefront:session:")
}
