package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every external endpoint and credential the service needs.
// It is read once at startup and never mutated afterwards.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	CloudinaryURL string
	UploadFolder  string
	AllowOrigins  []string
	SessionTTL    time.Duration

	// AvatarURL is the initials-avatar service used for default
	// profile images on sign-up.
	AvatarURL string

	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string
}

// Load reads configuration from the environment. A .env file is loaded
// first when present so local runs work without exporting anything.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment only")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "linkmood"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		CloudinaryURL:   os.Getenv("CLOUDINARY_URL"),
		UploadFolder:    getEnv("CLOUDINARY_FOLDER", "linkmood/posts"),
		AvatarURL:       getEnv("AVATAR_URL", "https://ui-avatars.com/api"),
		SessionTTL:      24 * time.Hour,
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubscriber: getEnv("VAPID_SUBSCRIBER", "mailto:admin@linkmood.app"),
	}

	origins := getEnv("ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, errors.New("SESSION_TTL is not a valid duration: " + ttl)
		}
		cfg.SessionTTL = d
	}

	if cfg.MongoURI == "" || cfg.JWTSecret == "" {
		return nil, errors.New("MONGODB_URI and JWT_SECRET must be set")
	}
	if cfg.CloudinaryURL == "" {
		return nil, errors.New("CLOUDINARY_URL must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
