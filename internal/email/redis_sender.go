package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/config"
)

// MockEmailTTL is how long a captured email stays readable in Redis.
const MockEmailTTL = 5 * time.Minute

// MockEmailKey is the Redis key a RedisSender stores an email under.
func MockEmailKey(to, actionType string) string {
	return fmt.Sprintf("mockemail:%s:%s", to, actionType)
}

// RedisSender implements the Sender interface by storing emails in Redis
type RedisSender struct {
	client *redis.Client
	cfg    *config.Config
	logger *zap.Logger
}

// NewRedisSender creates a new RedisSender
func NewRedisSender(client *redis.Client, cfg *config.Config, logger *zap.Logger) Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSender{client: client, cfg: cfg, logger: logger}
}

// Send stores a JSON representation of the email in Redis instead of
// delivering it. Only the first recipient is used for the key.
func (s *RedisSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	actionType := ActionType(rawMessage)

	primaryTo := ""
	if len(to) > 0 {
		primaryTo = to[0]
	}

	emailData := map[string]interface{}{
		"to":         strings.Join(to, ", "),
		"from":       s.cfg.SmtpFromAddress,
		"subject":    subject,
		"body":       string(rawMessage),
		"sent_at":    time.Now().UTC().Format(time.RFC3339Nano),
		"actionType": actionType,
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("failed to marshal email data: %w", err)
	}

	key := MockEmailKey(primaryTo, actionType)
	if err := s.client.Set(ctx, key, jsonData, MockEmailTTL).Err(); err != nil {
		return fmt.Errorf("failed to store email in Redis key '%s': %w", key, err)
	}

	s.logger.Info("Mock email stored in Redis",
		zap.String("key", key),
		zap.Duration("ttl", MockEmailTTL),
		zap.String("subject", subject),
	)
	return nil
}
