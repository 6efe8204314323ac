// Package notify publishes player-facing combat milestones to the platform's
// notification pipeline.
package notify

//go:generate mockgen -destination=mock/mock_publisher.go -package=notifymock github.com/guildworks/combat-api/internal/clients/notify Publisher

import (
	"context"
	"time"
)

// DiscoveryEvent announces an account's first successful use of a party
// combo against a specific boss
type DiscoveryEvent struct {
	AccountID    string
	SessionID    string
	EnemyID      string
	ComboID      string
	ComboName    string
	DiscoveredAt time.Time
}

// LevelUpEvent announces a hero crossing one or more level thresholds
type LevelUpEvent struct {
	AccountID    string
	HeroID       string
	HeroName     string
	FromLevel    int
	ToLevel      int
	LevelsGained int
}

// Publisher defines the interface for emitting combat milestone notifications.
// Publishing is best effort: combat resolution never fails because a
// notification could not be delivered.
type Publisher interface {
	// PublishDiscovery emits a first-discovery notification
	PublishDiscovery(ctx context.Context, event *DiscoveryEvent) error

	// PublishLevelUp emits a hero level-up notification
	PublishLevelUp(ctx context.Context, event *LevelUpEvent) error
}
