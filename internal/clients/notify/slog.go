package notify

import (
	"context"
	"log/slog"
)

// SlogPublisher writes milestone events to the structured log. It is the
// default publisher until a deployment wires a real pipeline.
type SlogPublisher struct {
	logger *slog.Logger
}

// NewSlogPublisher creates a publisher that logs events via the given logger.
// A nil logger falls back to slog.Default.
func NewSlogPublisher(logger *slog.Logger) *SlogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogPublisher{logger: logger}
}

// Ensure SlogPublisher implements Publisher
var _ Publisher = (*SlogPublisher)(nil)

// PublishDiscovery emits a first-discovery notification
func (p *SlogPublisher) PublishDiscovery(ctx context.Context, event *DiscoveryEvent) error {
	p.logger.InfoContext(ctx, "combo discovered",
		"account_id", event.AccountID,
		"session_id", event.SessionID,
		"enemy_id", event.EnemyID,
		"combo_id", event.ComboID,
		"combo_name", event.ComboName,
	)
	return nil
}

// PublishLevelUp emits a hero level-up notification
func (p *SlogPublisher) PublishLevelUp(ctx context.Context, event *LevelUpEvent) error {
	p.logger.InfoContext(ctx, "hero leveled up",
		"account_id", event.AccountID,
		"hero_id", event.HeroID,
		"hero_name", event.HeroName,
		"from_level", event.FromLevel,
		"to_level", event.ToLevel,
	)
	return nil
}
