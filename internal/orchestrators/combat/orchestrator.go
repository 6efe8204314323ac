// Package combat implements the combat orchestrator: the session state
// machine that runs a party through a quest's enemy sequence and settles the
// payout after victory.
package combat

//go:generate mockgen -destination=mock/mock_service.go -package=combatmock github.com/guildworks/combat-api/internal/orchestrators/combat Service

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/guildworks/combat-api/internal/clients/gamedata"
	"github.com/guildworks/combat-api/internal/clients/notify"
	"github.com/guildworks/combat-api/internal/engine"
	"github.com/guildworks/combat-api/internal/entities"
	"github.com/guildworks/combat-api/internal/errors"
	"github.com/guildworks/combat-api/internal/pkg/clock"
	"github.com/guildworks/combat-api/internal/pkg/idgen"
	combatsession "github.com/guildworks/combat-api/internal/repositories/combat_session"
	diceinventory "github.com/guildworks/combat-api/internal/repositories/dice_inventory"
	"github.com/guildworks/combat-api/internal/repositories/discovery"
)

const (
	minPartySize = 1
	maxPartySize = 3

	// lockStripes bounds the per-session serialization table. Concurrent
	// calls on the same session always share a stripe; unrelated sessions
	// rarely do.
	lockStripes = 64
)

// Service defines the interface for combat session operations
type Service interface {
	// StartCombat opens a session for a party against a quest
	StartCombat(ctx context.Context, input *StartCombatInput) (*StartCombatOutput, error)

	// Roll resolves one combat turn against the current enemy
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)

	// Flee abandons an in-progress session with no rewards
	Flee(ctx context.Context, input *FleeInput) (*FleeOutput, error)

	// Complete settles a victorious session's rewards exactly once
	Complete(ctx context.Context, input *CompleteInput) (*CompleteOutput, error)

	// GetSession reads a session for display
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
}

// Config holds the dependencies for the combat orchestrator
type Config struct {
	SessionRepo   combatsession.Repository
	DiceRepo      diceinventory.Repository
	DiscoveryRepo discovery.Repository
	GameData      gamedata.Client
	Notifier      notify.Publisher
	Roller        dice.Roller
	IDGenerator   idgen.Generator
	Clock         clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.DiceRepo == nil {
		vb.RequiredField("DiceRepo")
	}
	if c.DiscoveryRepo == nil {
		vb.RequiredField("DiscoveryRepo")
	}
	if c.GameData == nil {
		vb.RequiredField("GameData")
	}
	if c.Notifier == nil {
		vb.RequiredField("Notifier")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	sessionRepo   combatsession.Repository
	diceRepo      diceinventory.Repository
	discoveryRepo discovery.Repository
	gameData      gamedata.Client
	notifier      notify.Publisher
	roller        dice.Roller
	idGen         idgen.Generator
	clock         clock.Clock

	// stripes serializes turns within one session; Redis CAS backs this up
	// across instances
	stripes [lockStripes]sync.Mutex
}

// NewOrchestrator creates a new combat orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		sessionRepo:   cfg.SessionRepo,
		diceRepo:      cfg.DiceRepo,
		discoveryRepo: cfg.DiscoveryRepo,
		gameData:      cfg.GameData,
		notifier:      cfg.Notifier,
		roller:        cfg.Roller,
		idGen:         cfg.IDGenerator,
		clock:         cfg.Clock,
	}, nil
}

// Ensure orchestrator implements Service
var _ Service = (*orchestrator)(nil)

func (o *orchestrator) sessionLock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &o.stripes[h.Sum32()%lockStripes]
}

// StartCombat opens a session for a party against a quest
func (o *orchestrator) StartCombat(ctx context.Context, input *StartCombatInput) (*StartCombatOutput, error) {
	if input.AccountID == "" {
		return nil, errors.InvalidArgument("account ID is required")
	}
	if input.QuestID == "" {
		return nil, errors.InvalidArgument("quest ID is required")
	}
	if len(input.HeroIDs) < minPartySize || len(input.HeroIDs) > maxPartySize {
		return nil, errors.InvalidArgumentf("party size must be between %d and %d, got %d",
			minPartySize, maxPartySize, len(input.HeroIDs))
	}

	seen := make(map[string]bool, len(input.HeroIDs))
	for _, heroID := range input.HeroIDs {
		if heroID == "" {
			return nil, errors.InvalidArgument("hero ID cannot be empty")
		}
		if seen[heroID] {
			return nil, errors.InvalidArgumentf("hero %s appears twice in the party", heroID)
		}
		seen[heroID] = true
	}

	quest, err := o.gameData.GetQuest(ctx, input.QuestID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get quest")
	}
	if len(quest.EnemyIDs) == 0 {
		return nil, errors.FailedPreconditionf("quest %s has no enemies", quest.ID)
	}

	heroes, err := o.loadParty(ctx, input.AccountID, input.HeroIDs)
	if err != nil {
		return nil, err
	}

	classes := make([]entities.HeroClass, len(heroes))
	for i, hero := range heroes {
		classes[i] = hero.Class
	}

	combos, err := o.gameData.ListPartyCombos(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list party combos")
	}
	combo := engine.DetectCombo(classes, combos)

	enemy, err := o.gameData.GetEnemy(ctx, quest.EnemyIDs[0])
	if err != nil {
		return nil, errors.Wrap(err, "failed to get first enemy")
	}

	comboID := ""
	if combo != nil {
		comboID = combo.ID
	}
	comboBonus, err := o.comboBonusFor(ctx, enemy, comboID)
	if err != nil {
		return nil, err
	}

	session := &entities.CombatSession{
		ID:             o.idGen.Generate(),
		AccountID:      input.AccountID,
		QuestID:        quest.ID,
		HeroIDs:        input.HeroIDs,
		ComboID:        comboID,
		GroupBonus:     engine.GroupBonus(len(heroes)),
		ComboBonus:     comboBonus,
		Status:         entities.StatusInProgress,
		CurrentEnemyID: enemy.ID,
		StartedAt:      o.clock.Now(),
	}

	createOut, err := o.sessionRepo.Create(ctx, combatsession.CreateInput{Session: session})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create combat session")
	}
	session = createOut.Session

	slog.InfoContext(ctx, "combat session started",
		"session_id", session.ID,
		"account_id", session.AccountID,
		"quest_id", session.QuestID,
		"party_size", session.PartySize(),
		"combo_id", session.ComboID,
		"first_enemy_id", session.CurrentEnemyID,
	)

	return &StartCombatOutput{
		Session:      session,
		Combo:        combo,
		Enemy:        enemy,
		RequiredRoll: engine.RequiredRoll(enemy, session.GroupBonus, session.ComboBonus, heroes),
	}, nil
}

// Roll resolves one combat turn against the current enemy
func (o *orchestrator) Roll(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	if !input.DieType.Valid() {
		return nil, errors.InvalidArgumentf("die type %q is invalid", input.DieType)
	}

	lock := o.sessionLock(input.SessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.loadOwnedSession(ctx, input.AccountID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != entities.StatusInProgress {
		return nil, errors.FailedPreconditionf("cannot roll: session is %s", session.Status)
	}

	enemy, err := o.gameData.GetEnemy(ctx, session.CurrentEnemyID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current enemy")
	}
	if input.DieType != enemy.RequiredDie {
		return nil, errors.InvalidArgumentf("%s requires a %s, got %s",
			enemy.ID, enemy.RequiredDie, input.DieType)
	}

	heroes, err := o.loadParty(ctx, session.AccountID, session.HeroIDs)
	if err != nil {
		return nil, err
	}

	requiredRoll := engine.RequiredRoll(enemy, session.GroupBonus, session.ComboBonus, heroes)

	// Everything past the debit must either land in the session update or
	// refund the die
	if _, err := o.diceRepo.Debit(ctx, diceinventory.DebitInput{
		AccountID: session.AccountID,
		DieType:   enemy.RequiredDie,
	}); err != nil {
		return nil, err
	}

	roll, err := o.roller.Roll(enemy.RequiredDie.Sides())
	if err != nil {
		o.refundDie(ctx, session.AccountID, enemy.RequiredDie)
		return nil, errors.Wrap(err, "failed to roll die")
	}

	success := roll >= requiredRoll
	session.Turns = append(session.Turns, entities.TurnRecord{
		DieType:      enemy.RequiredDie,
		Roll:         roll,
		RequiredRoll: requiredRoll,
		Success:      success,
		Detail:       fmt.Sprintf("vs %s", enemy.ID),
		RolledAt:     o.clock.Now(),
	})

	defeatedEnemyID := ""
	victory := false
	if success {
		defeatedEnemyID = enemy.ID
		session.DefeatedEnemyIDs = append(session.DefeatedEnemyIDs, enemy.ID)

		if err := o.advanceEnemy(ctx, session); err != nil {
			o.refundDie(ctx, session.AccountID, enemy.RequiredDie)
			return nil, err
		}
		victory = session.Status == entities.StatusVictory
	}

	updateOut, err := o.sessionRepo.Update(ctx, combatsession.UpdateInput{Session: session})
	if err != nil {
		o.refundDie(ctx, session.AccountID, enemy.RequiredDie)
		return nil, errors.Wrap(err, "failed to persist turn")
	}
	session = updateOut.Session

	slog.InfoContext(ctx, "combat turn resolved",
		"session_id", session.ID,
		"enemy_id", enemy.ID,
		"die_type", string(enemy.RequiredDie),
		"roll", roll,
		"required_roll", requiredRoll,
		"success", success,
		"status", string(session.Status),
	)

	return &RollOutput{
		Session:         session,
		Roll:            roll,
		RequiredRoll:    requiredRoll,
		Success:         success,
		DefeatedEnemyID: defeatedEnemyID,
		Victory:         victory,
	}, nil
}

// advanceEnemy moves the session to the next undefeated enemy in the quest's
// stable order, or to Victory when none remain
func (o *orchestrator) advanceEnemy(ctx context.Context, session *entities.CombatSession) error {
	quest, err := o.gameData.GetQuest(ctx, session.QuestID)
	if err != nil {
		return errors.Wrap(err, "failed to get quest")
	}

	next := ""
	for _, enemyID := range quest.EnemyIDs {
		if !session.Defeated(enemyID) {
			next = enemyID
			break
		}
	}

	if next == "" {
		status, err := engine.Transition(session.Status, engine.EventVictory)
		if err != nil {
			return err
		}
		session.Status = status
		session.CurrentEnemyID = ""
		session.ComboBonus = 0
		now := o.clock.Now()
		session.EndedAt = &now
		return nil
	}

	nextEnemy, err := o.gameData.GetEnemy(ctx, next)
	if err != nil {
		return errors.Wrap(err, "failed to get next enemy")
	}

	session.CurrentEnemyID = next
	session.ComboBonus, err = o.comboBonusFor(ctx, nextEnemy, session.ComboID)
	return err
}

// Flee abandons an in-progress session with no rewards
func (o *orchestrator) Flee(ctx context.Context, input *FleeInput) (*FleeOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	lock := o.sessionLock(input.SessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.loadOwnedSession(ctx, input.AccountID, input.SessionID)
	if err != nil {
		return nil, err
	}

	status, err := engine.Transition(session.Status, engine.EventFlee)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	session.Status = status
	session.EndedAt = &now
	session.Turns = append(session.Turns, entities.TurnRecord{
		Detail:   "fled",
		RolledAt: now,
	})

	updateOut, err := o.sessionRepo.Update(ctx, combatsession.UpdateInput{Session: session})
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist flee")
	}
	session = updateOut.Session

	slog.InfoContext(ctx, "combat session fled",
		"session_id", session.ID,
		"account_id", session.AccountID,
		"turns", len(session.Turns),
	)

	return &FleeOutput{Session: session}, nil
}

// Complete settles a victorious session's rewards exactly once
func (o *orchestrator) Complete(ctx context.Context, input *CompleteInput) (*CompleteOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	lock := o.sessionLock(input.SessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.loadOwnedSession(ctx, input.AccountID, input.SessionID)
	if err != nil {
		return nil, err
	}

	status, err := engine.Transition(session.Status, engine.EventComplete)
	if err != nil {
		return nil, err
	}

	// Claim the completion before distributing anything, so a concurrent or
	// repeated call can never pay twice
	now := o.clock.Now()
	session.Status = status
	session.CompletedAt = &now

	updateOut, err := o.sessionRepo.Update(ctx, combatsession.UpdateInput{Session: session})
	if err != nil {
		return nil, errors.Wrap(err, "failed to claim completion")
	}
	session = updateOut.Session

	output, err := o.distributeRewards(ctx, session)
	if err != nil {
		// The completion claim has landed; the caller gets the error and
		// support reconciles from the log
		slog.ErrorContext(ctx, "reward distribution failed after completion claim",
			"session_id", session.ID,
			"error", err.Error(),
		)
		return nil, err
	}

	slog.InfoContext(ctx, "combat session completed",
		"session_id", session.ID,
		"account_id", session.AccountID,
		"gold_awarded", output.GoldAwarded,
		"experience_per_hero", output.ExperiencePerHero,
		"drops", len(output.Drops),
		"new_discoveries", len(output.NewDiscoveries),
	)

	return output, nil
}

// distributeRewards runs the at-most-once payout: gold, experience with
// level-ups, drops, and discovery bookkeeping
func (o *orchestrator) distributeRewards(ctx context.Context, session *entities.CombatSession) (*CompleteOutput, error) {
	quest, err := o.gameData.GetQuest(ctx, session.QuestID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get quest")
	}

	heroes, err := o.loadParty(ctx, session.AccountID, session.HeroIDs)
	if err != nil {
		return nil, err
	}

	// Boss weaknesses matched by the session combo contribute experience and
	// loot multipliers, and drive discovery bookkeeping
	expMultiplier := 1.0
	lootMultipliers := make(map[string]float64)
	var newDiscoveries []string
	for _, enemyID := range session.DefeatedEnemyIDs {
		enemy, err := o.gameData.GetEnemy(ctx, enemyID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get defeated enemy")
		}
		if !enemy.Boss || session.ComboID == "" {
			continue
		}

		weakness, err := o.gameData.GetBossWeakness(ctx, enemy.ID, session.ComboID)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, errors.Wrap(err, "failed to get boss weakness")
		}

		if weakness.ExperienceMultiplier > 0 {
			expMultiplier *= weakness.ExperienceMultiplier
		}
		if weakness.LootMultiplier > 0 {
			lootMultipliers[enemy.ID] = weakness.LootMultiplier
		}

		registerOut, err := o.discoveryRepo.Register(ctx, discovery.RegisterInput{
			AccountID: session.AccountID,
			EnemyID:   enemy.ID,
			ComboID:   session.ComboID,
			Won:       true,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to register discovery")
		}
		if registerOut.NewDiscovery {
			newDiscoveries = append(newDiscoveries, enemy.ID)
			o.publishDiscovery(ctx, session, enemy.ID)
		}
	}

	gold, err := engine.GoldReward(quest.GoldReward, session.PartySize())
	if err != nil {
		return nil, err
	}
	if err := o.gameData.CreditGold(ctx, session.AccountID, gold); err != nil {
		return nil, errors.Wrap(err, "failed to credit gold")
	}

	expPerHero, err := engine.ExperienceReward(quest.ExperienceReward, session.PartySize(), expMultiplier)
	if err != nil {
		return nil, err
	}

	var levelUps []HeroLevelUp
	for _, hero := range heroes {
		progress := engine.ApplyExperience(hero.Level, hero.Experience, expPerHero)

		fromLevel := hero.Level
		hero.Level = progress.Level
		hero.Experience = progress.Experience
		if err := o.gameData.SaveHeroProgress(ctx, hero); err != nil {
			return nil, errors.Wrapf(err, "failed to save progress for hero %s", hero.ID)
		}

		if progress.LevelsGained > 0 {
			levelUps = append(levelUps, HeroLevelUp{
				HeroID:       hero.ID,
				FromLevel:    fromLevel,
				ToLevel:      progress.Level,
				LevelsGained: progress.LevelsGained,
			})
			o.publishLevelUp(ctx, session, hero, fromLevel, progress)
		}
	}

	drops, err := o.resolveDrops(ctx, session, lootMultipliers)
	if err != nil {
		return nil, err
	}
	if len(drops) > 0 {
		grants := make([]gamedata.ItemGrant, len(drops))
		for i, drop := range drops {
			grants[i] = gamedata.ItemGrant{ItemID: drop.ItemID, Quantity: drop.Quantity}
		}
		// All drops go to the first hero in party order
		if err := o.gameData.GrantItems(ctx, session.HeroIDs[0], grants); err != nil {
			return nil, errors.Wrap(err, "failed to grant items")
		}
	}

	return &CompleteOutput{
		Session:           session,
		GoldAwarded:       gold,
		ExperiencePerHero: expPerHero,
		LevelUps:          levelUps,
		Drops:             drops,
		NewDiscoveries:    newDiscoveries,
	}, nil
}

// resolveDrops evaluates every defeated enemy's loot table
func (o *orchestrator) resolveDrops(ctx context.Context, session *entities.CombatSession, lootMultipliers map[string]float64) ([]ItemDrop, error) {
	var drops []ItemDrop
	for _, enemyID := range session.DefeatedEnemyIDs {
		table, err := o.gameData.GetLootTable(ctx, enemyID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get loot table for %s", enemyID)
		}
		if len(table) == 0 {
			continue
		}

		multiplier := 1.0
		if m, ok := lootMultipliers[enemyID]; ok {
			multiplier = m
		}

		resolved, err := engine.ResolveDrops(table, multiplier, o.roller)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve drops for %s", enemyID)
		}
		for _, drop := range resolved {
			drops = append(drops, ItemDrop{
				EnemyID:  enemyID,
				ItemID:   drop.ItemID,
				Quantity: drop.Quantity,
			})
		}
	}
	return drops, nil
}

// GetSession reads a session for display
func (o *orchestrator) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	session, err := o.loadOwnedSession(ctx, input.AccountID, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &GetSessionOutput{Session: session}, nil
}

// loadOwnedSession fetches a session and verifies the caller owns it
func (o *orchestrator) loadOwnedSession(ctx context.Context, accountID, sessionID string) (*entities.CombatSession, error) {
	if accountID == "" {
		return nil, errors.InvalidArgument("account ID is required")
	}

	getOut, err := o.sessionRepo.Get(ctx, combatsession.GetInput{SessionID: sessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get combat session")
	}
	if getOut.Session.AccountID != accountID {
		return nil, errors.PermissionDeniedf("session %s does not belong to the caller", sessionID)
	}
	return getOut.Session, nil
}

// loadParty fetches every hero and verifies account ownership
func (o *orchestrator) loadParty(ctx context.Context, accountID string, heroIDs []string) ([]*entities.Hero, error) {
	heroes := make([]*entities.Hero, len(heroIDs))
	for i, heroID := range heroIDs {
		hero, err := o.gameData.GetHero(ctx, heroID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get hero %s", heroID)
		}
		if hero.AccountID != accountID {
			return nil, errors.PermissionDeniedf("hero %s does not belong to the caller", heroID)
		}
		heroes[i] = hero
	}
	return heroes, nil
}

// comboBonusFor returns the roll reduction the session combo earns against
// the given enemy: zero unless the enemy is a boss with a matching weakness
func (o *orchestrator) comboBonusFor(ctx context.Context, enemy *entities.Enemy, comboID string) (int, error) {
	if !enemy.Boss || comboID == "" {
		return 0, nil
	}

	weakness, err := o.gameData.GetBossWeakness(ctx, enemy.ID, comboID)
	if err != nil {
		if errors.IsNotFound(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to get boss weakness")
	}
	return -weakness.RollReduction, nil
}

// refundDie returns a consumed die after a turn that could not be persisted.
// Best effort: a failed refund is logged for reconciliation, not returned.
func (o *orchestrator) refundDie(ctx context.Context, accountID string, dieType entities.DieType) {
	if _, err := o.diceRepo.Grant(ctx, diceinventory.GrantInput{
		AccountID: accountID,
		DieType:   dieType,
		Count:     1,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to refund die",
			"account_id", accountID,
			"die_type", string(dieType),
			"error", err.Error(),
		)
	}
}

func (o *orchestrator) publishDiscovery(ctx context.Context, session *entities.CombatSession, enemyID string) {
	event := &notify.DiscoveryEvent{
		AccountID:    session.AccountID,
		SessionID:    session.ID,
		EnemyID:      enemyID,
		ComboID:      session.ComboID,
		DiscoveredAt: o.clock.Now(),
	}
	if err := o.notifier.PublishDiscovery(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish discovery notification",
			"session_id", session.ID,
			"enemy_id", enemyID,
			"error", err.Error(),
		)
	}
}

func (o *orchestrator) publishLevelUp(ctx context.Context, session *entities.CombatSession, hero *entities.Hero, fromLevel int, progress engine.LevelProgress) {
	event := &notify.LevelUpEvent{
		AccountID:    session.AccountID,
		HeroID:       hero.ID,
		HeroName:     hero.Name,
		FromLevel:    fromLevel,
		ToLevel:      progress.Level,
		LevelsGained: progress.LevelsGained,
	}
	if err := o.notifier.PublishLevelUp(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish level-up notification",
			"session_id", session.ID,
			"hero_id", hero.ID,
			"error", err.Error(),
		)
	}
}
