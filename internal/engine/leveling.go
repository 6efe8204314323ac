package engine

// Hero progression: a hero at level N advances by accumulating
// experienceToNext(N) points, which are then spent on the level-up.
// Awards may cross several thresholds at once.

const (
	baseExperiencePerLevel = 100
	maxHeroLevel           = 100
)

// experienceToNext returns the cost of advancing from the given level
func experienceToNext(level int) int64 {
	return int64(level) * baseExperiencePerLevel
}

// LevelProgress is the result of applying an experience award to a hero
type LevelProgress struct {
	Level        int
	Experience   int64
	LevelsGained int
}

// ApplyExperience adds an award to a hero's progression and resolves any
// level-ups, spending experience at each threshold crossed
func ApplyExperience(level int, experience, award int64) LevelProgress {
	if level < 1 {
		level = 1
	}
	experience += award

	gained := 0
	for level < maxHeroLevel && experience >= experienceToNext(level) {
		experience -= experienceToNext(level)
		level++
		gained++
	}

	return LevelProgress{
		Level:        level,
		Experience:   experience,
		LevelsGained: gained,
	}
}
