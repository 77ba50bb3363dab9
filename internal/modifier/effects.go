package modifier

// SkillEffect is a numeric bonus granted by an unlocked skill. The set of
// implementations is closed to this package.
type SkillEffect interface {
	skillEffect()
}

// DamageBonus adds to the damage multiplier.
type DamageBonus struct{ Amount float64 }

// CritChance adds to the crit chance.
type CritChance struct{ Amount float64 }

// CritDamage adds to the crit multiplier.
type CritDamage struct{ Amount float64 }

// Evasion adds to the evasion chance.
type Evasion struct{ Amount float64 }

// DamageReduction adds to the damage reduction.
type DamageReduction struct{ Amount float64 }

// Transcendence multiplies the damage multiplier while the player's HP ratio
// is below Threshold.
type Transcendence struct {
	Threshold  float64
	Multiplier float64
}

// RewardBonus adds to the run's reward multiplier.
type RewardBonus struct{ Amount float64 }

func (DamageBonus) skillEffect()     {}
func (CritChance) skillEffect()      {}
func (CritDamage) skillEffect()      {}
func (Evasion) skillEffect()         {}
func (DamageReduction) skillEffect() {}
func (Transcendence) skillEffect()   {}
func (RewardBonus) skillEffect()     {}

// RunModifier is a difficulty or reward scalar selected before a run.
type RunModifier interface {
	runModifier()
}

// EnemyHealthScale multiplies enemy max HP.
type EnemyHealthScale struct{ Factor float64 }

// EnemyDamageScale multiplies enemy attack.
type EnemyDamageScale struct{ Factor float64 }

// RewardScale multiplies rewards.
type RewardScale struct{ Factor float64 }

func (EnemyHealthScale) runModifier() {}
func (EnemyDamageScale) runModifier() {}
func (RewardScale) runModifier()      {}
