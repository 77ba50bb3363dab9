package event

// Type identifies a game event. The set is closed; payloads are listed per type.
type Type int

const (
	// CombatStarted opens an encounter.
	// Trigger: resolver Start | Payload: CombatStartedPayload
	CombatStarted Type = iota

	// WordPresented announces the next word to type.
	// Trigger: combat start, end of enemy turn | Payload: WordPresentedPayload
	WordPresented

	// KeystrokeTyped reports one keypress and its damage contribution.
	// Consumer: UI feedback | Payload: KeystrokeTypedPayload
	KeystrokeTyped

	// InputOverflow reports a keypress past the end of the word. No effect on damage.
	// Payload: KeystrokeTypedPayload
	InputOverflow

	// FlowChanged reports a one-level flow transition.
	// Payload: FlowChangedPayload
	FlowChanged

	// WordCompleted reports a word typed to match its target.
	// Consumer: faction, stats | Payload: WordResultPayload
	WordCompleted

	// WordFailed reports a timeout, a mistyped submit or a failed escape.
	// Payload: WordResultPayload
	WordFailed

	// DamageDealt reports damage applied to the enemy.
	// Consumer: UI, narrative | Payload: DamageDealtPayload
	DamageDealt

	// ComboAchieved fires on streak milestones.
	// Consumer: meta (ink), faction | Payload: ComboPayload
	ComboAchieved

	// ComboBroken fires when a positive streak resets.
	// Payload: ComboPayload
	ComboBroken

	// Evaded reports an enemy attack nullified by the evasion roll.
	// Payload: EnemyAttackPayload
	Evaded

	// DamageTaken reports damage applied to the player.
	// Payload: EnemyAttackPayload
	DamageTaken

	// TurnEnded closes one word/enemy-turn cycle with both sides alive.
	// Payload: TurnEndedPayload
	TurnEnded

	// EnemyDefeated fires once when enemy HP reaches zero.
	// Consumer: faction, meta, narrative | Payload: EnemyDefeatedPayload
	EnemyDefeated

	// CombatEnded fires once per encounter on Victory or Defeat.
	// Consumer: narrative, meta, recorder | Payload: CombatEndedPayload
	CombatEnded

	// CombatAbandoned fires when the player flees or quits. No CombatEnded follows.
	// Payload: CombatAbandonedPayload
	CombatAbandoned

	// FactionStandingChanged reports a reputation change.
	// Trigger: faction listener | Payload: FactionStandingPayload
	FactionStandingChanged

	// InkAwarded reports meta currency earned.
	// Trigger: meta listener | Payload: InkAwardedPayload
	InkAwarded

	// CorruptionChanged reports a new corruption level for the run.
	// Trigger: narrative listener | Payload: CorruptionChangedPayload
	CorruptionChanged

	// LoreUnlocked reports a lore fragment unlocked.
	// Trigger: narrative listener | Payload: LoreUnlockedPayload
	LoreUnlocked

	typeCount
)

var typeNames = [...]string{
	CombatStarted:          "combat_started",
	WordPresented:          "word_presented",
	KeystrokeTyped:         "keystroke_typed",
	InputOverflow:          "input_overflow",
	FlowChanged:            "flow_changed",
	WordCompleted:          "word_completed",
	WordFailed:             "word_failed",
	DamageDealt:            "damage_dealt",
	ComboAchieved:          "combo_achieved",
	ComboBroken:            "combo_broken",
	Evaded:                 "evaded",
	DamageTaken:            "damage_taken",
	TurnEnded:              "turn_ended",
	EnemyDefeated:          "enemy_defeated",
	CombatEnded:            "combat_ended",
	CombatAbandoned:        "combat_abandoned",
	FactionStandingChanged: "faction_standing_changed",
	InkAwarded:             "ink_awarded",
	CorruptionChanged:      "corruption_changed",
	LoreUnlocked:           "lore_unlocked",
}

func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return "unknown"
	}
	return typeNames[t]
}
