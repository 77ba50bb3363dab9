package combat

// Combatant holds the stats combat mutates.
type Combatant struct {
	Name    string
	HP      int
	MaxHP   int
	Attack  int
	Defense int
}

// Alive reports whether HP is above zero.
func (c *Combatant) Alive() bool {
	return c.HP > 0
}

// Damage lowers HP by n, never below zero, and returns the HP actually removed.
func (c *Combatant) Damage(n int) int {
	if n <= 0 {
		return 0
	}
	if n > c.HP {
		n = c.HP
	}
	c.HP -= n
	return n
}

// Heal raises HP by n, never above MaxHP, and returns the HP actually restored.
func (c *Combatant) Heal(n int) int {
	if n <= 0 {
		return 0
	}
	if c.HP+n > c.MaxHP {
		n = c.MaxHP - c.HP
	}
	if n < 0 {
		n = 0
	}
	c.HP += n
	return n
}

// Ratio returns HP/MaxHP.
func (c *Combatant) Ratio() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP)
}

// Enemy is a combatant created from a bestiary template.
type Enemy struct {
	Combatant
	ID      string
	Faction string
	Theme   string
	Boss    bool
	XP      int
	Gold    int
}
