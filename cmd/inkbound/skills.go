package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/inkbound/internal/corruption"
	"github.com/verte-zerg/inkbound/internal/modifier"
	"github.com/verte-zerg/inkbound/internal/runmod"
	"github.com/verte-zerg/inkbound/internal/skill"
)

func newSkillsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skills",
		Short: "List skills and show the modifiers of a selection",
		Args:  cobra.NoArgs,
		RunE:  runSkillsCmd,
	}
}

func runSkillsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if err := writeCatalog(w, cfg.Player.Skills); err != nil {
		return err
	}
	effects, err := skill.Effects(cfg.Player.Skills)
	if err != nil {
		return err
	}
	build, err := runmod.Resolve(runmod.Selection{Preset: cfg.Run.Preset, Challenges: cfg.Run.Challenges})
	if err != nil {
		return err
	}
	maxHP := cfg.Player.MaxHP
	full := modifier.Resolve(modifier.Base{HP: maxHP, MaxHP: maxHP, ReductionCeiling: cfg.Combat.ReductionCeiling}, effects, corruption.Effect{}, build.Modifiers)
	low := modifier.Resolve(modifier.Base{HP: maxHP / 10, MaxHP: maxHP, ReductionCeiling: cfg.Combat.ReductionCeiling}, effects, corruption.Effect{}, build.Modifiers)

	lines := []string{
		"",
		fmt.Sprintf("Selection: %d points · preset %s · heat %d", skill.Points(cfg.Player.Skills), build.Preset.Name, build.Heat),
		formatSet("Full HP", full.Player),
		formatSet("10% HP ", low.Player),
		fmt.Sprintf("Enemies: health x%.2f · damage x%.2f · rewards x%.2f", full.Run.EnemyHealth, full.Run.EnemyDamage, full.Run.Reward),
	}
	for _, c := range full.Contradictions {
		lines = append(lines, fmt.Sprintf("warning: %s %.2f clamped to %.2f", c.Field, c.Value, c.Clamped))
	}
	if full.Unkillable {
		lines = append(lines, "warning: this selection cannot take damage")
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writeCatalog(w io.Writer, unlocked []string) error {
	have := map[string]bool{}
	for _, id := range unlocked {
		have[id] = true
	}
	for _, tree := range skill.Trees {
		if _, err := fmt.Fprintf(w, "%s\n", tree); err != nil {
			return err
		}
		for _, s := range skill.All() {
			if s.Tree != tree {
				continue
			}
			mark := " "
			if have[s.ID] {
				mark = "*"
			}
			req := ""
			if s.Requires != "" {
				req = " (needs " + s.Requires + ")"
			}
			if _, err := fmt.Fprintf(w, "  %s %-14s %d  %s%s\n", mark, s.ID, s.Cost, s.Description, req); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatSet(label string, s modifier.Set) string {
	line := fmt.Sprintf("%s: damage x%.2f · crit %.0f%% x%.2f · evasion %.0f%% · reduction %.0f%%",
		label, s.DamageMultiplier, s.CritChance*100, s.CritMultiplier, s.EvasionChance*100, s.DamageReduction*100)
	if s.Transcendent {
		line += " · transcendent"
	}
	return line
}
