package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/cards"
	"github.com/spf13/cobra"
)

var kindColors = map[cards.Kind]*color.Color{
	cards.KindNormal:   color.New(color.FgYellow),
	cards.KindEffect:   color.New(color.FgHiYellow),
	cards.KindRitual:   color.New(color.FgBlue),
	cards.KindFusion:   color.New(color.FgMagenta),
	cards.KindSynchro:  color.New(color.FgHiWhite),
	cards.KindXyz:      color.New(color.FgHiBlack),
	cards.KindLink:     color.New(color.FgHiBlue),
	cards.KindPendulum: color.New(color.FgHiGreen),
	cards.KindSpell:    color.New(color.FgGreen),
	cards.KindTrap:     color.New(color.FgHiMagenta),
	cards.KindSkill:    color.New(color.FgCyan),
	cards.KindToken:    color.New(color.FgWhite),
}

func newSearchCmd() *cobra.Command {
	var f filters
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search cards and print one line per card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := f.request(cmd)
			if err != nil {
				return err
			}

			cc, err := newYgoprodeckClient().Search(cmd.Context(), r)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), cc)
			}
			for _, c := range cc {
				printCard(cmd.OutOrStdout(), c)
			}

			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the cards as json array")

	return cmd
}

func printJSON(w io.Writer, cc []cards.Card) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(cards.List(cc))
}

// printCard prints id, name and the most important stats of the card in the color of its kind.
func printCard(w io.Writer, c cards.Card) {
	info := c.Info()
	line := fmt.Sprintf("%-9d %s [%s]", info.ID, info.Name, info.HumanReadableType)
	if stats := cardStats(c); stats != "" {
		line += " " + stats
	}

	clr, ok := kindColors[c.Kind()]
	if !ok {
		clr = color.New(color.Reset)
	}
	_, _ = clr.Fprintln(w, line)
}

func cardStats(c cards.Card) string {
	switch v := c.(type) {
	case *cards.NormalMonster:
		return monsterStats(v.Attribute, v.Race, fmt.Sprintf("Level %d", v.Level), v.Atk, &v.Def)
	case *cards.EffectMonster:
		return monsterStats(v.Attribute, v.Race, fmt.Sprintf("Level %d", v.Level), v.Atk, &v.Def)
	case *cards.RitualMonster:
		return monsterStats(v.Attribute, v.Race, fmt.Sprintf("Level %d", v.Level), v.Atk, &v.Def)
	case *cards.FusionMonster:
		return monsterStats(v.Attribute, v.Race, fmt.Sprintf("Level %d", v.Level), v.Atk, &v.Def)
	case *cards.SynchroMonster:
		return monsterStats(v.Attribute, v.Race, fmt.Sprintf("Level %d", v.Level), v.Atk, &v.Def)
	case *cards.XyzMonster:
		return monsterStats(v.Attribute, v.Race, fmt.Sprintf("Rank %d", v.Rank), v.Atk, &v.Def)
	case *cards.PendulumMonster:
		return monsterStats(v.Attribute, v.Race, fmt.Sprintf("Level %d Scale %d", v.Level, v.Scale), v.Atk, &v.Def)
	case *cards.LinkMonster:
		markers := make([]string, 0, len(v.LinkMarkers))
		for _, m := range v.LinkMarkers {
			markers = append(markers, m.String())
		}
		link := fmt.Sprintf("Link %d %s", v.LinkVal, strings.Join(markers, ","))

		return monsterStats(v.Attribute, v.Race, link, v.Atk, nil)
	case *cards.SpellCard:
		return v.Race.String()
	case *cards.TrapCard:
		return v.Race.String()
	default:
		return ""
	}
}

func monsterStats(attr cards.Attribute, race cards.MonsterRace, level string, atk int32, def *int32) string {
	stats := fmt.Sprintf("%s %s %s ATK %s", attr, race, level, points(atk))
	if def != nil {
		stats += " DEF " + points(*def)
	}

	return stats
}

// points formats attack or defense, -1 is shown as ?.
func points(v int32) string {
	if v < 0 {
		return "?"
	}

	return fmt.Sprintf("%d", v)
}
