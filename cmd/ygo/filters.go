package main

import (
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/cards"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/query"
	"github.com/spf13/cobra"
)

// filters Binds the search predicates to command flags. Only flags set by the user become predicates.
type filters struct {
	names       []string
	fuzzyName   string
	atk         int32
	def         int32
	level       uint8
	cardTypes   []string
	races       []string
	attributes  []string
	link        uint8
	linkMarkers []string
	scale       uint8
	cardSet     string
}

func (f *filters) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVar(&f.names, "name", nil, "exact card name, repeat for multiple names")
	fl.StringVar(&f.fuzzyName, "fname", "", "part of the card name")
	fl.Int32Var(&f.atk, "atk", 0, "attack, -1 for ?")
	fl.Int32Var(&f.def, "def", 0, "defense")
	fl.Uint8Var(&f.level, "level", 0, "level or rank")
	fl.StringSliceVar(&f.cardTypes, "type", nil, "card type, e.g. \"Effect Monster\" or \"Spell Card\"")
	fl.StringSliceVar(&f.races, "race", nil, "monster race, e.g. Dragon")
	fl.StringSliceVar(&f.attributes, "attribute", nil, "monster attribute, e.g. DARK")
	fl.Uint8Var(&f.link, "link", 0, "link value")
	fl.StringSliceVar(&f.linkMarkers, "linkmarker", nil, "link marker, e.g. Top-Left")
	fl.Uint8Var(&f.scale, "scale", 0, "pendulum scale")
	fl.StringVar(&f.cardSet, "cardset", "", "name of the card set")
}

func (f *filters) request(cmd *cobra.Command) (query.Request, error) {
	changed := cmd.Flags().Changed
	b := query.NewBuilder()

	for _, n := range f.names {
		b.WithName(n)
	}
	if changed("fname") {
		b.WithFuzzyName(f.fuzzyName)
	}
	if changed("atk") {
		b.WithAtk(f.atk)
	}
	if changed("def") {
		b.WithDef(f.def)
	}
	if changed("level") {
		b.WithLevel(f.level)
	}
	if err := parseEach(f.cardTypes, query.ParseCardType, b.WithType); err != nil {
		return query.Request{}, err
	}
	if err := parseEach(f.races, cards.ParseMonsterRace, b.WithRace); err != nil {
		return query.Request{}, err
	}
	if err := parseEach(f.attributes, cards.ParseAttribute, b.WithAttribute); err != nil {
		return query.Request{}, err
	}
	if changed("link") {
		b.WithLink(f.link)
	}
	if err := parseEach(f.linkMarkers, cards.ParseLinkMarker, b.WithLinkMarker); err != nil {
		return query.Request{}, err
	}
	if changed("scale") {
		b.WithScale(f.scale)
	}
	if changed("cardset") {
		b.WithCardSet(f.cardSet)
	}

	return b.Build(), nil
}

func parseEach[T any](values []string, parse func(string) (T, error), add func(T) *query.Builder) error {
	for _, v := range values {
		parsed, err := parse(v)
		if err != nil {
			return err
		}
		add(parsed)
	}

	return nil
}
