package cards

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"
)

// Record The flat form of a card as it is persisted. Fields that don't exist for the kind of the
// card are not valid.
type Record struct {
	ID                CardID
	Kind              Kind
	Name              string
	Desc              string
	HumanReadableType string
	URL               string
	CardType          sql.NullString
	Race              sql.NullString
	Attribute         sql.NullString
	Atk               sql.NullInt32
	Def               sql.NullInt32
	Level             sql.NullInt16 // rank for xyz monsters
	LinkVal           sql.NullInt16
	LinkMarkers       sql.NullString
	Scale             sql.NullInt16
	Sets              []CardSet
	Prices            []CardPrices
	Images            []CardImage
}

// NewRecord flattens the card.
func NewRecord(c Card) *Record {
	info := c.Info()
	r := &Record{
		ID:                info.ID,
		Kind:              c.Kind(),
		Name:              info.Name,
		Desc:              info.Desc,
		HumanReadableType: info.HumanReadableType,
		URL:               info.URL,
		Sets:              info.Sets,
		Prices:            info.Prices,
		Images:            info.Images,
	}

	switch v := c.(type) {
	case *NormalMonster:
		r.monster(v.CardType, v.Race, v.Attribute, v.Atk)
		r.Def = nullInt32(v.Def)
		r.Level = nullInt16(v.Level)
	case *EffectMonster:
		r.monster(v.CardType, v.Race, v.Attribute, v.Atk)
		r.Def = nullInt32(v.Def)
		r.Level = nullInt16(v.Level)
	case *RitualMonster:
		r.monster(v.CardType, v.Race, v.Attribute, v.Atk)
		r.Def = nullInt32(v.Def)
		r.Level = nullInt16(v.Level)
	case *FusionMonster:
		r.monster(v.CardType, v.Race, v.Attribute, v.Atk)
		r.Def = nullInt32(v.Def)
		r.Level = nullInt16(v.Level)
	case *SynchroMonster:
		r.monster(v.CardType, v.Race, v.Attribute, v.Atk)
		r.Def = nullInt32(v.Def)
		r.Level = nullInt16(v.Level)
	case *XyzMonster:
		r.monster(v.CardType, v.Race, v.Attribute, v.Atk)
		r.Def = nullInt32(v.Def)
		r.Level = nullInt16(v.Rank)
	case *PendulumMonster:
		r.monster(v.CardType, v.Race, v.Attribute, v.Atk)
		r.Def = nullInt32(v.Def)
		r.Level = nullInt16(v.Level)
		r.Scale = nullInt16(v.Scale)
	case *LinkMonster:
		r.monster(v.CardType, v.Race, v.Attribute, v.Atk)
		r.LinkVal = nullInt16(v.LinkVal)
		markers := make([]string, 0, len(v.LinkMarkers))
		for _, m := range v.LinkMarkers {
			markers = append(markers, m.String())
		}
		r.LinkMarkers = nullString(strings.Join(markers, ","))
	case *SpellCard:
		r.Race = nullString(v.Race.String())
	case *TrapCard:
		r.Race = nullString(v.Race.String())
	}

	return r
}

func (r *Record) monster(t MonsterType, race MonsterRace, attr Attribute, atk int32) {
	r.CardType = nullString(t.String())
	r.Race = nullString(race.String())
	r.Attribute = nullString(attr.String())
	r.Atk = nullInt32(atk)
}

func (r *Record) isValid() error {
	if r.ID == 0 {
		return fmt.Errorf("field 'id' must not be empty")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("field 'name' must not be empty in card %d", r.ID)
	}
	if _, ok := frameTypes[r.Kind.String()]; !ok {
		return fmt.Errorf("unknown kind %q in card %d", r.Kind, r.ID)
	}

	return nil
}

// Diff Compares the card fields without sets, prices and images and returns all differences.
func (r *Record) Diff(other *Record) *Changeset {
	changes := NewDiff()

	compare(changes, "Kind", r.Kind, other.Kind)
	compare(changes, "Name", r.Name, other.Name)
	compare(changes, "Desc", r.Desc, other.Desc)
	compare(changes, "HumanReadableType", r.HumanReadableType, other.HumanReadableType)
	compare(changes, "URL", r.URL, other.URL)
	compare(changes, "CardType", r.CardType, other.CardType)
	compare(changes, "Race", r.Race, other.Race)
	compare(changes, "Attribute", r.Attribute, other.Attribute)
	compare(changes, "Atk", r.Atk, other.Atk)
	compare(changes, "Def", r.Def, other.Def)
	compare(changes, "Level", r.Level, other.Level)
	compare(changes, "LinkVal", r.LinkVal, other.LinkVal)
	compare(changes, "LinkMarkers", r.LinkMarkers, other.LinkMarkers)
	compare(changes, "Scale", r.Scale, other.Scale)

	return changes
}

func setsEqual(a, b []CardSet) bool {
	return slices.Equal(a, b)
}

func pricesEqual(a, b []CardPrices) bool {
	return slices.Equal(a, b)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func nullInt32(v int32) sql.NullInt32 {
	return sql.NullInt32{Int32: v, Valid: true}
}

func nullInt16(v uint8) sql.NullInt16 {
	return sql.NullInt16{Int16: int16(v), Valid: true}
}
