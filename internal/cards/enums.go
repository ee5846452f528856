package cards

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownValue is returned when a text does not match any member of an enumeration.
var ErrUnknownValue = errors.New("unknown enumeration value")

func parseEnum[T ~string](s string, name string, members []T) (T, error) {
	v := T(s)
	if !slices.Contains(members, v) {
		return "", fmt.Errorf("%q is not a valid %s: %w", s, name, ErrUnknownValue)
	}

	return v, nil
}

// MonsterRace The race of a monster card. The value is the spelling used by the API.
type MonsterRace string

const (
	RaceAqua         MonsterRace = "Aqua"
	RaceBeast        MonsterRace = "Beast"
	RaceBeastWarrior MonsterRace = "Beast-Warrior"
	RaceCreatorGod   MonsterRace = "Creator-God"
	RaceCyberse      MonsterRace = "Cyberse"
	RaceDinosaur     MonsterRace = "Dinosaur"
	RaceDivineBeast  MonsterRace = "Divine-Beast"
	RaceDragon       MonsterRace = "Dragon"
	RaceFairy        MonsterRace = "Fairy"
	RaceFiend        MonsterRace = "Fiend"
	RaceFish         MonsterRace = "Fish"
	RaceIllusion     MonsterRace = "Illusion"
	RaceInsect       MonsterRace = "Insect"
	RaceMachine      MonsterRace = "Machine"
	RacePlant        MonsterRace = "Plant"
	RacePsychic      MonsterRace = "Psychic"
	RacePyro         MonsterRace = "Pyro"
	RaceReptile      MonsterRace = "Reptile"
	RaceRock         MonsterRace = "Rock"
	RaceSeaSerpent   MonsterRace = "Sea Serpent"
	RaceSpellcaster  MonsterRace = "Spellcaster"
	RaceThunder      MonsterRace = "Thunder"
	RaceWarrior      MonsterRace = "Warrior"
	RaceWingedBeast  MonsterRace = "Winged Beast"
	RaceWyrm         MonsterRace = "Wyrm"
	RaceZombie       MonsterRace = "Zombie"
)

var monsterRaces = []MonsterRace{
	RaceAqua, RaceBeast, RaceBeastWarrior, RaceCreatorGod, RaceCyberse, RaceDinosaur, RaceDivineBeast, RaceDragon,
	RaceFairy, RaceFiend, RaceFish, RaceIllusion, RaceInsect, RaceMachine, RacePlant, RacePsychic, RacePyro,
	RaceReptile, RaceRock, RaceSeaSerpent, RaceSpellcaster, RaceThunder, RaceWarrior, RaceWingedBeast, RaceWyrm,
	RaceZombie,
}

// MonsterRaces returns all known monster races.
func MonsterRaces() []MonsterRace {
	return slices.Clone(monsterRaces)
}

func ParseMonsterRace(s string) (MonsterRace, error) {
	return parseEnum(s, "monster race", monsterRaces)
}

func (r MonsterRace) String() string {
	return string(r)
}

func (r MonsterRace) MarshalText() ([]byte, error) {
	if _, err := ParseMonsterRace(string(r)); err != nil {
		return nil, err
	}

	return []byte(r), nil
}

func (r *MonsterRace) UnmarshalText(text []byte) error {
	v, err := ParseMonsterRace(string(text))
	if err != nil {
		return err
	}
	*r = v

	return nil
}

// SpellRace The kind of spell card, stored by the API in the race field.
type SpellRace string

const (
	SpellNormal     SpellRace = "Normal"
	SpellField      SpellRace = "Field"
	SpellEquip      SpellRace = "Equip"
	SpellContinuous SpellRace = "Continuous"
	SpellQuickPlay  SpellRace = "Quick-Play"
	SpellRitual     SpellRace = "Ritual"
)

var spellRaces = []SpellRace{SpellNormal, SpellField, SpellEquip, SpellContinuous, SpellQuickPlay, SpellRitual}

func SpellRaces() []SpellRace {
	return slices.Clone(spellRaces)
}

func ParseSpellRace(s string) (SpellRace, error) {
	return parseEnum(s, "spell race", spellRaces)
}

func (r SpellRace) String() string {
	return string(r)
}

func (r SpellRace) MarshalText() ([]byte, error) {
	if _, err := ParseSpellRace(string(r)); err != nil {
		return nil, err
	}

	return []byte(r), nil
}

func (r *SpellRace) UnmarshalText(text []byte) error {
	v, err := ParseSpellRace(string(text))
	if err != nil {
		return err
	}
	*r = v

	return nil
}

// TrapRace The kind of trap card, stored by the API in the race field.
type TrapRace string

const (
	TrapNormal     TrapRace = "Normal"
	TrapContinuous TrapRace = "Continuous"
	TrapCounter    TrapRace = "Counter"
)

var trapRaces = []TrapRace{TrapNormal, TrapContinuous, TrapCounter}

func TrapRaces() []TrapRace {
	return slices.Clone(trapRaces)
}

func ParseTrapRace(s string) (TrapRace, error) {
	return parseEnum(s, "trap race", trapRaces)
}

func (r TrapRace) String() string {
	return string(r)
}

func (r TrapRace) MarshalText() ([]byte, error) {
	if _, err := ParseTrapRace(string(r)); err != nil {
		return nil, err
	}

	return []byte(r), nil
}

func (r *TrapRace) UnmarshalText(text []byte) error {
	v, err := ParseTrapRace(string(text))
	if err != nil {
		return err
	}
	*r = v

	return nil
}

// MonsterType The type line of a monster card, e.g. "Synchro Tuner Monster".
type MonsterType string

const (
	TypeEffectMonster                MonsterType = "Effect Monster"
	TypeFlipEffectMonster            MonsterType = "Flip Effect Monster"
	TypeFlipTunerEffectMonster       MonsterType = "Flip Tuner Effect Monster"
	TypeGeminiMonster                MonsterType = "Gemini Monster"
	TypeNormalMonster                MonsterType = "Normal Monster"
	TypeNormalTunerMonster           MonsterType = "Normal Tuner Monster"
	TypePendulumEffectMonster        MonsterType = "Pendulum Effect Monster"
	TypePendulumEffectRitualMonster  MonsterType = "Pendulum Effect Ritual Monster"
	TypePendulumFlipEffectMonster    MonsterType = "Pendulum Flip Effect Monster"
	TypePendulumNormalMonster        MonsterType = "Pendulum Normal Monster"
	TypePendulumTunerEffectMonster   MonsterType = "Pendulum Tuner Effect Monster"
	TypeRitualEffectMonster          MonsterType = "Ritual Effect Monster"
	TypeRitualMonster                MonsterType = "Ritual Monster"
	TypeSpiritMonster                MonsterType = "Spirit Monster"
	TypeToonMonster                  MonsterType = "Toon Monster"
	TypeTunerMonster                 MonsterType = "Tuner Monster"
	TypeUnionEffectMonster           MonsterType = "Union Effect Monster"
	TypeFusionMonster                MonsterType = "Fusion Monster"
	TypeLinkMonster                  MonsterType = "Link Monster"
	TypePendulumEffectFusionMonster  MonsterType = "Pendulum Effect Fusion Monster"
	TypeSynchroMonster               MonsterType = "Synchro Monster"
	TypeSynchroPendulumEffectMonster MonsterType = "Synchro Pendulum Effect Monster"
	TypeSynchroTunerMonster          MonsterType = "Synchro Tuner Monster"
	TypeXYZMonster                   MonsterType = "XYZ Monster"
	TypeXYZPendulumEffectMonster     MonsterType = "XYZ Pendulum Effect Monster"
	TypeToken                        MonsterType = "Token"
)

var monsterTypes = []MonsterType{
	TypeEffectMonster, TypeFlipEffectMonster, TypeFlipTunerEffectMonster, TypeGeminiMonster, TypeNormalMonster,
	TypeNormalTunerMonster, TypePendulumEffectMonster, TypePendulumEffectRitualMonster, TypePendulumFlipEffectMonster,
	TypePendulumNormalMonster, TypePendulumTunerEffectMonster, TypeRitualEffectMonster, TypeRitualMonster,
	TypeSpiritMonster, TypeToonMonster, TypeTunerMonster, TypeUnionEffectMonster, TypeFusionMonster, TypeLinkMonster,
	TypePendulumEffectFusionMonster, TypeSynchroMonster, TypeSynchroPendulumEffectMonster, TypeSynchroTunerMonster,
	TypeXYZMonster, TypeXYZPendulumEffectMonster, TypeToken,
}

func MonsterTypes() []MonsterType {
	return slices.Clone(monsterTypes)
}

func ParseMonsterType(s string) (MonsterType, error) {
	return parseEnum(s, "monster type", monsterTypes)
}

func (t MonsterType) String() string {
	return string(t)
}

func (t MonsterType) MarshalText() ([]byte, error) {
	if _, err := ParseMonsterType(string(t)); err != nil {
		return nil, err
	}

	return []byte(t), nil
}

func (t *MonsterType) UnmarshalText(text []byte) error {
	v, err := ParseMonsterType(string(text))
	if err != nil {
		return err
	}
	*t = v

	return nil
}

// Attribute The attribute of a monster card. The API spells all attributes in upper case.
type Attribute string

const (
	AttributeLight  Attribute = "LIGHT"
	AttributeDark   Attribute = "DARK"
	AttributeWater  Attribute = "WATER"
	AttributeFire   Attribute = "FIRE"
	AttributeEarth  Attribute = "EARTH"
	AttributeWind   Attribute = "WIND"
	AttributeDivine Attribute = "DIVINE"
)

var attributes = []Attribute{
	AttributeLight, AttributeDark, AttributeWater, AttributeFire, AttributeEarth, AttributeWind, AttributeDivine,
}

func Attributes() []Attribute {
	return slices.Clone(attributes)
}

func ParseAttribute(s string) (Attribute, error) {
	return parseEnum(s, "attribute", attributes)
}

func (a Attribute) String() string {
	return string(a)
}

func (a Attribute) MarshalText() ([]byte, error) {
	if _, err := ParseAttribute(string(a)); err != nil {
		return nil, err
	}

	return []byte(a), nil
}

func (a *Attribute) UnmarshalText(text []byte) error {
	v, err := ParseAttribute(string(text))
	if err != nil {
		return err
	}
	*a = v

	return nil
}

// LinkMarker The direction of a link arrow.
type LinkMarker string

const (
	MarkerTop         LinkMarker = "Top"
	MarkerTopLeft     LinkMarker = "Top-Left"
	MarkerTopRight    LinkMarker = "Top-Right"
	MarkerLeft        LinkMarker = "Left"
	MarkerRight       LinkMarker = "Right"
	MarkerBottom      LinkMarker = "Bottom"
	MarkerBottomLeft  LinkMarker = "Bottom-Left"
	MarkerBottomRight LinkMarker = "Bottom-Right"
)

var linkMarkers = []LinkMarker{
	MarkerTop, MarkerTopLeft, MarkerTopRight, MarkerLeft, MarkerRight, MarkerBottom, MarkerBottomLeft,
	MarkerBottomRight,
}

func LinkMarkers() []LinkMarker {
	return slices.Clone(linkMarkers)
}

func ParseLinkMarker(s string) (LinkMarker, error) {
	return parseEnum(s, "link marker", linkMarkers)
}

func (m LinkMarker) String() string {
	return string(m)
}

func (m LinkMarker) MarshalText() ([]byte, error) {
	if _, err := ParseLinkMarker(string(m)); err != nil {
		return nil, err
	}

	return []byte(m), nil
}

func (m *LinkMarker) UnmarshalText(text []byte) error {
	v, err := ParseLinkMarker(string(text))
	if err != nil {
		return err
	}
	*m = v

	return nil
}
