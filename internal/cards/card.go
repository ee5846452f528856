package cards

import (
	"cmp"
	"slices"
	"strconv"
)

// Kind The variant of a card. The value is the canonical frameType the API uses for the variant.
type Kind string

const (
	KindNormal   Kind = "normal"
	KindEffect   Kind = "effect"
	KindRitual   Kind = "ritual"
	KindFusion   Kind = "fusion"
	KindSynchro  Kind = "synchro"
	KindXyz      Kind = "xyz"
	KindLink     Kind = "link"
	KindPendulum Kind = "normal_pendulum"
	KindSpell    Kind = "spell"
	KindTrap     Kind = "trap"
	KindSkill    Kind = "skill"
	KindToken    Kind = "token"
)

// IsMonster returns true for all monster variants.
func (k Kind) IsMonster() bool {
	switch k {
	case KindNormal, KindEffect, KindRitual, KindFusion, KindSynchro, KindXyz, KindLink, KindPendulum:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

// Card Any Yu-Gi-Oh! card. The set of implementations is closed, a card is always one of
// *NormalMonster, *EffectMonster, *RitualMonster, *FusionMonster, *SynchroMonster, *XyzMonster,
// *LinkMonster, *PendulumMonster, *SpellCard, *TrapCard, *Skill or *Token.
type Card interface {
	Kind() Kind
	Info() CardInfo
	fields() []field
}

// CardID The unique passcode of a card.
type CardID uint64

func (id CardID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// CardInfo Metadata shared by all cards. It is embedded into every variant, so its fields are
// part of the top level object on the wire.
type CardInfo struct {
	ID                CardID
	Name              string
	Desc              string
	HumanReadableType string
	URL               string
	Sets              []CardSet
	Images            []CardImage
	Prices            []CardPrices
}

// Info returns the shared metadata.
func (i CardInfo) Info() CardInfo {
	return i
}

func (i *CardInfo) fields() []field {
	return []field{
		required("id", &i.ID),
		required("name", &i.Name),
		required("desc", &i.Desc),
		required("humanReadableCardType", &i.HumanReadableType),
		required("ygoprodeck_url", &i.URL),
		optionalList("card_sets", &i.Sets),
		requiredList("card_images", &i.Images),
		optionalList("card_prices", &i.Prices),
	}
}

// CardSet A print of the card in a set.
type CardSet struct {
	Name       string `json:"set_name"`
	Code       string `json:"set_code"`
	Rarity     string `json:"set_rarity"`
	RarityCode string `json:"set_rarity_code"`
	Price      string `json:"set_price"`
}

func (s *CardSet) fields() []field {
	return []field{
		required("set_name", &s.Name),
		required("set_code", &s.Code),
		required("set_rarity", &s.Rarity),
		required("set_rarity_code", &s.RarityCode),
		required("set_price", &s.Price),
	}
}

func (s *CardSet) UnmarshalJSON(data []byte) error { return unmarshalRecord(s, data) }

// CardImage The artwork of a card in full, small and cropped size.
type CardImage struct {
	ID         uint64 `json:"id"`
	URL        string `json:"image_url"`
	URLSmall   string `json:"image_url_small"`
	URLCropped string `json:"image_url_cropped"`
}

func (i *CardImage) fields() []field {
	return []field{
		required("id", &i.ID),
		required("image_url", &i.URL),
		required("image_url_small", &i.URLSmall),
		required("image_url_cropped", &i.URLCropped),
	}
}

func (i *CardImage) UnmarshalJSON(data []byte) error { return unmarshalRecord(i, data) }

// CardPrices Price quotes per vendor. The API delivers prices as strings.
type CardPrices struct {
	Cardmarket   string `json:"cardmarket_price"`
	TCGPlayer    string `json:"tcgplayer_price"`
	Ebay         string `json:"ebay_price"`
	Amazon       string `json:"amazon_price"`
	CoolStuffInc string `json:"coolstuffinc_price"`
}

func (p *CardPrices) fields() []field {
	return []field{
		required("cardmarket_price", &p.Cardmarket),
		required("tcgplayer_price", &p.TCGPlayer),
		required("ebay_price", &p.Ebay),
		required("amazon_price", &p.Amazon),
		required("coolstuffinc_price", &p.CoolStuffInc),
	}
}

func (p *CardPrices) UnmarshalJSON(data []byte) error { return unmarshalRecord(p, data) }

// NormalMonster A monster without effect.
type NormalMonster struct {
	CardInfo
	Race      MonsterRace
	Attribute Attribute
	Level     uint8
	Atk       int32
	Def       int32
	CardType  MonsterType
}

func (m *NormalMonster) Kind() Kind { return KindNormal }

func (m *NormalMonster) fields() []field {
	return append(m.CardInfo.fields(),
		required("race", &m.Race),
		required("attribute", &m.Attribute),
		required("level", &m.Level),
		required("atk", &m.Atk),
		required("def", &m.Def),
		required("type", &m.CardType),
	)
}

func (m *NormalMonster) MarshalJSON() ([]byte, error) { return encode(m) }

func (m *NormalMonster) UnmarshalJSON(data []byte) error { return unmarshalCard(m, data) }

// EffectMonster A monster with a continuous or triggered effect.
type EffectMonster struct {
	CardInfo
	Race      MonsterRace
	Attribute Attribute
	Atk       int32
	Def       int32
	Level     uint8
	CardType  MonsterType
}

func (m *EffectMonster) Kind() Kind { return KindEffect }

func (m *EffectMonster) fields() []field {
	return append(m.CardInfo.fields(),
		required("race", &m.Race),
		required("attribute", &m.Attribute),
		required("atk", &m.Atk),
		required("def", &m.Def),
		required("level", &m.Level),
		required("type", &m.CardType),
	)
}

func (m *EffectMonster) MarshalJSON() ([]byte, error) { return encode(m) }

func (m *EffectMonster) UnmarshalJSON(data []byte) error { return unmarshalCard(m, data) }

// RitualMonster A monster summoned by a ritual spell.
type RitualMonster struct {
	CardInfo
	Race      MonsterRace
	Attribute Attribute
	Atk       int32
	Def       int32
	Level     uint8
	CardType  MonsterType
}

func (m *RitualMonster) Kind() Kind { return KindRitual }

func (m *RitualMonster) fields() []field {
	return append(m.CardInfo.fields(),
		required("race", &m.Race),
		required("attribute", &m.Attribute),
		required("atk", &m.Atk),
		required("def", &m.Def),
		required("level", &m.Level),
		required("type", &m.CardType),
	)
}

func (m *RitualMonster) MarshalJSON() ([]byte, error) { return encode(m) }

func (m *RitualMonster) UnmarshalJSON(data []byte) error { return unmarshalCard(m, data) }

// FusionMonster A monster of the extra deck summoned by fusion.
type FusionMonster struct {
	CardInfo
	Race      MonsterRace
	Attribute Attribute
	Atk       int32
	Def       int32
	Level     uint8
	CardType  MonsterType
}

func (m *FusionMonster) Kind() Kind { return KindFusion }

func (m *FusionMonster) fields() []field {
	return append(m.CardInfo.fields(),
		required("race", &m.Race),
		required("attribute", &m.Attribute),
		required("atk", &m.Atk),
		required("def", &m.Def),
		required("level", &m.Level),
		required("type", &m.CardType),
	)
}

func (m *FusionMonster) MarshalJSON() ([]byte, error) { return encode(m) }

func (m *FusionMonster) UnmarshalJSON(data []byte) error { return unmarshalCard(m, data) }

// SynchroMonster A monster of the extra deck summoned with a tuner.
type SynchroMonster struct {
	CardInfo
	Race      MonsterRace
	Attribute Attribute
	Atk       int32
	Def       int32
	Level     uint8
	CardType  MonsterType
}

func (m *SynchroMonster) Kind() Kind { return KindSynchro }

func (m *SynchroMonster) fields() []field {
	return append(m.CardInfo.fields(),
		required("race", &m.Race),
		required("attribute", &m.Attribute),
		required("atk", &m.Atk),
		required("def", &m.Def),
		required("level", &m.Level),
		required("type", &m.CardType),
	)
}

func (m *SynchroMonster) MarshalJSON() ([]byte, error) { return encode(m) }

func (m *SynchroMonster) UnmarshalJSON(data []byte) error { return unmarshalCard(m, data) }

// XyzMonster An Xyz monster has a rank instead of a level. The API still calls it level.
type XyzMonster struct {
	CardInfo
	Race      MonsterRace
	Attribute Attribute
	Atk       int32
	Def       int32
	Rank      uint8
	CardType  MonsterType
}

func (m *XyzMonster) Kind() Kind { return KindXyz }

func (m *XyzMonster) fields() []field {
	return append(m.CardInfo.fields(),
		required("race", &m.Race),
		required("attribute", &m.Attribute),
		required("atk", &m.Atk),
		required("def", &m.Def),
		required("level", &m.Rank),
		required("type", &m.CardType),
	)
}

func (m *XyzMonster) MarshalJSON() ([]byte, error) { return encode(m) }

func (m *XyzMonster) UnmarshalJSON(data []byte) error { return unmarshalCard(m, data) }

// PendulumMonster Covers every pendulum frame (normal, effect, ritual, fusion, synchro and xyz pendulum).
type PendulumMonster struct {
	CardInfo
	Race      MonsterRace
	Attribute Attribute
	Atk       int32
	Def       int32
	Level     uint8
	CardType  MonsterType
	Scale     uint8
}

func (m *PendulumMonster) Kind() Kind { return KindPendulum }

func (m *PendulumMonster) fields() []field {
	return append(m.CardInfo.fields(),
		required("race", &m.Race),
		required("attribute", &m.Attribute),
		required("atk", &m.Atk),
		required("def", &m.Def),
		required("level", &m.Level),
		required("type", &m.CardType),
		required("scale", &m.Scale),
	)
}

func (m *PendulumMonster) MarshalJSON() ([]byte, error) { return encode(m) }

func (m *PendulumMonster) UnmarshalJSON(data []byte) error { return unmarshalCard(m, data) }

// LinkMonster A link monster has no defense and no level.
// Atk is -1 if the attack is not fixed (shown as ? on the card).
type LinkMonster struct {
	CardInfo
	Race        MonsterRace
	Attribute   Attribute
	Atk         int32
	LinkVal     uint8
	CardType    MonsterType
	LinkMarkers []LinkMarker
}

func (m *LinkMonster) Kind() Kind { return KindLink }

func (m *LinkMonster) fields() []field {
	return append(m.CardInfo.fields(),
		required("race", &m.Race),
		required("attribute", &m.Attribute),
		required("atk", &m.Atk),
		required("linkval", &m.LinkVal),
		required("type", &m.CardType),
		requiredList("linkmarkers", &m.LinkMarkers),
	)
}

func (m *LinkMonster) MarshalJSON() ([]byte, error) { return encode(m) }

func (m *LinkMonster) UnmarshalJSON(data []byte) error { return unmarshalCard(m, data) }

// SpellCard A spell card, its race is the spell subtype.
type SpellCard struct {
	CardInfo
	Race SpellRace
}

func (s *SpellCard) Kind() Kind { return KindSpell }

func (s *SpellCard) fields() []field {
	return append(s.CardInfo.fields(), required("race", &s.Race))
}

func (s *SpellCard) MarshalJSON() ([]byte, error) { return encode(s) }

func (s *SpellCard) UnmarshalJSON(data []byte) error { return unmarshalCard(s, data) }

// TrapCard A trap card, its race is the trap subtype.
type TrapCard struct {
	CardInfo
	Race TrapRace
}

func (t *TrapCard) Kind() Kind { return KindTrap }

func (t *TrapCard) fields() []field {
	return append(t.CardInfo.fields(), required("race", &t.Race))
}

func (t *TrapCard) MarshalJSON() ([]byte, error) { return encode(t) }

func (t *TrapCard) UnmarshalJSON(data []byte) error { return unmarshalCard(t, data) }

// Skill A skill card of the Speed Duel format.
type Skill struct {
	CardInfo
}

func (s *Skill) Kind() Kind { return KindSkill }

func (s *Skill) fields() []field { return s.CardInfo.fields() }

func (s *Skill) MarshalJSON() ([]byte, error) { return encode(s) }

func (s *Skill) UnmarshalJSON(data []byte) error { return unmarshalCard(s, data) }

// Token A monster token created by another card.
type Token struct {
	CardInfo
}

func (t *Token) Kind() Kind { return KindToken }

func (t *Token) fields() []field { return t.CardInfo.fields() }

func (t *Token) MarshalJSON() ([]byte, error) { return encode(t) }

func (t *Token) UnmarshalJSON(data []byte) error { return unmarshalCard(t, data) }

// newCard returns an empty card for the given kind or nil for an unknown kind.
func newCard(k Kind) Card {
	switch k {
	case KindNormal:
		return &NormalMonster{}
	case KindEffect:
		return &EffectMonster{}
	case KindRitual:
		return &RitualMonster{}
	case KindFusion:
		return &FusionMonster{}
	case KindSynchro:
		return &SynchroMonster{}
	case KindXyz:
		return &XyzMonster{}
	case KindLink:
		return &LinkMonster{}
	case KindPendulum:
		return &PendulumMonster{}
	case KindSpell:
		return &SpellCard{}
	case KindTrap:
		return &TrapCard{}
	case KindSkill:
		return &Skill{}
	case KindToken:
		return &Token{}
	default:
		return nil
	}
}

// SortByID sorts the cards in place by ascending id. Cards with the same id keep their order.
func SortByID(cc []Card) {
	slices.SortStableFunc(cc, func(a, b Card) int {
		return cmp.Compare(a.Info().ID, b.Info().ID)
	})
}

// Dedupe returns the cards without duplicated ids. The first occurrence of an id wins.
func Dedupe(cc []Card) []Card {
	seen := make(map[CardID]struct{}, len(cc))
	result := make([]Card, 0, len(cc))
	for _, c := range cc {
		id := c.Info().ID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, c)
	}

	return result
}
