package query

import (
	"fmt"
	"slices"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/cards"
)

// CardType A value of the type filter. Next to the monster types the API accepts the
// non-monster card types.
type CardType string

const (
	TypeEffectMonster                = CardType(cards.TypeEffectMonster)
	TypeFlipEffectMonster            = CardType(cards.TypeFlipEffectMonster)
	TypeFlipTunerEffectMonster       = CardType(cards.TypeFlipTunerEffectMonster)
	TypeGeminiMonster                = CardType(cards.TypeGeminiMonster)
	TypeNormalMonster                = CardType(cards.TypeNormalMonster)
	TypeNormalTunerMonster           = CardType(cards.TypeNormalTunerMonster)
	TypePendulumEffectMonster        = CardType(cards.TypePendulumEffectMonster)
	TypePendulumEffectRitualMonster  = CardType(cards.TypePendulumEffectRitualMonster)
	TypePendulumFlipEffectMonster    = CardType(cards.TypePendulumFlipEffectMonster)
	TypePendulumNormalMonster        = CardType(cards.TypePendulumNormalMonster)
	TypePendulumTunerEffectMonster   = CardType(cards.TypePendulumTunerEffectMonster)
	TypeRitualEffectMonster          = CardType(cards.TypeRitualEffectMonster)
	TypeRitualMonster                = CardType(cards.TypeRitualMonster)
	TypeSpiritMonster                = CardType(cards.TypeSpiritMonster)
	TypeToonMonster                  = CardType(cards.TypeToonMonster)
	TypeTunerMonster                 = CardType(cards.TypeTunerMonster)
	TypeUnionEffectMonster           = CardType(cards.TypeUnionEffectMonster)
	TypeFusionMonster                = CardType(cards.TypeFusionMonster)
	TypeLinkMonster                  = CardType(cards.TypeLinkMonster)
	TypePendulumEffectFusionMonster  = CardType(cards.TypePendulumEffectFusionMonster)
	TypeSynchroMonster               = CardType(cards.TypeSynchroMonster)
	TypeSynchroPendulumEffectMonster = CardType(cards.TypeSynchroPendulumEffectMonster)
	TypeSynchroTunerMonster          = CardType(cards.TypeSynchroTunerMonster)
	TypeXYZMonster                   = CardType(cards.TypeXYZMonster)
	TypeXYZPendulumEffectMonster     = CardType(cards.TypeXYZPendulumEffectMonster)
	TypeToken                        = CardType(cards.TypeToken)
	TypeSpellCard                    = CardType("Spell Card")
	TypeTrapCard                     = CardType("Trap Card")
	TypeSkillCard                    = CardType("Skill Card")
)

var cardTypes = func() []CardType {
	result := make([]CardType, 0, len(cards.MonsterTypes())+3)
	for _, t := range cards.MonsterTypes() {
		result = append(result, CardType(t))
	}

	return append(result, TypeSpellCard, TypeTrapCard, TypeSkillCard)
}()

// CardTypes returns all values accepted by the type filter.
func CardTypes() []CardType {
	return slices.Clone(cardTypes)
}

func ParseCardType(s string) (CardType, error) {
	v := CardType(s)
	if !slices.Contains(cardTypes, v) {
		return "", fmt.Errorf("%q is not a valid card type: %w", s, cards.ErrUnknownValue)
	}

	return v, nil
}

func (t CardType) String() string {
	return string(t)
}
