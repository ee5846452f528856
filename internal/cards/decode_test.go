package cards_test

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/cards"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/test"
	"github.com/nsf/jsondiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNormalMonster(t *testing.T) {
	want := &cards.NormalMonster{
		CardInfo: cards.CardInfo{
			ID:                78780140,
			Name:              "Trent",
			Desc:              "A guardian of the woods, this massive tree is believed to be immortal.",
			HumanReadableType: "Normal Monster",
			URL:               "https://ygoprodeck.com/card/trent-6617",
			Sets: []cards.CardSet{
				{
					Name:       "Legacy of Darkness",
					Code:       "LOD-EN045",
					Rarity:     "Common",
					RarityCode: "(C)",
					Price:      "1.5",
				},
			},
			Images: []cards.CardImage{
				{
					ID:         78780140,
					URL:        "https://images.ygoprodeck.com/images/cards/78780140.jpg",
					URLSmall:   "https://images.ygoprodeck.com/images/cards_small/78780140.jpg",
					URLCropped: "https://images.ygoprodeck.com/images/cards_cropped/78780140.jpg",
				},
			},
			Prices: []cards.CardPrices{
				{
					Cardmarket:   "0.10",
					TCGPlayer:    "0.19",
					Ebay:         "0.99",
					Amazon:       "0.50",
					CoolStuffInc: "0.49",
				},
			},
		},
		Race:      cards.RacePlant,
		Attribute: cards.AttributeEarth,
		Level:     5,
		Atk:       1500,
		Def:       1800,
		CardType:  cards.TypeNormalMonster,
	}

	got, err := cards.Decode(fixture(t, "trent.json"))

	require.NoError(t, err)
	assert.Equal(t, cards.KindNormal, got.Kind())
	assert.Equal(t, want, got)
}

func TestDecodeLinkMonster(t *testing.T) {
	got, err := cards.Decode(fixture(t, "apollousa.json"))

	require.NoError(t, err)
	link, ok := got.(*cards.LinkMonster)
	require.True(t, ok, "expected link monster but got %T", got)
	assert.Equal(t, cards.CardID(4280258), link.ID)
	assert.Equal(t, "Apollousa, Bow of the Goddess", link.Name)
	assert.Equal(t, cards.RaceFairy, link.Race)
	assert.Equal(t, cards.AttributeWind, link.Attribute)
	assert.Equal(t, int32(-1), link.Atk)
	assert.Equal(t, uint8(4), link.LinkVal)
	assert.Equal(t, cards.TypeLinkMonster, link.CardType)
	assert.Equal(t, "Link Effect Monster", link.HumanReadableType)
	assert.Equal(t, []cards.LinkMarker{
		cards.MarkerTop,
		cards.MarkerBottomLeft,
		cards.MarkerBottom,
		cards.MarkerBottomRight,
	}, link.LinkMarkers)
}

func TestDecodeOptionalCollectionsDefaultToEmpty(t *testing.T) {
	got, err := cards.Decode(fixture(t, "apollousa.json"))

	require.NoError(t, err)
	assert.Empty(t, got.Info().Sets)
	assert.Empty(t, got.Info().Prices)
	assert.Len(t, got.Info().Images, 1)
}

func TestDecodePendulumAliases(t *testing.T) {
	want := &cards.PendulumMonster{
		CardInfo: cards.CardInfo{
			ID:   16178681,
			Name: "Odd-Eyes Pendulum Dragon",
			Desc: "[ Pendulum Effect ] \r\nYou can reduce the battle damage you take from an attack involving a " +
				"Pendulum Monster you control to 0.",
			HumanReadableType: "Pendulum Effect Monster",
			URL:               "https://ygoprodeck.com/card/odd-eyes-pendulum-dragon-8",
			Images: []cards.CardImage{
				{
					ID:         16178681,
					URL:        "https://images.ygoprodeck.com/images/cards/16178681.jpg",
					URLSmall:   "https://images.ygoprodeck.com/images/cards_small/16178681.jpg",
					URLCropped: "https://images.ygoprodeck.com/images/cards_cropped/16178681.jpg",
				},
			},
		},
		Race:      cards.RaceDragon,
		Attribute: cards.AttributeDark,
		Atk:       2500,
		Def:       2000,
		Level:     7,
		CardType:  cards.TypePendulumEffectMonster,
		Scale:     4,
	}
	frames := []string{
		"normal_pendulum",
		"effect_pendulum",
		"ritual_pendulum",
		"fusion_pendulum",
		"synchro_pendulum",
		"xyz_pendulum",
	}

	for _, frame := range frames {
		t.Run(frame, func(t *testing.T) {
			data := withField(t, fixture(t, "odd_eyes.json"), "frameType", frame)

			got, err := cards.Decode(data)

			require.NoError(t, err)
			assert.Equal(t, cards.KindPendulum, got.Kind())
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeXyzMonsterReadsLevelAsRank(t *testing.T) {
	data := withField(t, fixture(t, "trent.json"), "frameType", "xyz")
	data = withField(t, data, "level", 4)
	data = withField(t, data, "type", "XYZ Monster")

	got, err := cards.Decode(data)

	require.NoError(t, err)
	xyz, ok := got.(*cards.XyzMonster)
	require.True(t, ok, "expected xyz monster but got %T", got)
	assert.Equal(t, uint8(4), xyz.Rank)
	assert.Equal(t, cards.TypeXYZMonster, xyz.CardType)
}

func TestDecodeUnknownCategory(t *testing.T) {
	cases := []string{"Normal", "pendulum", "link_pendulum", "", "monster"}

	for _, frame := range cases {
		t.Run(frame, func(t *testing.T) {
			data := withField(t, fixture(t, "trent.json"), "frameType", frame)

			got, err := cards.Decode(data)

			require.ErrorIs(t, err, cards.ErrUnknownCardCategory)
			var catErr *cards.UnknownCategoryError
			require.ErrorAs(t, err, &catErr)
			assert.Equal(t, frame, catErr.Category)
			assert.Nil(t, got)
		})
	}
}

func TestDecodeMissingField(t *testing.T) {
	cases := []struct {
		name      string
		data      []byte
		wantField string
		wantKind  cards.Kind
	}{
		{
			name:      "monster without atk",
			data:      withoutField(t, fixture(t, "trent.json"), "atk"),
			wantField: "atk",
			wantKind:  cards.KindNormal,
		},
		{
			name:      "monster with null atk",
			data:      withField(t, fixture(t, "trent.json"), "atk", nil),
			wantField: "atk",
			wantKind:  cards.KindNormal,
		},
		{
			name:      "link monster without markers",
			data:      withoutField(t, fixture(t, "apollousa.json"), "linkmarkers"),
			wantField: "linkmarkers",
			wantKind:  cards.KindLink,
		},
		{
			name:      "pendulum without scale",
			data:      withoutField(t, fixture(t, "odd_eyes.json"), "scale"),
			wantField: "scale",
			wantKind:  cards.KindPendulum,
		},
		{
			name:      "card without images",
			data:      withoutField(t, fixture(t, "trent.json"), "card_images"),
			wantField: "card_images",
			wantKind:  cards.KindNormal,
		},
		{
			name:      "no frame type",
			data:      withoutField(t, fixture(t, "trent.json"), "frameType"),
			wantField: "frameType",
		},
		{
			name:      "image without url",
			data:      withField(t, fixture(t, "trent.json"), "card_images", []map[string]any{{"id": 78780140}}),
			wantField: "card_images.image_url",
			wantKind:  cards.KindNormal,
		},
		{
			name: "image with upper case keys",
			data: withField(t, fixture(t, "apollousa.json"), "card_images", []map[string]any{{
				"ID": 4280258, "IMAGE_URL": "a", "IMAGE_URL_SMALL": "b", "IMAGE_URL_CROPPED": "c",
			}}),
			wantField: "card_images.id",
			wantKind:  cards.KindLink,
		},
		{
			name:      "empty set",
			data:      withField(t, fixture(t, "trent.json"), "card_sets", []map[string]any{{}}),
			wantField: "card_sets.set_name",
			wantKind:  cards.KindNormal,
		},
		{
			name:      "price of a single vendor",
			data:      withField(t, fixture(t, "trent.json"), "card_prices", []map[string]any{{"cardmarket_price": "1"}}),
			wantField: "card_prices.tcgplayer_price",
			wantKind:  cards.KindNormal,
		},
		{
			name: "set with null price",
			data: withField(t, fixture(t, "trent.json"), "card_sets", []map[string]any{{
				"set_name": "LOD", "set_code": "LOD-EN045", "set_rarity": "Common", "set_rarity_code": "(C)", "set_price": nil,
			}}),
			wantField: "card_sets.set_price",
			wantKind:  cards.KindNormal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := cards.Decode(tc.data)

			require.ErrorIs(t, err, cards.ErrMissingField)
			var fieldErr *cards.MissingFieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.wantField, fieldErr.Field)
			assert.Equal(t, tc.wantKind, fieldErr.Kind)
			assert.Nil(t, got)
		})
	}
}

func TestDecodeLinkMonsterIgnoresDefAndLevel(t *testing.T) {
	data := withField(t, fixture(t, "apollousa.json"), "def", "not a number")

	got, err := cards.Decode(data)

	require.NoError(t, err)
	assert.Equal(t, cards.KindLink, got.Kind())
}

func TestDecodeTypeMismatch(t *testing.T) {
	cases := []struct {
		name      string
		data      []byte
		wantField string
	}{
		{
			name:      "atk as string",
			data:      withField(t, fixture(t, "trent.json"), "atk", "1500"),
			wantField: "atk",
		},
		{
			name:      "level out of range",
			data:      withField(t, fixture(t, "trent.json"), "level", 300),
			wantField: "level",
		},
		{
			name:      "negative id",
			data:      withField(t, fixture(t, "trent.json"), "id", -5),
			wantField: "id",
		},
		{
			name:      "unknown race",
			data:      withField(t, fixture(t, "trent.json"), "race", "Tree"),
			wantField: "race",
		},
		{
			name:      "attribute in wrong case",
			data:      withField(t, fixture(t, "trent.json"), "attribute", "Earth"),
			wantField: "attribute",
		},
		{
			name:      "unknown link marker",
			data:      withField(t, fixture(t, "apollousa.json"), "linkmarkers", []string{"Top", "Up"}),
			wantField: "linkmarkers",
		},
		{
			name:      "frame type as number",
			data:      withField(t, fixture(t, "trent.json"), "frameType", 1),
			wantField: "frameType",
		},
		{
			name:      "sets as object",
			data:      withField(t, fixture(t, "trent.json"), "card_sets", map[string]string{"set_name": "LOD"}),
			wantField: "card_sets",
		},
		{
			name: "image id as string",
			data: withField(t, fixture(t, "trent.json"), "card_images", []map[string]any{{
				"id": "78780140", "image_url": "a", "image_url_small": "b", "image_url_cropped": "c",
			}}),
			wantField: "card_images.id",
		},
		{
			name:      "image as string",
			data:      withField(t, fixture(t, "trent.json"), "card_images", []string{"78780140.jpg"}),
			wantField: "card_images",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := cards.Decode(tc.data)

			require.ErrorIs(t, err, cards.ErrTypeMismatch)
			var typeErr *cards.TypeMismatchError
			require.ErrorAs(t, err, &typeErr)
			assert.Equal(t, tc.wantField, typeErr.Field)
			assert.Nil(t, got)
		})
	}
}

func TestDecodeInvalidRecord(t *testing.T) {
	cases := []string{`[]`, `"normal"`, `{"frameType": "normal"`, `null`}

	for _, data := range cases {
		t.Run(data, func(t *testing.T) {
			_, err := cards.Decode([]byte(data))

			require.ErrorIs(t, err, cards.ErrTypeMismatch)
		})
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	data := withField(t, fixture(t, "trent.json"), "misc_info", []map[string]any{{"views": 1234}})

	got, err := cards.Decode(data)

	require.NoError(t, err)
	assert.Equal(t, "Trent", got.Info().Name)
}

func TestUnmarshalIntoVariantKeepsTargetOnError(t *testing.T) {
	target := cards.NormalMonster{Race: cards.RaceAqua}

	err := json.Unmarshal(withoutField(t, fixture(t, "trent.json"), "race"), &target)

	require.ErrorIs(t, err, cards.ErrMissingField)
	assert.Equal(t, cards.NormalMonster{Race: cards.RaceAqua}, target)
}

func TestDecodeList(t *testing.T) {
	got, err := cards.DecodeList(test.LoadFile(t, filepath.Join("testdata", "envelope.json")))

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.IsType(t, &cards.SpellCard{}, got[0])
	assert.Equal(t, cards.SpellNormal, got[0].(*cards.SpellCard).Race)
	assert.IsType(t, &cards.TrapCard{}, got[1])
	assert.Equal(t, cards.TrapCounter, got[1].(*cards.TrapCard).Race)
	assert.IsType(t, &cards.XyzMonster{}, got[2])
	assert.Equal(t, uint8(4), got[2].(*cards.XyzMonster).Rank)
}

func TestDecodeListFailsOnInvalidCard(t *testing.T) {
	r := strings.NewReader(`{"data": [{"frameType": "unknown"}]}`)

	_, err := cards.DecodeList(r)

	require.ErrorIs(t, err, cards.ErrUnknownCardCategory)
	assert.ErrorContains(t, err, "index 0")
}

func TestEncodeKeepsFieldsOfSource(t *testing.T) {
	cases := []string{"trent.json", "apollousa.json", "odd_eyes.json"}

	for _, name := range cases {
		t.Run(name, func(t *testing.T) {
			// the canonical frame is encoded for every pendulum
			source := withField(t, fixture(t, name), "frameType", frameOf(t, name))
			// optional lists are always encoded
			for _, key := range []string{"card_sets", "card_prices"} {
				if !hasField(t, source, key) {
					source = withField(t, source, key, []any{})
				}
			}
			c, err := cards.Decode(source)
			require.NoError(t, err)

			encoded, err := cards.Encode(c)
			require.NoError(t, err)

			// the source has additional keys like archetype, everything encoded must match the source
			opts := jsondiff.DefaultConsoleOptions()
			diff, explanation := jsondiff.Compare(source, encoded, &opts)
			assert.Contains(t, []jsondiff.Difference{jsondiff.FullMatch, jsondiff.SupersetMatch}, diff, explanation)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	info := func(id cards.CardID) cards.CardInfo {
		return cards.CardInfo{
			ID:                id,
			Name:              "Card " + id.String(),
			Desc:              "Some \"quoted\" text <b>\r\n",
			HumanReadableType: "Something",
			URL:               "https://ygoprodeck.com/card/" + id.String(),
			Images:            []cards.CardImage{{ID: uint64(id), URL: "https://localhost/" + id.String() + ".jpg"}},
		}
	}
	withCollections := info(7)
	withCollections.Sets = []cards.CardSet{{Name: "Set", Code: "S-1", Rarity: "Rare", RarityCode: "(R)", Price: "0"}}
	withCollections.Prices = []cards.CardPrices{{Cardmarket: "1.00", TCGPlayer: "2.00"}}
	emptyCollections := info(8)
	emptyCollections.Sets = []cards.CardSet{}
	emptyCollections.Prices = []cards.CardPrices{}
	noImages := info(13)
	noImages.Images = nil

	cases := []cards.Card{
		&cards.NormalMonster{CardInfo: info(1), Race: cards.RaceSeaSerpent, Attribute: cards.AttributeWater,
			Level: 4, Atk: 1400, Def: 1200, CardType: cards.TypeNormalMonster},
		&cards.EffectMonster{CardInfo: withCollections, Race: cards.RaceBeastWarrior, Attribute: cards.AttributeFire,
			Level: 3, Atk: 0, Def: 0, CardType: cards.TypeFlipTunerEffectMonster},
		&cards.RitualMonster{CardInfo: emptyCollections, Race: cards.RaceSpellcaster, Attribute: cards.AttributeLight,
			Level: 8, Atk: 3000, Def: 2500, CardType: cards.TypeRitualMonster},
		&cards.FusionMonster{CardInfo: info(2), Race: cards.RaceDragon, Attribute: cards.AttributeLight,
			Level: 12, Atk: 4500, Def: 3800, CardType: cards.TypeFusionMonster},
		&cards.SynchroMonster{CardInfo: info(3), Race: cards.RaceWingedBeast, Attribute: cards.AttributeWind,
			Level: 7, Atk: 2500, Def: 2000, CardType: cards.TypeSynchroTunerMonster},
		&cards.XyzMonster{CardInfo: info(4), Race: cards.RaceWarrior, Attribute: cards.AttributeLight,
			Rank: 4, Atk: 2500, Def: 2000, CardType: cards.TypeXYZMonster},
		&cards.LinkMonster{CardInfo: info(5), Race: cards.RaceCyberse, Attribute: cards.AttributeDark,
			Atk: -1, LinkVal: 3, CardType: cards.TypeLinkMonster,
			LinkMarkers: []cards.LinkMarker{cards.MarkerLeft, cards.MarkerTopRight, cards.MarkerBottomLeft}},
		&cards.PendulumMonster{CardInfo: info(6), Race: cards.RaceDivineBeast, Attribute: cards.AttributeDivine,
			Level: 10, Atk: 4000, Def: 4000, CardType: cards.TypeXYZPendulumEffectMonster, Scale: 13},
		&cards.SpellCard{CardInfo: info(9), Race: cards.SpellQuickPlay},
		&cards.TrapCard{CardInfo: info(10), Race: cards.TrapContinuous},
		&cards.Skill{CardInfo: info(11)},
		&cards.Token{CardInfo: info(12)},
		&cards.Token{CardInfo: noImages},
		&cards.Token{},
		&cards.LinkMonster{CardInfo: info(14), Race: cards.RaceCyberse, Attribute: cards.AttributeDark,
			Atk: 0, LinkVal: 0, CardType: cards.TypeLinkMonster, LinkMarkers: nil},
	}

	for _, c := range cases {
		t.Run(c.Kind().String(), func(t *testing.T) {
			encoded, err := cards.Encode(c)
			require.NoError(t, err)

			decoded, err := cards.Decode(encoded)

			require.NoError(t, err)
			// a nil list is encoded as an empty one
			if diff := cmp.Diff(c, decoded, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeWritesEmptyLists(t *testing.T) {
	encoded, err := cards.Encode(&cards.LinkMonster{CardType: cards.TypeLinkMonster,
		Race: cards.RaceCyberse, Attribute: cards.AttributeDark})
	require.NoError(t, err)

	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(encoded, &obj))
	for _, key := range []string{"card_sets", "card_images", "card_prices", "linkmarkers"} {
		assert.JSONEq(t, "[]", string(obj[key]), key)
	}
}

func TestEncodeNilCard(t *testing.T) {
	_, err := cards.Encode(nil)

	require.Error(t, err)
}

func TestEncodeInvalidEnumValue(t *testing.T) {
	c := &cards.SpellCard{CardInfo: cards.CardInfo{ID: 1}, Race: "Instant"}

	_, err := cards.Encode(c)

	require.ErrorIs(t, err, cards.ErrUnknownValue)
}

func TestMarshalListOfCards(t *testing.T) {
	list := cards.List{
		&cards.SpellCard{CardInfo: cards.CardInfo{ID: 1, Images: []cards.CardImage{}}, Race: cards.SpellField},
		&cards.Token{CardInfo: cards.CardInfo{ID: 2, Images: []cards.CardImage{}}},
	}

	data, err := json.Marshal(cards.Envelope{Data: list})
	require.NoError(t, err)

	var got cards.Envelope
	require.NoError(t, json.Unmarshal(data, &got))
	if diff := cmp.Diff(list, got.Data, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestKindFrameTypes(t *testing.T) {
	want := []string{
		"effect_pendulum",
		"fusion_pendulum",
		"normal_pendulum",
		"ritual_pendulum",
		"synchro_pendulum",
		"xyz_pendulum",
	}

	assert.Equal(t, want, cards.KindPendulum.FrameTypes())
	assert.Equal(t, []string{"link"}, cards.KindLink.FrameTypes())
	assert.Equal(t, []string{"xyz"}, cards.KindXyz.FrameTypes())
}

func TestKindOf(t *testing.T) {
	k, err := cards.KindOf("synchro_pendulum")
	require.NoError(t, err)
	assert.Equal(t, cards.KindPendulum, k)

	_, err = cards.KindOf("Synchro")
	assert.True(t, errors.Is(err, cards.ErrUnknownCardCategory))
}

func frameOf(t *testing.T, name string) string {
	t.Helper()

	c, err := cards.Decode(fixture(t, name))
	require.NoError(t, err)

	return c.Kind().String()
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()

	return test.FileContent(t, filepath.Join("testdata", name))
}

func withField(t *testing.T, data []byte, key string, value any) []byte {
	t.Helper()

	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	obj[key] = value
	result, err := json.Marshal(obj)
	require.NoError(t, err)

	return result
}

func hasField(t *testing.T, data []byte, key string) bool {
	t.Helper()

	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	_, ok := obj[key]

	return ok
}

func withoutField(t *testing.T, data []byte, key string) []byte {
	t.Helper()

	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	delete(obj, key)
	result, err := json.Marshal(obj)
	require.NoError(t, err)

	return result
}
