package cards

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
)

const frameTypeKey = "frameType"

// frameTypes maps every accepted frameType to its variant. All pendulum frames share one variant.
var frameTypes = map[string]Kind{
	"normal":           KindNormal,
	"effect":           KindEffect,
	"ritual":           KindRitual,
	"fusion":           KindFusion,
	"synchro":          KindSynchro,
	"xyz":              KindXyz,
	"link":             KindLink,
	"spell":            KindSpell,
	"trap":             KindTrap,
	"skill":            KindSkill,
	"token":            KindToken,
	"normal_pendulum":  KindPendulum,
	"effect_pendulum":  KindPendulum,
	"ritual_pendulum":  KindPendulum,
	"fusion_pendulum":  KindPendulum,
	"synchro_pendulum": KindPendulum,
	"xyz_pendulum":     KindPendulum,
}

// FrameTypes returns all frameType values that select the kind, sorted.
func (k Kind) FrameTypes() []string {
	var result []string
	for frame, kind := range frameTypes {
		if kind == k {
			result = append(result, frame)
		}
	}
	slices.Sort(result)

	return result
}

// KindOf returns the variant selected by the given frameType.
func KindOf(frameType string) (Kind, error) {
	k, ok := frameTypes[frameType]
	if !ok {
		return "", &UnknownCategoryError{Category: frameType}
	}

	return k, nil
}

// field Binds one external key to the field of a card.
type field struct {
	key      string
	into     any
	optional bool
	// value overrides into when encoding
	value func() any
}

func required(key string, into any) field {
	return field{key: key, into: into}
}

func requiredList[T any](key string, into *[]T) field {
	return field{key: key, into: into, value: emptyIfNil(into)}
}

func optionalList[T any](key string, into *[]T) field {
	return field{key: key, into: into, optional: true, value: emptyIfNil(into)}
}

// emptyIfNil encodes a nil list as [] because null is treated as absent.
func emptyIfNil[T any](into *[]T) func() any {
	return func() any {
		if *into == nil {
			return []T{}
		}

		return *into
	}
}

func (f field) encoded() any {
	if f.value != nil {
		return f.value()
	}

	return f.into
}

// Decode decodes a single card record. The frameType of the record selects the variant.
// Unknown keys are ignored, missing required keys and values of the wrong type fail the whole decode.
func Decode(data []byte) (Card, error) {
	raw, err := rawFields(data)
	if err != nil {
		return nil, err
	}

	frame, ok := raw[frameTypeKey]
	if !ok || isNull(frame) {
		return nil, &MissingFieldError{Field: frameTypeKey}
	}

	var frameType string
	if err := json.Unmarshal(frame, &frameType); err != nil {
		return nil, &TypeMismatchError{Field: frameTypeKey, Err: err}
	}

	kind, err := KindOf(frameType)
	if err != nil {
		return nil, err
	}

	c := newCard(kind)
	if err := decodeFields(kind, raw, c.fields()); err != nil {
		return nil, err
	}

	return c, nil
}

// Encode encodes the card into a flat object including the canonical frameType of its variant.
func Encode(c Card) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("can't encode a nil card")
	}

	return encode(c)
}

func encode(c Card) ([]byte, error) {
	ff := c.fields()
	out := make(map[string]any, len(ff)+1)
	out[frameTypeKey] = c.Kind()
	for _, f := range ff {
		out[f.key] = f.encoded()
	}

	return json.Marshal(out)
}

// unmarshalCard decodes into a copy first, so dst stays untouched if the decoding fails.
// The frameType is not checked, the target type already defines the variant.
func unmarshalCard[T any, P interface {
	*T
	Card
}](dst P, data []byte) error {
	raw, err := rawFields(data)
	if err != nil {
		return err
	}

	var tmp T
	p := P(&tmp)
	if err := decodeFields(p.Kind(), raw, p.fields()); err != nil {
		return err
	}
	*dst = tmp

	return nil
}

// unmarshalRecord decodes a nested record like a card set with the same strictness as a card.
func unmarshalRecord[T any, P interface {
	*T
	fields() []field
}](dst P, data []byte) error {
	raw, err := rawFields(data)
	if err != nil {
		return err
	}

	var tmp T
	if err := decodeFields("", raw, P(&tmp).fields()); err != nil {
		return err
	}
	*dst = tmp

	return nil
}

func rawFields(data []byte) (map[string]json.RawMessage, error) {
	if isNull(data) {
		return nil, &TypeMismatchError{Err: errors.New("got null")}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &TypeMismatchError{Err: err}
	}

	return raw, nil
}

func decodeFields(kind Kind, raw map[string]json.RawMessage, ff []field) error {
	for _, f := range ff {
		v, ok := raw[f.key]
		if !ok || isNull(v) {
			if f.optional {
				continue
			}

			return &MissingFieldError{Field: f.key, Kind: kind}
		}

		if err := json.Unmarshal(v, f.into); err != nil {
			return nestedError(kind, f.key, err)
		}
	}

	return nil
}

// nestedError prefixes errors of nested records with the key of the outer field, e.g. card_images.image_url.
func nestedError(kind Kind, key string, err error) error {
	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return &MissingFieldError{Field: key + "." + missing.Field, Kind: kind}
	}

	var mismatch *TypeMismatchError
	if errors.As(err, &mismatch) {
		if mismatch.Field == "" {
			return &TypeMismatchError{Field: key, Kind: kind, Err: mismatch.Err}
		}

		return &TypeMismatchError{Field: key + "." + mismatch.Field, Kind: kind, Err: mismatch.Err}
	}

	return &TypeMismatchError{Field: key, Kind: kind, Err: err}
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// List A list of cards of any variant.
type List []Card

func (l *List) UnmarshalJSON(data []byte) error {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}

	result := make(List, 0, len(records))
	for i, r := range records {
		c, err := Decode(r)
		if err != nil {
			return fmt.Errorf("failed to decode card at index %d due to %w", i, err)
		}
		result = append(result, c)
	}
	*l = result

	return nil
}

// Envelope The response object of the card info endpoint.
type Envelope struct {
	Data List `json:"data"`
}

// DecodeList decodes all cards of an envelope.
func DecodeList(r io.Reader) ([]Card, error) {
	var env Envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, err
	}

	return env.Data, nil
}
