package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/cards"
)

const (
	nameSeparator = "|"
	listSeparator = ","
)

// Request A search for cards. Every predicate is optional, an empty request matches all cards.
// Use a Builder to create one.
type Request struct {
	names       []string
	fuzzyName   *string
	atk         *int32
	def         *int32
	level       *uint8
	cardTypes   []CardType
	races       []cards.MonsterRace
	attributes  []cards.Attribute
	link        *uint8
	linkMarkers []cards.LinkMarker
	scale       *uint8
	cardSet     *string
}

// IsEmpty returns true if no predicate is set.
func (r Request) IsEmpty() bool {
	return r.Encode() == ""
}

// Names returns the exact names of the request.
func (r Request) Names() []string {
	return slices.Clone(r.names)
}

// Encode returns the url query parameters of the request, e.g. name=Trent&atk=1500.
// Parameters are always written in the same order and absent predicates are omitted.
func (r Request) Encode() string {
	var params []string
	add := func(key, value string) {
		params = append(params, key+"="+value)
	}

	if len(r.names) > 0 {
		add("name", escape(strings.Join(r.names, nameSeparator)))
	}
	if r.fuzzyName != nil {
		add("fname", escape(*r.fuzzyName))
	}
	if r.atk != nil {
		add("atk", strconv.FormatInt(int64(*r.atk), 10))
	}
	if r.def != nil {
		add("def", strconv.FormatInt(int64(*r.def), 10))
	}
	if r.level != nil {
		add("level", strconv.FormatUint(uint64(*r.level), 10))
	}
	if len(r.cardTypes) > 0 {
		add("type", escape(join(r.cardTypes)))
	}
	if len(r.races) > 0 {
		add("race", escape(join(r.races)))
	}
	if len(r.attributes) > 0 {
		add("attribute", escape(join(r.attributes)))
	}
	if r.link != nil {
		add("link", strconv.FormatUint(uint64(*r.link), 10))
	}
	if len(r.linkMarkers) > 0 {
		add("linkmarker", escape(join(r.linkMarkers)))
	}
	if r.scale != nil {
		add("scale", strconv.FormatUint(uint64(*r.scale), 10))
	}
	if r.cardSet != nil {
		add("cardset", escape(*r.cardSet))
	}

	return strings.Join(params, "&")
}

func (r Request) String() string {
	return r.Encode()
}

func join[T ~string](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}

	return strings.Join(parts, listSeparator)
}

// escape percent-encodes everything except the unreserved characters of RFC 3986.
// A space becomes %20 instead of the form encoded +.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Builder Collects the predicates of a request. List predicates are appended,
// single value predicates overwrite the previous value.
type Builder struct {
	req Request
}

func NewBuilder() *Builder {
	return &Builder{}
}

// WithName adds an exact name. A card matches if it has any of the names.
func (b *Builder) WithName(name string) *Builder {
	b.req.names = append(b.req.names, name)

	return b
}

// WithFuzzyName matches all cards that contain the given text in their name.
func (b *Builder) WithFuzzyName(name string) *Builder {
	b.req.fuzzyName = &name

	return b
}

func (b *Builder) WithAtk(atk int32) *Builder {
	b.req.atk = &atk

	return b
}

func (b *Builder) WithDef(def int32) *Builder {
	b.req.def = &def

	return b
}

func (b *Builder) WithLevel(level uint8) *Builder {
	b.req.level = &level

	return b
}

func (b *Builder) WithType(t CardType) *Builder {
	b.req.cardTypes = append(b.req.cardTypes, t)

	return b
}

func (b *Builder) WithRace(race cards.MonsterRace) *Builder {
	b.req.races = append(b.req.races, race)

	return b
}

func (b *Builder) WithAttribute(attribute cards.Attribute) *Builder {
	b.req.attributes = append(b.req.attributes, attribute)

	return b
}

// WithLink sets the link rating.
func (b *Builder) WithLink(link uint8) *Builder {
	b.req.link = &link

	return b
}

func (b *Builder) WithLinkMarker(marker cards.LinkMarker) *Builder {
	b.req.linkMarkers = append(b.req.linkMarkers, marker)

	return b
}

// WithScale sets the pendulum scale.
func (b *Builder) WithScale(scale uint8) *Builder {
	b.req.scale = &scale

	return b
}

// WithCardSet matches all cards printed in the set with the given name.
func (b *Builder) WithCardSet(name string) *Builder {
	b.req.cardSet = &name

	return b
}

// Build returns the request. Later calls on the builder do not change the returned request.
func (b *Builder) Build() Request {
	r := b.req
	r.names = slices.Clone(r.names)
	r.cardTypes = slices.Clone(r.cardTypes)
	r.races = slices.Clone(r.races)
	r.attributes = slices.Clone(r.attributes)
	r.linkMarkers = slices.Clone(r.linkMarkers)

	return r
}
