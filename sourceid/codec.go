/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sourceid

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

// Separator joins a source tag and an id in an encoded value.
const Separator = "#"

const component = "sourceid"

// ExternalID is one external system's reference to a domain entity.
type ExternalID struct {
	ID     string `json:"id" validate:"required"`
	Source string `json:"source" validate:"required"`
}

func (e ExternalID) String() string {
	return EncodeValue(e)
}

// EncodeValue renders SOURCE#ID.
func EncodeValue(e ExternalID) string {
	return e.Source + Separator + e.ID
}

// DecodeValue splits SOURCE#ID on the first separator. Ids may contain the
// separator; sources may not.
func DecodeValue(v string) (ExternalID, bool) {
	source, id, ok := strings.Cut(v, Separator)
	if !ok || source == "" || id == "" {
		return ExternalID{}, false
	}
	return ExternalID{ID: id, Source: source}, true
}

// Codec maps external ids to and from flat record attributes for one entity.
// The configured source list is fixed and ordered.
type Codec struct {
	entity  string
	sources []string
}

// NewCodec validates the entity name and sources.
func NewCodec(entity string, sources ...string) (*Codec, error) {
	if entity == "" {
		return nil, errors.NewConfigurationError(component, "codec needs an entity name")
	}
	if len(sources) == 0 {
		return nil, errors.NewConfigurationError(component, "codec for %s needs at least one source", entity)
	}
	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		switch {
		case s == "":
			return nil, errors.NewConfigurationError(component, "empty source for %s", entity)
		case strings.Contains(s, Separator):
			return nil, errors.NewConfigurationError(component, "source %q for %s contains %q", s, entity, Separator)
		case seen[s]:
			return nil, errors.NewConfigurationError(component, "source %q for %s listed twice", s, entity)
		}
		seen[s] = true
	}
	return &Codec{entity: entity, sources: slices.Clone(sources)}, nil
}

// Entity returns the entity name used in attribute keys.
func (c *Codec) Entity() string { return c.entity }

// Sources returns the configured sources in order.
func (c *Codec) Sources() []string { return slices.Clone(c.sources) }

// Attribute returns {Entity}_SourceId{SOURCE}.
func (c *Codec) Attribute(source string) string {
	return fmt.Sprintf("%s_SourceId%s", c.entity, source)
}

// SortAttribute returns the Sk_ mirror of Attribute.
func (c *Codec) SortAttribute(source string) string {
	return "Sk_" + c.Attribute(source)
}

var validate = validator.New()

// Validate rejects ids that could not be decoded again: an empty id or source,
// or a source containing the separator.
func Validate(ids []ExternalID) error {
	for i, e := range ids {
		if err := validate.Struct(e); err != nil {
			var verrs validator.ValidationErrors
			if stderrors.As(err, &verrs) && len(verrs) > 0 {
				return errors.NewValidationError(fmt.Sprintf("externalIds[%d].%s", i, verrs[0].Field()), "is required")
			}
			return errors.NewValidationError(fmt.Sprintf("externalIds[%d]", i), err.Error())
		}
		if strings.Contains(e.Source, Separator) {
			return errors.NewValidationError(fmt.Sprintf("externalIds[%d].Source", i), "must not contain "+Separator)
		}
	}
	return nil
}

// Encode emits one attribute per configured source present in ids. Sources
// that are absent, or not configured, are omitted entirely.
func (c *Codec) Encode(ids []ExternalID) (storagemodels.Record, error) {
	if err := Validate(ids); err != nil {
		return nil, err
	}
	out := storagemodels.Record{}
	for _, source := range c.sources {
		if e, ok := Find(ids, source); ok {
			out[c.Attribute(source)] = EncodeValue(e)
		}
	}
	return out, nil
}

// EncodeSortKeys emits the Sk_ mirror for an index sort key. A non-empty
// override is written for every configured source instead, which lets the
// sort key be overloaded for item collections.
func (c *Codec) EncodeSortKeys(ids []ExternalID, override string) (storagemodels.Record, error) {
	if err := Validate(ids); err != nil {
		return nil, err
	}
	out := storagemodels.Record{}
	for _, source := range c.sources {
		if override != "" {
			out[c.SortAttribute(source)] = override
			continue
		}
		if e, ok := Find(ids, source); ok {
			out[c.SortAttribute(source)] = EncodeValue(e)
		}
	}
	return out, nil
}

// Decode recovers the external ids from rec in configured-source order.
// Attributes that are absent or not strings produce no entry. A present
// string that is not a valid SOURCE#ID for its attribute fails the whole
// decode with a data-integrity error.
func (c *Codec) Decode(rec storagemodels.Record) ([]ExternalID, error) {
	var out []ExternalID
	for _, source := range c.sources {
		attr := c.Attribute(source)
		raw, ok := rec[attr].(string)
		if !ok {
			continue
		}
		e, valid := DecodeValue(raw)
		if !valid || e.Source != source {
			return nil, errors.NewDataIntegrityError(c.entity, attr, rec.PartitionKey())
		}
		out = append(out, e)
	}
	return out, nil
}

// Find returns the id for source, if present.
func Find(ids []ExternalID, source string) (ExternalID, bool) {
	for _, e := range ids {
		if e.Source == source {
			return e, true
		}
	}
	return ExternalID{}, false
}

// Confirm reports whether ids contains an entry for source.
func Confirm(ids []ExternalID, source string) bool {
	_, ok := Find(ids, source)
	return ok
}
