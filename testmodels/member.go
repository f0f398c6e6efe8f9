/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"maps"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/sourceid"
	"github.com/suparena/tablestore/storagemodels"
)

// GroupMember attribute names.
const (
	AttrFirstName = "GroupMember_FirstName"
	AttrLastName  = "GroupMember_LastName"
	AttrEmail     = "GroupMember_Email"
	AttrEmailSort = "Sk_GroupMember_Email"
	AttrHandicap  = "GroupMember_Handicap"
	AttrCreatedAt = "GroupMember_CreatedAt"
	AttrUpdatedAt = "GroupMember_UpdatedAt"
)

const memberEntity = "GroupMember"

type GroupMember struct {

	// Identifier of the group the member belongs to.
	// Required: true
	GroupID *string `json:"GroupId"`

	// Unique identifier for the member within the group.
	// Required: true
	ID *string `json:"Id"`

	// first name
	FirstName string `json:"FirstName,omitempty"`

	// last name
	LastName string `json:"LastName,omitempty"`

	// Format: email
	Email strfmt.Email `json:"Email,omitempty"`

	// handicap
	Handicap *float64 `json:"Handicap,omitempty"`

	// Ids of the same member in upstream systems.
	ExternalIDs []sourceid.ExternalID `json:"ExternalIds,omitempty"`

	// Timestamp when the member was created.
	// Required: true
	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"CreatedAt"`

	// Timestamp when the member was last updated.
	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"UpdatedAt,omitempty"`
}

// MemberMapper converts between GroupMember and stored records.
type MemberMapper struct {
	codec *sourceid.Codec
}

// NewMemberMapper builds a mapper whose external ids use sources.
func NewMemberMapper(sources ...string) (*MemberMapper, error) {
	codec, err := sourceid.NewCodec(memberEntity, sources...)
	if err != nil {
		return nil, err
	}
	return &MemberMapper{codec: codec}, nil
}

// NewMemberMapperWithCodec builds a mapper around a codec configured for the
// group-member entity, e.g. one handed out by tablestore.Store.
func NewMemberMapperWithCodec(codec *sourceid.Codec) (*MemberMapper, error) {
	if codec == nil || codec.Entity() != memberEntity {
		return nil, errors.NewConfigurationError("testmodels", "member mapper needs a %s codec", memberEntity)
	}
	return &MemberMapper{codec: codec}, nil
}

// Codec returns the external id codec.
func (m *MemberMapper) Codec() *sourceid.Codec { return m.codec }

// ToRecord keys the member under its group. Empty optional fields are left out
// so the member only joins the indexes it has values for.
func (m *MemberMapper) ToRecord(gm *GroupMember) (storagemodels.Record, error) {
	if gm.GroupID == nil || *gm.GroupID == "" {
		return nil, errors.NewValidationError("GroupId", "is required")
	}
	if gm.ID == nil || *gm.ID == "" {
		return nil, errors.NewValidationError("Id", "is required")
	}
	if gm.CreatedAt == nil {
		return nil, errors.NewValidationError("CreatedAt", "is required")
	}
	if gm.Email != "" && !strfmt.IsEmail(gm.Email.String()) {
		return nil, errors.NewValidationError("Email", "is not a valid email")
	}

	rec := storagemodels.Record{
		storagemodels.AttrPartitionKey: *gm.GroupID,
		storagemodels.AttrSortKey:      *gm.ID,
		AttrCreatedAt:                  gm.CreatedAt.String(),
	}
	if gm.FirstName != "" {
		rec[AttrFirstName] = gm.FirstName
	}
	if gm.LastName != "" {
		rec[AttrLastName] = gm.LastName
	}
	if gm.Email != "" {
		rec[AttrEmail] = gm.Email.String()
		rec[AttrEmailSort] = *gm.GroupID
	}
	if gm.Handicap != nil {
		rec[AttrHandicap] = *gm.Handicap
	}
	if gm.UpdatedAt != nil {
		rec[AttrUpdatedAt] = gm.UpdatedAt.String()
	}
	ids, err := m.codec.Encode(gm.ExternalIDs)
	if err != nil {
		return nil, err
	}
	maps.Copy(rec, ids)
	return rec, nil
}

// FromRecord rebuilds a member. Malformed stored values are data-integrity errors.
func (m *MemberMapper) FromRecord(rec storagemodels.Record) (*GroupMember, error) {
	groupID, id := rec.PartitionKey(), rec.SortKey()
	if groupID == "" || id == "" {
		return nil, errors.NewDataIntegrityError(memberEntity, storagemodels.AttrPartitionKey, groupID)
	}

	gm := &GroupMember{
		GroupID:   &groupID,
		ID:        &id,
		FirstName: stringAttr(rec, AttrFirstName),
		LastName:  stringAttr(rec, AttrLastName),
		Email:     strfmt.Email(stringAttr(rec, AttrEmail)),
	}

	created, err := dateTimeAttr(rec, AttrCreatedAt)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, errors.NewDataIntegrityError(memberEntity, AttrCreatedAt, groupID)
	}
	gm.CreatedAt = created
	if gm.UpdatedAt, err = dateTimeAttr(rec, AttrUpdatedAt); err != nil {
		return nil, err
	}

	if v, ok := rec[AttrHandicap]; ok {
		h, ok := v.(float64)
		if !ok {
			return nil, errors.NewDataIntegrityError(memberEntity, AttrHandicap, groupID)
		}
		gm.Handicap = &h
	}

	if gm.ExternalIDs, err = m.codec.Decode(rec); err != nil {
		return nil, err
	}
	return gm, nil
}

func stringAttr(rec storagemodels.Record, attr string) string {
	s, _ := rec[attr].(string)
	return s
}

func dateTimeAttr(rec storagemodels.Record, attr string) (*strfmt.DateTime, error) {
	raw, ok := rec[attr]
	if !ok {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, errors.NewDataIntegrityError(memberEntity, attr, rec.PartitionKey())
	}
	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return nil, errors.NewDataIntegrityError(memberEntity, attr, rec.PartitionKey())
	}
	return &dt, nil
}
