// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"

	"github.com/olegiv/folio-go/internal/drive"
)

// Profile is the single portfolio owner document.
type Profile struct {
	ID              string    `json:"_id" bson:"_id"`
	FullName        string    `json:"full_name" bson:"full_name" validate:"required,max=200"`
	Tagline         string    `json:"tagline" bson:"tagline" validate:"required,max=300"`
	Bio             string    `json:"bio" bson:"bio" validate:"required"`
	BioHTML         string    `json:"bio_html,omitempty" bson:"-"`
	ProfileImage    string    `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	ProfileDriveID  string    `json:"profile_drive_id,omitempty" bson:"profile_drive_id,omitempty"`
	Skills          []string  `json:"skills" bson:"skills"`
	Experience      string    `json:"experience,omitempty" bson:"experience,omitempty"`
	Brands          []string  `json:"brands" bson:"brands"`
	Software        []string  `json:"software" bson:"software"`
	SocialInstagram string    `json:"social_instagram,omitempty" bson:"social_instagram,omitempty"`
	SocialYouTube   string    `json:"social_youtube,omitempty" bson:"social_youtube,omitempty"`
	SocialVimeo     string    `json:"social_vimeo,omitempty" bson:"social_vimeo,omitempty"`
	SocialBehance   string    `json:"social_behance,omitempty" bson:"social_behance,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// DefaultProfile returns the profile served while none has been stored.
func DefaultProfile(now time.Time) Profile {
	return Profile{
		FullName: "Pranjal",
		Tagline:  "Visual Storyteller",
		Bio: "Passionate about capturing life's fleeting moments and weaving compelling narratives " +
			"through the art of photography, videography, and video editing. With years of experience " +
			"in visual storytelling, I specialize in creating content that not only looks stunning but " +
			"also resonates deeply with audiences. From intimate portraits and dynamic event coverage " +
			"to cinematic video edits, I bring creativity, technical expertise, and a keen eye for " +
			"detail to every project, ensuring your vision comes to life in the most impactful way.",
		Skills:     []string{"Photography", "Videography", "Video Editing", "Color Grading", "Sound Design"},
		Experience: "3+ Years Experience",
		Brands:     []string{"Chetmani", "OBraba", "Taj Estate", "Many Other Businesses"},
		Software:   []string{"Premiere Pro", "Capcut"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Normalize canonicalizes the profile image reference and fills nil slices.
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Brands == nil {
		p.Brands = []string{}
	}
	if p.Software == nil {
		p.Software = []string{}
	}
	if id := normalizeMedia(&p.ProfileImage); id != "" && p.ProfileDriveID == "" {
		p.ProfileDriveID = id
	}
	p.BioHTML = ""
}

// Resolve fills the image URL from the Drive file ID when absent.
func (p *Profile) Resolve() {
	if p.ProfileImage == "" && p.ProfileDriveID != "" {
		p.ProfileImage = drive.DirectURL(p.ProfileDriveID)
	}
}

// ProfilePatch is a profile update. Every field present in the payload is
// written, including empty strings and empty lists.
type ProfilePatch struct {
	FullName        *string   `json:"full_name" validate:"omitnil,max=200"`
	Tagline         *string   `json:"tagline" validate:"omitnil,max=300"`
	Bio             *string   `json:"bio"`
	ProfileImage    *string   `json:"profile_image"`
	ProfileDriveID  *string   `json:"profile_drive_id"`
	Skills          *[]string `json:"skills"`
	Experience      *string   `json:"experience"`
	Brands          *[]string `json:"brands"`
	Software        *[]string `json:"software"`
	SocialInstagram *string   `json:"social_instagram"`
	SocialYouTube   *string   `json:"social_youtube"`
	SocialVimeo     *string   `json:"social_vimeo"`
	SocialBehance   *string   `json:"social_behance"`

	present map[string]bool
}

// UnmarshalJSON records which keys were present so that explicit nulls are
// written as empty values instead of being ignored.
func (p *ProfilePatch) UnmarshalJSON(data []byte) error {
	type plain ProfilePatch
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	p.present = make(map[string]bool, len(keys))
	for k := range keys {
		p.present[k] = true
	}
	return nil
}

// Changes returns the fields to write, keyed by stored field name.
func (p ProfilePatch) Changes() map[string]any {
	m := map[string]any{}
	str := func(key string, v *string) {
		switch {
		case v != nil:
			m[key] = *v
		case p.present[key]:
			m[key] = ""
		}
	}
	list := func(key string, v *[]string) {
		switch {
		case v != nil && *v != nil:
			m[key] = *v
		case v != nil || p.present[key]:
			m[key] = []string{}
		}
	}

	str("full_name", p.FullName)
	str("tagline", p.Tagline)
	str("bio", p.Bio)
	str("profile_drive_id", p.ProfileDriveID)
	if p.ProfileImage != nil {
		setMedia(m, "profile_image", "profile_drive_id", p.ProfileImage)
	} else if p.present["profile_image"] {
		m["profile_image"] = ""
	}
	list("skills", p.Skills)
	str("experience", p.Experience)
	list("brands", p.Brands)
	list("software", p.Software)
	str("social_instagram", p.SocialInstagram)
	str("social_youtube", p.SocialYouTube)
	str("social_vimeo", p.SocialVimeo)
	str("social_behance", p.SocialBehance)
	return m
}
