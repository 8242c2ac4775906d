package project

import (
	"encoding/json"
	"time"
)

// ProjectType classifies the medium a world is being built for.
type ProjectType string

const (
	TypeNovel      ProjectType = "novel"
	TypeGame       ProjectType = "game"
	TypeTTRPG      ProjectType = "ttrpg"
	TypeScreenplay ProjectType = "screenplay"
	TypeOther      ProjectType = "other"
)

// Valid reports whether t is one of the known project types.
func (t ProjectType) Valid() bool {
	switch t {
	case TypeNovel, TypeGame, TypeTTRPG, TypeScreenplay, TypeOther:
		return true
	}
	return false
}

// Project is a world-building project and the unit of persistence.
type Project struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        ProjectType `json:"type"`
	Description *string     `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Tags        []string    `json:"tags"`
	Tiers       Tiers       `json:"tiers"`
}

// Tiers holds the fixed world-building layers of a project.
type Tiers struct {
	Foundation Tier0Foundation  `json:"T0_foundation"`
	Core       Tier1Core        `json:"T1_core"`
	Modules    []Tier2Module    `json:"T2_modules"`
	Characters []Tier3Character `json:"T3_characters"`
	Zones      []Tier4Zone      `json:"T4_zones"`
	Narrative  []Tier5Narrative `json:"T5_narrative"`
}

type Tier0Foundation struct {
	CanonStatement    *string `json:"canon_statement"`
	NonCanonRules     *string `json:"non_canon_rules"`
	PhysicsMagicRules *string `json:"physics_magic_rules"`
	Themes            *string `json:"themes"`
	Tone              *string `json:"tone"`
	Constraints       *string `json:"constraints"`
}

type Tier1Core struct {
	Logline             *string `json:"logline"`
	SettingSummary      *string `json:"setting_summary"`
	CoreConflict        *string `json:"core_conflict"`
	SignatureElements   *string `json:"signature_elements"`
	ProtagonistFactions *string `json:"protagonist_factions"`
	AntagonisticForces  *string `json:"antagonistic_forces"`
}

type Tier2Module struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   *string `json:"category"`
	Summary    *string `json:"summary"`
	Importance *int    `json:"importance"`
}

type Tier3Character struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Role          *string `json:"role"`
	RaceProfile   *string `json:"race_profile"`
	Goals         *string `json:"goals"`
	Flaws         *string `json:"flaws"`
	Relationships *string `json:"relationships"`
}

type Tier4Zone struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ZoneType     *string `json:"type"`
	Summary      *string `json:"summary"`
	SensoryNotes *string `json:"sensory_notes"`
	KeyConflicts *string `json:"key_conflicts"`
}

type Tier5Narrative struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Kind    *string `json:"kind"`
	Premise *string `json:"premise"`
	Beats   *string `json:"beats"`
	Outcome *string `json:"outcome"`
}

// MarshalJSON writes timestamps as RFC 3339 in UTC and never emits null sequences.
func (p Project) MarshalJSON() ([]byte, error) {
	type alias Project
	out := struct {
		alias
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}{
		alias:     alias(p.normalized()),
		CreatedAt: FormatTimestamp(p.CreatedAt),
		UpdatedAt: FormatTimestamp(p.UpdatedAt),
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes through the schema so that a Project built from JSON
// always carries its defaults.
func (p *Project) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// normalized returns a copy with nil sequences replaced by empty ones.
func (p Project) normalized() Project {
	if p.Type == "" {
		p.Type = TypeOther
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Tiers.Modules == nil {
		p.Tiers.Modules = []Tier2Module{}
	}
	if p.Tiers.Characters == nil {
		p.Tiers.Characters = []Tier3Character{}
	}
	if p.Tiers.Zones == nil {
		p.Tiers.Zones = []Tier4Zone{}
	}
	if p.Tiers.Narrative == nil {
		p.Tiers.Narrative = []Tier5Narrative{}
	}
	return p
}

// Clone returns a deep copy of p.
func (p Project) Clone() Project {
	c := p.normalized()
	c.Description = cloneString(p.Description)
	c.Tags = append([]string{}, c.Tags...)
	c.Tiers.Foundation = Tier0Foundation{
		CanonStatement:    cloneString(p.Tiers.Foundation.CanonStatement),
		NonCanonRules:     cloneString(p.Tiers.Foundation.NonCanonRules),
		PhysicsMagicRules: cloneString(p.Tiers.Foundation.PhysicsMagicRules),
		Themes:            cloneString(p.Tiers.Foundation.Themes),
		Tone:              cloneString(p.Tiers.Foundation.Tone),
		Constraints:       cloneString(p.Tiers.Foundation.Constraints),
	}
	c.Tiers.Core = Tier1Core{
		Logline:             cloneString(p.Tiers.Core.Logline),
		SettingSummary:      cloneString(p.Tiers.Core.SettingSummary),
		CoreConflict:        cloneString(p.Tiers.Core.CoreConflict),
		SignatureElements:   cloneString(p.Tiers.Core.SignatureElements),
		ProtagonistFactions: cloneString(p.Tiers.Core.ProtagonistFactions),
		AntagonisticForces:  cloneString(p.Tiers.Core.AntagonisticForces),
	}
	c.Tiers.Modules = make([]Tier2Module, len(c.Tiers.Modules))
	for i, m := range p.Tiers.Modules {
		m.Category = cloneString(m.Category)
		m.Summary = cloneString(m.Summary)
		if m.Importance != nil {
			v := *m.Importance
			m.Importance = &v
		}
		c.Tiers.Modules[i] = m
	}
	c.Tiers.Characters = make([]Tier3Character, len(c.Tiers.Characters))
	for i, ch := range p.Tiers.Characters {
		ch.Role = cloneString(ch.Role)
		ch.RaceProfile = cloneString(ch.RaceProfile)
		ch.Goals = cloneString(ch.Goals)
		ch.Flaws = cloneString(ch.Flaws)
		ch.Relationships = cloneString(ch.Relationships)
		c.Tiers.Characters[i] = ch
	}
	c.Tiers.Zones = make([]Tier4Zone, len(c.Tiers.Zones))
	for i, z := range p.Tiers.Zones {
		z.ZoneType = cloneString(z.ZoneType)
		z.Summary = cloneString(z.Summary)
		z.SensoryNotes = cloneString(z.SensoryNotes)
		z.KeyConflicts = cloneString(z.KeyConflicts)
		c.Tiers.Zones[i] = z
	}
	c.Tiers.Narrative = make([]Tier5Narrative, len(c.Tiers.Narrative))
	for i, n := range p.Tiers.Narrative {
		n.Kind = cloneString(n.Kind)
		n.Premise = cloneString(n.Premise)
		n.Beats = cloneString(n.Beats)
		n.Outcome = cloneString(n.Outcome)
		c.Tiers.Narrative[i] = n
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// ProjectSummary is a lightweight representation for listing.
type ProjectSummary struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       ProjectType `json:"type"`
	Tags       []string    `json:"tags"`
	Characters int         `json:"characters"`
	Zones      int         `json:"zones"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Summary condenses p for list views.
func (p Project) Summary() ProjectSummary {
	n := p.normalized()
	return ProjectSummary{
		ID:         n.ID,
		Name:       n.Name,
		Type:       n.Type,
		Tags:       n.Tags,
		Characters: len(n.Tiers.Characters),
		Zones:      len(n.Tiers.Zones),
		UpdatedAt:  n.UpdatedAt,
	}
}
