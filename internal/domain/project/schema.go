package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"time"
)

// timestampLayouts are tried in order when parsing ISO-8601 timestamps.
// Layouts without a zone are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an ISO-8601 timestamp with or without a zone offset.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}

// FormatTimestamp renders t the way it is persisted.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Decode parses a single project document and applies schema defaults.
func Decode(data []byte) (Project, error) {
	raw, err := parseJSON(data)
	if err != nil {
		return Project{}, &ValidationError{Reason: err.Error()}
	}
	return decodeProject(raw, "", false)
}

// DecodeCollection parses a persisted JSON array of projects. Every element
// must pass validation and carry both timestamps as strings; the first failure
// is returned with its index in the path.
func DecodeCollection(data []byte) ([]Project, error) {
	raw, err := parseJSON(data)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, &ValidationError{Reason: "expected an array of projects"}
	}
	projects := make([]Project, 0, len(items))
	for i, item := range items {
		proj, err := decodeProject(item, "["+strconv.Itoa(i)+"]", true)
		if err != nil {
			return nil, err
		}
		projects = append(projects, proj)
	}
	return projects, nil
}

// Validate re-checks a project built in code against the schema rules that the
// Go types cannot express on their own.
func Validate(p Project) error {
	if p.Type != "" && !p.Type.Valid() {
		return &ValidationError{Path: "type", Reason: fmt.Sprintf("unknown project type %q", p.Type)}
	}
	return nil
}

func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("malformed JSON: trailing data after document")
	}
	return raw, nil
}

// decodeProject builds a Project from a parsed document. Stored records must
// carry both timestamps; input documents may leave them for the caller to fill.
func decodeProject(raw any, path string, stored bool) (Project, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return Project{}, err
	}

	var p Project
	if p.ID, err = obj.requiredString("id"); err != nil {
		return Project{}, err
	}
	if p.Name, err = obj.requiredString("name"); err != nil {
		return Project{}, err
	}
	if p.Type, err = obj.projectType("type"); err != nil {
		return Project{}, err
	}
	if p.Description, err = obj.optionalString("description"); err != nil {
		return Project{}, err
	}
	if p.CreatedAt, err = obj.timestamp("created_at", stored); err != nil {
		return Project{}, err
	}
	if p.UpdatedAt, err = obj.timestamp("updated_at", stored); err != nil {
		return Project{}, err
	}
	if p.Tags, err = obj.stringList("tags"); err != nil {
		return Project{}, err
	}

	tiers, err := obj.requiredObject("tiers")
	if err != nil {
		return Project{}, err
	}
	if p.Tiers, err = decodeTiers(tiers); err != nil {
		return Project{}, err
	}
	return p, nil
}

func decodeTiers(obj object) (Tiers, error) {
	var t Tiers

	t0, err := obj.requiredObject("T0_foundation")
	if err != nil {
		return Tiers{}, err
	}
	if t.Foundation, err = decodeFoundation(t0); err != nil {
		return Tiers{}, err
	}

	t1, err := obj.requiredObject("T1_core")
	if err != nil {
		return Tiers{}, err
	}
	if t.Core, err = decodeCore(t1); err != nil {
		return Tiers{}, err
	}

	if t.Modules, err = decodeList(obj, "T2_modules", decodeModule); err != nil {
		return Tiers{}, err
	}
	if t.Characters, err = decodeList(obj, "T3_characters", decodeCharacter); err != nil {
		return Tiers{}, err
	}
	if t.Zones, err = decodeList(obj, "T4_zones", decodeZone); err != nil {
		return Tiers{}, err
	}
	if t.Narrative, err = decodeList(obj, "T5_narrative", decodeNarrative); err != nil {
		return Tiers{}, err
	}
	return t, nil
}

func decodeFoundation(obj object) (Tier0Foundation, error) {
	var f Tier0Foundation
	err := obj.optionalStrings(map[string]**string{
		"canon_statement":     &f.CanonStatement,
		"non_canon_rules":     &f.NonCanonRules,
		"physics_magic_rules": &f.PhysicsMagicRules,
		"themes":              &f.Themes,
		"tone":                &f.Tone,
		"constraints":         &f.Constraints,
	})
	return f, err
}

func decodeCore(obj object) (Tier1Core, error) {
	var c Tier1Core
	err := obj.optionalStrings(map[string]**string{
		"logline":              &c.Logline,
		"setting_summary":      &c.SettingSummary,
		"core_conflict":        &c.CoreConflict,
		"signature_elements":   &c.SignatureElements,
		"protagonist_factions": &c.ProtagonistFactions,
		"antagonistic_forces":  &c.AntagonisticForces,
	})
	return c, err
}

func decodeModule(obj object) (Tier2Module, error) {
	var m Tier2Module
	var err error
	if m.ID, err = obj.requiredString("id"); err != nil {
		return m, err
	}
	if m.Name, err = obj.requiredString("name"); err != nil {
		return m, err
	}
	if m.Importance, err = obj.optionalInt("importance"); err != nil {
		return m, err
	}
	err = obj.optionalStrings(map[string]**string{
		"category": &m.Category,
		"summary":  &m.Summary,
	})
	return m, err
}

func decodeCharacter(obj object) (Tier3Character, error) {
	var c Tier3Character
	var err error
	if c.ID, err = obj.requiredString("id"); err != nil {
		return c, err
	}
	if c.Name, err = obj.requiredString("name"); err != nil {
		return c, err
	}
	err = obj.optionalStrings(map[string]**string{
		"role":          &c.Role,
		"race_profile":  &c.RaceProfile,
		"goals":         &c.Goals,
		"flaws":         &c.Flaws,
		"relationships": &c.Relationships,
	})
	return c, err
}

func decodeZone(obj object) (Tier4Zone, error) {
	var z Tier4Zone
	var err error
	if z.ID, err = obj.requiredString("id"); err != nil {
		return z, err
	}
	if z.Name, err = obj.requiredString("name"); err != nil {
		return z, err
	}
	err = obj.optionalStrings(map[string]**string{
		"type":          &z.ZoneType,
		"summary":       &z.Summary,
		"sensory_notes": &z.SensoryNotes,
		"key_conflicts": &z.KeyConflicts,
	})
	return z, err
}

func decodeNarrative(obj object) (Tier5Narrative, error) {
	var n Tier5Narrative
	var err error
	if n.ID, err = obj.requiredString("id"); err != nil {
		return n, err
	}
	if n.Title, err = obj.requiredString("title"); err != nil {
		return n, err
	}
	err = obj.optionalStrings(map[string]**string{
		"kind":    &n.Kind,
		"premise": &n.Premise,
		"beats":   &n.Beats,
		"outcome": &n.Outcome,
	})
	return n, err
}

// decodeList decodes an optional array of tier entries. Absent means empty.
func decodeList[T any](obj object, key string, decode func(object) (T, error)) ([]T, error) {
	items, err := obj.list(key)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		entry, err := asObject(item, obj.index(key, i))
		if err != nil {
			return nil, err
		}
		v, err := decode(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// object is a decoded JSON object together with its location in the document.
type object struct {
	path   string
	fields map[string]any
}

func asObject(raw any, path string) (object, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return object{}, invalid(path, "expected an object, got %s", kindOf(raw))
	}
	return object{path: path, fields: fields}, nil
}

func (o object) at(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}

func (o object) index(key string, i int) string {
	return o.at(key) + "[" + strconv.Itoa(i) + "]"
}

func (o object) requiredString(key string) (string, error) {
	v, ok := o.fields[key]
	if !ok {
		return "", invalid(o.at(key), "field required")
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(o.at(key), "expected a string, got %s", kindOf(v))
	}
	return s, nil
}

func (o object) optionalString(key string) (*string, error) {
	v, ok := o.fields[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, invalid(o.at(key), "expected a string or null, got %s", kindOf(v))
	}
	return &s, nil
}

func (o object) optionalStrings(targets map[string]**string) error {
	for _, key := range slices.Sorted(maps.Keys(targets)) {
		s, err := o.optionalString(key)
		if err != nil {
			return err
		}
		*targets[key] = s
	}
	return nil
}

func (o object) optionalInt(key string) (*int, error) {
	v, ok := o.fields[key]
	if !ok || v == nil {
		return nil, nil
	}
	num, ok := v.(json.Number)
	if !ok {
		return nil, invalid(o.at(key), "expected an integer or null, got %s", kindOf(v))
	}
	if n, err := strconv.Atoi(num.String()); err == nil {
		return &n, nil
	}
	// Whole-number floats such as 3.0 are accepted as integers.
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return nil, invalid(o.at(key), "expected an integer, got %s", num.String())
	}
	n := int(f)
	return &n, nil
}

func (o object) projectType(key string) (ProjectType, error) {
	v, ok := o.fields[key]
	if !ok {
		return TypeOther, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(o.at(key), "expected a string, got %s", kindOf(v))
	}
	t := ProjectType(s)
	if !t.Valid() {
		return "", invalid(o.at(key), "must be one of novel, game, ttrpg, screenplay, other")
	}
	return t, nil
}

func (o object) timestamp(key string, required bool) (time.Time, error) {
	v, ok := o.fields[key]
	if required && !ok {
		return time.Time{}, invalid(o.at(key), "field required")
	}
	if v == nil {
		if required {
			return time.Time{}, invalid(o.at(key), "expected an ISO-8601 string, got null")
		}
		return time.Time{}, nil
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, invalid(o.at(key), "expected an ISO-8601 string, got %s", kindOf(v))
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, invalid(o.at(key), "%v", err)
	}
	return t, nil
}

func (o object) list(key string) ([]any, error) {
	v, ok := o.fields[key]
	if !ok {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, invalid(o.at(key), "expected an array, got %s", kindOf(v))
	}
	return items, nil
}

func (o object) stringList(key string) ([]string, error) {
	items, err := o.list(key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, invalid(o.index(key, i), "expected a string, got %s", kindOf(item))
		}
		out = append(out, s)
	}
	return out, nil
}

func (o object) requiredObject(key string) (object, error) {
	v, ok := o.fields[key]
	if !ok {
		return object{}, invalid(o.at(key), "field required")
	}
	return asObject(v, o.at(key))
}

func invalid(path, format string, args ...any) error {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
