package models

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileData is the JSON-object-shaped profile_data field on a user. Older
// rows persisted it as a serialized JSON string while newer ones hold a native
// document; both forms must decode to the same logical map before use.
type ProfileData map[string]interface{}

func (p *ProfileData) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*p = ProfileData{}
		return nil
	case bsontype.String:
		var s string
		if err := bson.UnmarshalValue(bsontype.String, data, &s); err != nil {
			return err
		}
		if s == "" {
			*p = ProfileData{}
			return nil
		}
		m := map[string]interface{}{}
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return fmt.Errorf("profile_data string form: %w", err)
		}
		*p = m
		return nil
	case bsontype.EmbeddedDocument:
		m := map[string]interface{}{}
		if err := bson.Unmarshal(data, &m); err != nil {
			return err
		}
		*p = m
		return nil
	}
	return fmt.Errorf("profile_data: unexpected bson type %s", t)
}

func (p *ProfileData) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*p = ProfileData{}
			return nil
		}
		m := map[string]interface{}{}
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return fmt.Errorf("profile_data string form: %w", err)
		}
		*p = m
		return nil
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = m
	return nil
}

// Clone returns a shallow copy safe for per-response mutation.
func (p ProfileData) Clone() ProfileData {
	out := make(ProfileData, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge applies updates as a shallow key overwrite, not a deep merge.
func (p ProfileData) Merge(updates map[string]interface{}) {
	for k, v := range updates {
		p[k] = v
	}
}

func (p ProfileData) Name() string {
	s, _ := p["name"].(string)
	return s
}

// AgeGroup is the cohort attribute: "senior" or "youth".
func (p ProfileData) AgeGroup() string {
	s, _ := p["ageGroup"].(string)
	return s
}

func (p ProfileData) Age() int {
	switch v := p["age"].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (p ProfileData) Interests() []string {
	return toStringSlice(p["interests"])
}

func toStringSlice(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case primitive.A:
		return toStringSlice([]interface{}(vals))
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
