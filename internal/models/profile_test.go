package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDataUnmarshalJSONObjectForm(t *testing.T) {
	var p ProfileData
	err := json.Unmarshal([]byte(`{"name":"Margaret","ageGroup":"senior","age":68,"interests":["cooking"]}`), &p)
	require.NoError(t, err)

	assert.Equal(t, "Margaret", p.Name())
	assert.Equal(t, "senior", p.AgeGroup())
	assert.Equal(t, 68, p.Age())
	assert.Equal(t, []string{"cooking"}, p.Interests())
}

func TestProfileDataUnmarshalJSONStringForm(t *testing.T) {
	// Older rows persisted profile_data as a serialized JSON string.
	var p ProfileData
	err := json.Unmarshal([]byte(`"{\"name\":\"Margaret\",\"ageGroup\":\"senior\"}"`), &p)
	require.NoError(t, err)

	assert.Equal(t, "Margaret", p.Name())
	assert.Equal(t, "senior", p.AgeGroup())
}

func TestProfileDataUnmarshalJSONEmptyString(t *testing.T) {
	var p ProfileData
	err := json.Unmarshal([]byte(`""`), &p)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestProfileDataCloneIsIndependent(t *testing.T) {
	p := ProfileData{"name": "Before"}
	c := p.Clone()
	c["name"] = "After"
	assert.Equal(t, "Before", p.Name())
}

func TestProfileDataMergeIsShallow(t *testing.T) {
	p := ProfileData{
		"name":     "Margaret",
		"verified": true,
	}
	p.Merge(map[string]interface{}{"name": "Margaret Chen", "age": 68})

	assert.Equal(t, "Margaret Chen", p.Name())
	assert.Equal(t, 68, p.Age())
	assert.Equal(t, true, p["verified"])
}

func TestStoryBadgeList(t *testing.T) {
	s := Story{Badges: "Storyteller,Verified"}
	assert.Equal(t, []string{"Storyteller", "Verified"}, s.BadgeList())

	empty := Story{}
	assert.Equal(t, []string{}, empty.BadgeList())
}

func TestUserFlattenOmitsPassword(t *testing.T) {
	u := User{
		ID: "1", Email: "m@example.com", PasswordHash: "hash", Role: RoleUser,
		Profile: ProfileData{"name": "Margaret", "ageGroup": "senior"},
	}
	flat := u.Flatten()

	assert.Equal(t, "Margaret", flat["name"])
	assert.Equal(t, "senior", flat["ageGroup"])
	_, hasPassword := flat["password"]
	assert.False(t, hasPassword)
}
