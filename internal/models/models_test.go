package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339 with zone",
			input: `"2025-03-01T10:00:00+05:30"`,
			want:  time.Date(2025, 3, 1, 4, 30, 0, 0, time.UTC),
		},
		{
			name:  "naive datetime is utc",
			input: `"2025-03-01T10:00:00"`,
			want:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "naive datetime with micros",
			input: `"2025-03-01T10:00:00.123456"`,
			want:  time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC),
		},
		{
			name:  "date only",
			input: `"2025-03-01"`,
			want:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestamp_UnmarshalJSON_Invalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("root")
	assert.Error(t, err)

	assert.True(t, RoleOrganizer.IsValid())
	assert.True(t, (&UserProfile{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&UserProfile{Role: RoleOrganizer}).IsAdmin())

	var nilUser *UserProfile
	assert.False(t, nilUser.IsAdmin())
}

func TestRegistrationInput_FromProfile(t *testing.T) {
	grade := 9
	in := RegistrationInput{WorkshopID: "w1", Phone: "override"}
	in.FromProfile(&UserProfile{
		ID:          "u1",
		Email:       "s@example.com",
		FullName:    "Student",
		Grade:       &grade,
		School:      "School",
		Phone:       "111",
		ParentName:  "Parent",
		ParentPhone: "222",
	})

	assert.Equal(t, "u1", in.UserID)
	assert.Equal(t, "s@example.com", in.Email)
	assert.Equal(t, 9, in.Grade)
	assert.Equal(t, "override", in.Phone)
	assert.Equal(t, "222", in.ParentPhone)
}

func TestWorkshop_SeatsLeft(t *testing.T) {
	assert.Equal(t, 3, Workshop{MaxParticipants: 5, RegisteredCount: 2}.SeatsLeft())
	assert.Equal(t, 0, Workshop{MaxParticipants: 5, RegisteredCount: 7}.SeatsLeft())
	assert.True(t, Workshop{EligibleGrades: []int{8, 9}}.IsEligible(9))
	assert.False(t, Workshop{EligibleGrades: []int{8, 9}}.IsEligible(10))
}
