package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ObjectID
		wantErr bool
	}{
		{"extended json", `{"$oid":"5d1a32f78f2cf42ci3b1f1f4"}`, "5d1a32f78f2cf42ci3b1f1f4", false},
		{"plain string", `"5d1a32f78f2cf42ci3b1f1f4"`, "5d1a32f78f2cf42ci3b1f1f4", false},
		{"missing oid key", `{"oid":"x"}`, "", true},
		{"number", `42`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ObjectID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestObjectIDMarshalPlain(t *testing.T) {
	out, err := json.Marshal(ObjectID("abc"))
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(out))
}

func TestTimeUnmarshal(t *testing.T) {
	var ts Time
	require.NoError(t, json.Unmarshal([]byte(`{"$date":1577836800000}`), &ts))
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), ts.Time)

	require.NoError(t, json.Unmarshal([]byte(`"2020-06-01T12:30:00Z"`), &ts))
	assert.Equal(t, time.Date(2020, 6, 1, 12, 30, 0, 0, time.UTC), ts.Time)

	// Pre-epoch millisecond timestamps keep sub-second precision
	require.NoError(t, json.Unmarshal([]byte(`{"$date":-4300}`), &ts))
	assert.Equal(t, time.Date(1969, 12, 31, 23, 59, 55, 700_000_000, time.UTC), ts.Time)

	// Zero is the epoch itself, not an absent value
	require.NoError(t, json.Unmarshal([]byte(`{"$date":0}`), &ts))
	assert.Equal(t, time.Unix(0, 0).UTC(), ts.Time)

	assert.Error(t, json.Unmarshal([]byte(`true`), &ts))
}

func TestMetaUnmarshal(t *testing.T) {
	payload := `{
		"created_at": {"$date": 1577836800000},
		"created_by": {"$oid": "aaaa"},
		"modified_at": null,
		"modified_by": null
	}`
	var m Meta
	require.NoError(t, json.Unmarshal([]byte(payload), &m))
	assert.Equal(t, ObjectID("aaaa"), m.CreatedBy)
	assert.Nil(t, m.ModifiedAt)
	assert.Nil(t, m.ModifiedBy)
}

func TestParseTagCategory(t *testing.T) {
	for _, c := range TagCategories {
		got, err := ParseTagCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseTagCategory("Genre")
	assert.Error(t, err)

	var c TagCategory
	assert.Error(t, json.Unmarshal([]byte(`"NotACategory"`), &c))
	require.NoError(t, json.Unmarshal([]byte(`"Soundtrack"`), &c))
	assert.Equal(t, CategorySoundtrack, c)
}
