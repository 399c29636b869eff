package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

func TestFormatDateTimeIn(t *testing.T) {
	cases := []struct {
		in   string
		want DateTime
	}{
		{"2025-08-09T14:30:00Z", DateTime{Date: "9/08/25", Time: "14:30"}},
		{"2025-12-31T23:05:59.123Z", DateTime{Date: "31/12/25", Time: "23:05"}},
		{"2025-01-02T07:00:00+02:00", DateTime{Date: "2/01/25", Time: "05:00"}},
		{"2025-03-04", DateTime{Date: "4/03/25", Time: "00:00"}},
		{"", DateTime{Date: NA, Time: NA}},
		{"not a date", DateTime{Date: NA, Time: NA}},
		{"2025-13-40T99:00:00Z", DateTime{Date: NA, Time: NA}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDateTimeIn(tc.in, time.UTC))
		})
	}
}

func TestFormatDateTimeNAOnlyForInvalid(t *testing.T) {
	for _, in := range []string{"2024-02-29T00:00:00Z", "2024-02-29 10:11", "2024-02-29T10:11:12"} {
		got := FormatDateTimeIn(in, time.UTC)
		assert.NotEqual(t, NA, got.Date, in)
		assert.NotEqual(t, NA, got.Time, in)
	}
	got := FormatDateTimeIn("2023-02-29T00:00:00Z", time.UTC)
	assert.Equal(t, DateTime{Date: NA, Time: NA}, got)
}

func TestFormatDateTimeInLocation(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	got := FormatDateTimeIn("2025-08-09T20:30:00Z", loc)
	assert.Equal(t, DateTime{Date: "10/08/25", Time: "03:30"}, got)

	// zoneless input is already local
	got = FormatDateTimeIn("2025-08-09T20:30:00", loc)
	assert.Equal(t, DateTime{Date: "9/08/25", Time: "20:30"}, got)
}

func TestFormatOwnerTime(t *testing.T) {
	assert.Equal(t, "09 Aug 2025, 14:30", FormatOwnerTime("2025-08-09T14:30:00Z", time.UTC))
	assert.Equal(t, NA, FormatOwnerTime("", time.UTC))
}

func TestSortNewestFirst(t *testing.T) {
	items := []model.TodoItem{
		{ID: "jan", CreatedAt: "2025-01-01T10:00:00Z"},
		{ID: "mar", CreatedAt: "2025-03-01T09:00:00Z"},
		{ID: "bad", CreatedAt: "garbage"},
		{ID: "feb", CreatedAt: "2025-02-01T00:00:00Z"},
	}
	sorted := SortNewestFirst(items)

	ids := make([]string, 0, len(sorted))
	for _, it := range sorted {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"mar", "feb", "jan", "bad"}, ids)
	assert.Equal(t, "jan", items[0].ID, "input must not be reordered")

	for i := 0; i+1 < len(sorted)-1; i++ {
		a, ok := Parse(sorted[i].CreatedAt, time.UTC)
		require.True(t, ok)
		b, ok := Parse(sorted[i+1].CreatedAt, time.UTC)
		require.True(t, ok)
		assert.False(t, b.After(a), "%s before %s", sorted[i].ID, sorted[i+1].ID)
	}
}

func TestCompareDate(t *testing.T) {
	jan := model.TodoItem{CreatedAt: "2025-01-01T10:00:00Z"}
	mar := model.TodoItem{CreatedAt: "2025-03-01T09:00:00Z"}
	assert.Equal(t, -1, CompareDate(mar, jan))
	assert.Equal(t, 1, CompareDate(jan, mar))
	assert.Equal(t, 0, CompareDate(jan, jan))
}
