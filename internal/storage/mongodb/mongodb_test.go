package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/school-mis-api/internal/types"
)

// updateDocument is where "omitted" and "set to zero" part ways, so it
// gets its own tests even though it is a private helper.

func ptr[T any](v T) *T { return &v }

// The list cap is easy to lose in a refactor, so the wiring gets a
// test: every list query must carry a 1000-document limit.
func TestListOptionsCarryTheCap(t *testing.T) {
	opts := listOptions()

	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, 1000, *opts.Limit)
}

func TestUpdateDocument(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty update still refreshes updated_at", func(t *testing.T) {
		set := updateDocument(types.UpdateStudentRequest{}, now)

		assert.Len(t, set, 1)
		assert.Equal(t, now, set["updated_at"])
	})

	t.Run("only supplied fields appear", func(t *testing.T) {
		set := updateDocument(types.UpdateStudentRequest{
			Age:       ptr(17),
			ClassName: ptr("11A"),
		}, now)

		assert.Equal(t, 17, set["age"])
		assert.Equal(t, "11A", set["class_name"])
		assert.Equal(t, now, set["updated_at"])
		assert.NotContains(t, set, "name")
		assert.NotContains(t, set, "gender")
		assert.NotContains(t, set, "contact_info")
		assert.NotContains(t, set, "parent_name")
	})

	t.Run("zero values are written, not dropped", func(t *testing.T) {
		set := updateDocument(types.UpdateStudentRequest{
			Age:        ptr(0),
			ParentName: ptr(""),
		}, now)

		assert.Equal(t, 0, set["age"])
		assert.Equal(t, "", set["parent_name"])
	})

	t.Run("all fields", func(t *testing.T) {
		set := updateDocument(types.UpdateStudentRequest{
			Name:        ptr("Jane Doe"),
			Age:         ptr(16),
			ClassName:   ptr("10B"),
			Gender:      ptr("female"),
			ContactInfo: ptr("jane@example.com"),
			ParentName:  ptr("J. Doe Sr."),
			ParentPhone: ptr("+1-555-0100"),
			Address:     ptr("12 School Lane"),
		}, now)

		// 8 student fields + the timestamp.
		assert.Len(t, set, 9)
		assert.Equal(t, "Jane Doe", set["name"])
		assert.Equal(t, "+1-555-0100", set["parent_phone"])
	})
}
