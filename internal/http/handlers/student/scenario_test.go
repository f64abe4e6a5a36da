package student_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/school-mis-api/internal/storage"
	"github.com/aanand-mishra/school-mis-api/internal/types"
)

// memStorage is a stateful in-memory store used for the end-to-end
// scenario: unlike fakeStorage it actually remembers what was written,
// so a whole create → update → list → delete flow behaves like the
// real document store (minus durability, indexes, and the network).
//
// Records are kept in insertion order — a stand-in for the store's
// "natural order", which is all the list endpoints promise.
type memStorage struct {
	records []types.Student
}

var _ storage.Storage = (*memStorage)(nil)

func (m *memStorage) CreateStudent(_ context.Context, s types.Student) error {
	m.records = append(m.records, s)
	return nil
}

func (m *memStorage) GetStudentByID(_ context.Context, id string) (types.Student, error) {
	for _, s := range m.records {
		if s.ID == id {
			return s, nil
		}
	}
	return types.Student{}, storage.ErrStudentNotFound
}

func (m *memStorage) GetStudentByName(_ context.Context, name string) (types.Student, error) {
	for _, s := range m.records {
		if s.Name == name {
			return s, nil
		}
	}
	return types.Student{}, storage.ErrStudentNotFound
}

func (m *memStorage) GetStudents(_ context.Context) ([]types.Student, error) {
	out := make([]types.Student, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memStorage) GetStudentsByClass(_ context.Context, className string) ([]types.Student, error) {
	out := make([]types.Student, 0)
	for _, s := range m.records {
		if s.ClassName == className {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStorage) UpdateStudentByID(_ context.Context, id string, upd types.UpdateStudentRequest) (types.Student, error) {
	for i, s := range m.records {
		if s.ID != id {
			continue
		}
		if upd.Name != nil {
			s.Name = *upd.Name
		}
		if upd.Age != nil {
			s.Age = *upd.Age
		}
		if upd.ClassName != nil {
			s.ClassName = *upd.ClassName
		}
		if upd.Gender != nil {
			s.Gender = *upd.Gender
		}
		if upd.ContactInfo != nil {
			s.ContactInfo = *upd.ContactInfo
		}
		if upd.ParentName != nil {
			s.ParentName = upd.ParentName
		}
		if upd.ParentPhone != nil {
			s.ParentPhone = upd.ParentPhone
		}
		if upd.Address != nil {
			s.Address = upd.Address
		}
		s.UpdatedAt = time.Now().UTC()
		m.records[i] = s
		return s, nil
	}
	return types.Student{}, storage.ErrStudentNotFound
}

func (m *memStorage) DeleteStudentByID(_ context.Context, id string) error {
	for i, s := range m.records {
		if s.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return storage.ErrStudentNotFound
}

func (m *memStorage) Ping(_ context.Context) error { return nil }

// TestStudentLifecycle walks one record through its whole life:
// create, duplicate rejection, partial update, class filtering both
// ways, delete, and the 404 that follows.
func TestStudentLifecycle(t *testing.T) {
	router := newRouter(&memStorage{})

	// Create John Doe in 10A.
	rec := doJSON(t, router, http.MethodPost, "/api/students",
		`{"name":"John Doe","age":15,"class_name":"10A","gender":"male","contact_info":"john@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// A second create with the same name fails, whatever else differs.
	rec = doJSON(t, router, http.MethodPost, "/api/students",
		`{"name":"John Doe","age":99,"class_name":"12Z","gender":"male","contact_info":"elsewhere@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Give the clock a visible tick so updated_at strictly increases.
	time.Sleep(5 * time.Millisecond)

	// Partial update: age and class only. Name must survive.
	rec = doJSON(t, router, http.MethodPut, "/api/students/"+created.ID,
		`{"age":17,"class_name":"11A"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 17, updated.Age)
	assert.Equal(t, "11A", updated.ClassName)
	assert.Equal(t, "John Doe", updated.Name)
	assert.Equal(t, "john@example.com", updated.ContactInfo)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt),
		"updated_at must strictly increase on update")
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt),
		"created_at is immutable")

	// The record moved to 11A…
	rec = doJSON(t, router, http.MethodGet, "/api/students/class/11A", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var inNew []types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inNew))
	require.Len(t, inNew, 1)
	assert.Equal(t, created.ID, inNew[0].ID)

	// …and out of 10A.
	rec = doJSON(t, router, http.MethodGet, "/api/students/class/10A", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var inOld []types.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inOld))
	assert.Empty(t, inOld)

	// Delete, then the id is gone.
	rec = doJSON(t, router, http.MethodDelete, "/api/students/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/students/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// With the record gone, the name is free again.
	rec = doJSON(t, router, http.MethodPost, "/api/students",
		`{"name":"John Doe","age":15,"class_name":"10A","gender":"male","contact_info":"john@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}
