// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care which database they are
// talking to. By depending only on this interface:
//
//   - Switching databases = implement the interface for the new DB,
//     change one line in main.go. Zero handler changes.
//
//   - Writing tests = pass a fake/mock that satisfies the interface.
//     No real database needed for unit tests.
//
// This is the Dependency Inversion Principle in practice.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/school-mis-api/internal/types"
)

// ErrStudentNotFound is the sentinel returned by any lookup, update or
// delete that matches no record. Handlers detect it with errors.Is and
// translate it to 404 — the storage layer itself never thinks in HTTP
// status codes.
var ErrStudentNotFound = errors.New("student not found")

// Storage is the database contract. Any concrete type that implements
// ALL of these methods automatically satisfies this interface — Go does
// this implicitly (no "implements" keyword required).
//
// Every method takes a context.Context: all of these calls cross the
// network to the document store and may block on I/O, so the request
// context flows through to the driver, which can abandon the call if
// the client goes away.
type Storage interface {
	// CreateStudent persists a fully-populated record. The caller is
	// responsible for generating the ID and stamping the timestamps —
	// creation policy lives in the service, not the store.
	CreateStudent(ctx context.Context, student types.Student) error

	// GetStudentByID fetches the record whose external id matches.
	// Returns ErrStudentNotFound if nothing matches.
	GetStudentByID(ctx context.Context, id string) (types.Student, error)

	// GetStudentByName fetches one record by exact name match. Used by
	// the create path's best-effort duplicate check.
	// Returns ErrStudentNotFound if nothing matches.
	GetStudentByName(ctx context.Context, name string) (types.Student, error)

	// GetStudents returns records in the store's natural order, capped
	// at the backend's list limit. Empty slice (not nil) when there are
	// no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// GetStudentsByClass returns records whose class_name equals the
	// argument exactly (case-sensitive), same cap as GetStudents.
	GetStudentsByClass(ctx context.Context, className string) ([]types.Student, error)

	// UpdateStudentByID applies the non-nil fields of upd to the record,
	// refreshes updated_at, and returns the record as re-read from the
	// store. Returns ErrStudentNotFound if nothing matches.
	UpdateStudentByID(ctx context.Context, id string, upd types.UpdateStudentRequest) (types.Student, error)

	// DeleteStudentByID removes the record permanently.
	// Returns ErrStudentNotFound if nothing matches.
	DeleteStudentByID(ctx context.Context, id string) error

	// Ping verifies the store is reachable. Used by the health endpoint.
	Ping(ctx context.Context) error
}
