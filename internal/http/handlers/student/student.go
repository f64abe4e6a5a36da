// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `storage` even after the factory call has returned. Example:
//
//	router.HandleFunc("POST /api/students", student.New(storage))
//	//                                              ^^^^^^^^^^^^^
//	//                         New(storage) is called ONCE at startup.
//	//                         It returns a handler func which is called
//	//                         on EVERY incoming request.
//
// Every handler is stateless: all durable state lives in the store, and
// nothing is cached or shared between requests.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aanand-mishra/school-mis-api/internal/storage"
	"github.com/aanand-mishra/school-mis-api/internal/types"
	"github.com/aanand-mishra/school-mis-api/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "John Doe", "age": 15, "class_name": "10A",
//	  "gender": "male", "contact_info": "john@example.com" }
//
// Success response (200 OK): the full record, with a freshly generated
// id and created_at == updated_at.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, failed validation,
//	                   or a student with the same name already exists
//	500 Internal     — database error
//
// THE DUPLICATE CHECK IS BEST-EFFORT. It is a read followed by a
// separate insert with nothing held in between: two concurrent creates
// with the same name can both pass the lookup and both land in the
// store. The store enforces no uniqueness on name either. Closing that
// race would take a unique index — see internal/storage/mongodb.
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		// ── Step 1: Decode JSON body ──────────────────────────────────
		var req types.CreateStudentRequest
		err := json.NewDecoder(r.Body).Decode(&req)

		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty — nothing to decode.
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// ── Step 2: Validate BEFORE touching the store ────────────────
		// validator.New().Struct(v) checks all validate:"..." tags on v.
		// A payload missing contact_info (or any required field) is
		// rejected here; no database call has happened yet.
		if err := validator.New().Struct(req); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		// ── Step 3: Best-effort duplicate-name check ──────────────────
		// ErrStudentNotFound is the GOOD outcome here: the name is free.
		_, err = store.GetStudentByName(r.Context(), req.Name)
		if err == nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("student with this name already exists")))
			return
		}
		if !errors.Is(err, storage.ErrStudentNotFound) {
			slog.Error("error checking for duplicate student",
				slog.String("name", req.Name),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		// ── Step 4: Shape the record ──────────────────────────────────
		// The service — not the store — mints the id and stamps both
		// timestamps with the same instant, so created_at == updated_at
		// on a fresh record. The id is a uuid v4 string, unrelated to
		// any database-internal key.
		now := time.Now().UTC()
		student := types.Student{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Age:         *req.Age,
			ClassName:   req.ClassName,
			Gender:      req.Gender,
			ContactInfo: req.ContactInfo,
			ParentName:  req.ParentName,
			ParentPhone: req.ParentPhone,
			Address:     req.Address,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		// ── Step 5: Persist and echo back ─────────────────────────────
		if err := store.CreateStudent(r.Context(), student); err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.String("id", student.ID))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
// Fetches a single student by their external identifier.
//
// Success response (200 OK): the full record.
//
// Error responses:
//
//	404 Not Found — no student with that id
//	500 Internal  — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.PathValue("id") extracts the {id} segment from the URL.
		// This works because Go 1.22+ supports named path parameters in
		// the ServeMux pattern: "GET /api/students/{id}"
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := store.GetStudentByID(r.Context(), id)
		if err != nil {
			writeLookupError(w, "getting", id, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns a JSON array of students in the store's natural order, capped
// at the storage backend's list limit (1000 records — anything beyond
// the cap is silently omitted; there is no pagination).
//
// Returns an empty array [] (not null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.GetStudents(r.Context())
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByClass handles GET /api/students/class/{class_name}
// Returns the students whose class_name equals the path segment EXACTLY.
// Matching is case-sensitive and whitespace-sensitive: "10a" and "10A "
// do not match "10A". Same cap and same empty-array behaviour as GetList.
// ─────────────────────────────────────────────────────────────────────────────
func GetByClass(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		className := r.PathValue("class_name")
		slog.Info("getting students by class", slog.String("class_name", className))

		students, err := store.GetStudentsByClass(r.Context(), className)
		if err != nil {
			slog.Error("error getting students by class",
				slog.String("class_name", className),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Applies a PARTIAL update: only the fields present in the body change.
//
// Request body (JSON) — any subset of the student's fields:
//
//	{ "age": 17, "class_name": "11A" }
//
// Fields absent from the body keep their stored values. updated_at is
// refreshed no matter which fields (if any) were supplied. The response
// is the record as re-read from the store after the write.
//
// No duplicate-name check happens here: renaming a student onto an
// existing name is not prevented.
//
// Error responses:
//
//	400 Bad Request — empty body or malformed JSON
//	404 Not Found   — no student with that id
//	500 Internal    — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		var req types.UpdateStudentRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// No validation pass here on purpose: every field is optional in
		// a partial update, so there is nothing for "required" to check.
		updated, err := store.UpdateStudentByID(r.Context(), id, req)
		if err != nil {
			writeLookupError(w, "updating", id, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// Permanently removes a student record.
//
// Success response (200 OK):
//
//	{ "message": "student deleted successfully" }
//
// The deleted entity itself is not returned — just the acknowledgment.
//
// Error responses:
//
//	404 Not Found — no student with that id
//	500 Internal  — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		if err := store.DeleteStudentByID(r.Context(), id); err != nil {
			writeLookupError(w, "deleting", id, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK,
			map[string]string{"message": "student deleted successfully"})
	}
}

// writeLookupError maps a storage error from an id-addressed operation
// onto the right HTTP status: the not-found sentinel becomes 404,
// anything else is an unexpected store failure and becomes 500.
func writeLookupError(w http.ResponseWriter, action, id string, err error) {
	if errors.Is(err, storage.ErrStudentNotFound) {
		response.WriteJSON(w, http.StatusNotFound,
			response.GeneralError(storage.ErrStudentNotFound))
		return
	}
	slog.Error("error "+action+" student",
		slog.String("id", id),
		slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError,
		response.GeneralError(err))
}
