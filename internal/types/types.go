// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import "time"

// Student represents one student record in the directory.
//
// Struct tags serve three purposes here:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (snake_case names match REST API conventions).
//
//  2. bson:"..."  — controls how the field is stored in the document
//     database. The names are kept identical to the JSON names so the
//     stored documents are readable with the same vocabulary the API
//     speaks.
//
//  3. Optional fields are *string, not string. A nil pointer means the
//     caller never supplied a value; the omitempty tag then drops the
//     field entirely from both the JSON response and the stored
//     document, rather than persisting a misleading "".
//
// ID is the record's external identifier (a uuid v4 string), generated
// once at creation. It is deliberately NOT the database's internal _id —
// clients never see or depend on storage-level keys.
type Student struct {
	ID          string    `json:"id"           bson:"id"`
	Name        string    `json:"name"         bson:"name"`
	Age         int       `json:"age"          bson:"age"`
	ClassName   string    `json:"class_name"   bson:"class_name"`
	Gender      string    `json:"gender"       bson:"gender"`
	ContactInfo string    `json:"contact_info" bson:"contact_info"`
	ParentName  *string   `json:"parent_name,omitempty"  bson:"parent_name,omitempty"`
	ParentPhone *string   `json:"parent_phone,omitempty" bson:"parent_phone,omitempty"`
	Address     *string   `json:"address,omitempty"      bson:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"   bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"   bson:"updated_at"`
}

// CreateStudentRequest is the payload accepted by POST /api/students.
//
// The validate:"..." rules are checked by go-playground/validator before
// the storage layer is ever touched. Age is a *int for the same reason
// the update payload uses pointers: "required" on a plain int would
// reject {"age": 0} as if the field were missing. On a pointer,
// "required" means non-nil — omitting age still fails validation, but
// an explicit 0 passes.
type CreateStudentRequest struct {
	Name        string  `json:"name"         validate:"required"`
	Age         *int    `json:"age"          validate:"required"`
	ClassName   string  `json:"class_name"   validate:"required"`
	Gender      string  `json:"gender"       validate:"required"`
	ContactInfo string  `json:"contact_info" validate:"required"`
	ParentName  *string `json:"parent_name"`
	ParentPhone *string `json:"parent_phone"`
	Address     *string `json:"address"`
}

// UpdateStudentRequest is the payload accepted by PUT /api/students/{id}.
//
// EVERY field is a pointer. This is how the decoder distinguishes
// "field omitted" from "field explicitly set to a zero value":
//
//	{"age": 0}   → Age = pointer to 0   (apply it)
//	{}           → Age = nil            (leave the stored age alone)
//
// A plain int could never tell those two payloads apart. Only non-nil
// fields are written to the store; everything else keeps its current
// value.
type UpdateStudentRequest struct {
	Name        *string `json:"name"`
	Age         *int    `json:"age"`
	ClassName   *string `json:"class_name"`
	Gender      *string `json:"gender"`
	ContactInfo *string `json:"contact_info"`
	ParentName  *string `json:"parent_name"`
	ParentPhone *string `json:"parent_phone"`
	Address     *string `json:"address"`
}
