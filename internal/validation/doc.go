// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator that reports fields by
// their JSON names and translates failures into human-readable messages in
// the API error format.
//
// # Usage
//
//	type EnqueueRequest struct {
//	    TaskType string  `json:"task_type" validate:"required,oneof=update_recommendations"`
//	    UserID   int64   `json:"user_id" validate:"gt=0"`
//	    Products []int64 `json:"ordered_products" validate:"omitempty,unique,dive,gt=0"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    rw.ValidationError(verr.Summary(), verr.Details())
//	    return
//	}
//
// # Custom Tags
//
//   - modelkind: the value parses as a model kind the engine can generate
//     (popular or collaborative, case-insensitive)
//
// # Errors
//
// ValidateStruct returns an *Error listing one FieldError per failed rule.
// Summary and Details give the message and detail object of a 400 response.
package validation
