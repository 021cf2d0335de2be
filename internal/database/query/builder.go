// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package query

import "strings"

// Filter accumulates AND-ed conditions with their bound values.
//
//	clause, args := query.Where().Eq("user_id", id).Eq("model_kind", "popular").Clause()
//	// WHERE user_id = ? AND model_kind = ?
type Filter struct {
	conds []string
	args  []interface{}
}

// Where starts an empty filter.
func Where() *Filter {
	return &Filter{}
}

// Eq adds "column = ?".
func (f *Filter) Eq(column string, value interface{}) *Filter {
	f.conds = append(f.conds, column+" = ?")
	f.args = append(f.args, value)
	return f
}

// In adds "column IN (...)". An empty list matches no rows.
func (f *Filter) In(column string, ids []int64) *Filter {
	if len(ids) == 0 {
		f.conds = append(f.conds, "FALSE")
		return f
	}
	f.conds = append(f.conds, column+" IN ("+Placeholders(len(ids))+")")
	for _, id := range ids {
		f.args = append(f.args, id)
	}
	return f
}

// Clause renders "WHERE ..." and the values to bind. An empty filter
// renders "" so the statement matches every row.
func (f *Filter) Clause() (string, []interface{}) {
	if len(f.conds) == 0 {
		return "", nil
	}
	args := make([]interface{}, len(f.args))
	copy(args, f.args)
	return "WHERE " + strings.Join(f.conds, " AND "), args
}

// Placeholders returns n comma-separated "?" markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
