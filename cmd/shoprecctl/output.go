// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"
)

// product mirrors the product entries returned by the recommendation routes.
type product struct {
	ProductID      int64   `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Score          float64 `json:"score"`
	AisleName      *string `json:"aisle_name"`
	DepartmentName *string `json:"department_name"`
}

func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func printProducts(w io.Writer, items []product) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "no recommendations")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPRODUCT ID\tNAME\tSCORE\tAISLE\tDEPARTMENT")
	for i, p := range items {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			i+1, p.ProductID, p.ProductName,
			strconv.FormatFloat(p.Score, 'f', 3, 64),
			orDash(p.AisleName), orDash(p.DepartmentName))
	}
	return tw.Flush()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
