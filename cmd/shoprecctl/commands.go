// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func parseUserArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("user id must be a non-negative integer, got %q", arg)
	}
	return id, nil
}

// --- recommend ---

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var (
		kind    string
		count   int
		noCache bool
		exclude []int64
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "recommend <user-id>",
		Short: "Show recommendations for a user",
		Long: `Show recommendations for a user.

Examples:
  shoprecctl recommend 42
  shoprecctl recommend 42 --kind popular --count 5
  shoprecctl recommend 42 --no-cache --exclude 24852,13176`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserArg(args[0])
			if err != nil {
				return err
			}

			q := url.Values{}
			q.Set("model_kind", kind)
			if count > 0 {
				q.Set("count", strconv.Itoa(count))
			}
			if noCache {
				q.Set("use_cache", "false")
			}
			if len(exclude) > 0 {
				ids := make([]string, len(exclude))
				for i, id := range exclude {
					ids[i] = strconv.FormatInt(id, 10)
				}
				q.Set("exclude", strings.Join(ids, ","))
			}

			env, err := opts.client().get(cmd.Context(), fmt.Sprintf("/api/v1/recommendations/%d?%s", userID, q.Encode()))
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), env.Data)
			}

			var items []product
			if err := json.Unmarshal(env.Data, &items); err != nil {
				return fmt.Errorf("decode recommendations: %w", err)
			}
			return printProducts(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "collaborative", "model kind: collaborative or popular")
	cmd.Flags().IntVar(&count, "count", 0, "number of products (server default when 0)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "recompute and persist instead of reading cached results")
	cmd.Flags().Int64SliceVar(&exclude, "exclude", nil, "product ids to leave out")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON response")
	return cmd
}

// --- generate ---

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate <user-id>",
		Short: "Retrain and persist fresh recommendations for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserArg(args[0])
			if err != nil {
				return err
			}

			path := fmt.Sprintf("/api/v1/recommendations/%d/generate", userID)
			if count > 0 {
				path += "?count=" + strconv.Itoa(count)
			}
			env, err := opts.client().post(cmd.Context(), path, nil)
			if err != nil {
				return err
			}

			var resp struct {
				Status          string    `json:"status"`
				Message         string    `json:"message"`
				Recommendations []product `json:"recommendations"`
			}
			if err := json.Unmarshal(env.Data, &resp); err != nil {
				return fmt.Errorf("decode generate response: %w", err)
			}
			if resp.Status == "no_orders" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "user %d: %s\n", userID, resp.Message)
				return err
			}
			return printProducts(cmd.OutOrStdout(), resp.Recommendations)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "number of products (server default when 0)")
	return cmd
}

// --- retrain ---

func newRetrainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retrain",
		Short: "Retrain the recommendation model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.client().post(cmd.Context(), "/api/v1/recommendations/retrain", nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), env.Data)
		},
	}
}

// --- invalidate ---

func newInvalidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <user-id>",
		Short: "Invalidate cached recommendations (user 0 drops the popular list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserArg(args[0])
			if err != nil {
				return err
			}
			if _, err := opts.client().delete(cmd.Context(), fmt.Sprintf("/api/v1/recommendations/%d/cache", userID)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cache invalidated for user %d\n", userID)
			return err
		},
	}
}

// --- stats ---

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics of the current model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := opts.client().get(cmd.Context(), "/api/v1/model/stats")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), env.Data)
		},
	}
}

// --- order ---

type orderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// parseOrderItems parses "product[:quantity]" arguments. The quantity
// defaults to 1.
func parseOrderItems(args []string) ([]orderItem, error) {
	items := make([]orderItem, 0, len(args))
	for _, arg := range args {
		idPart, qtyPart, hasQty := strings.Cut(arg, ":")
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid product id in %q", arg)
		}
		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(qtyPart)
			if err != nil || qty <= 0 {
				return nil, fmt.Errorf("invalid quantity in %q", arg)
			}
		}
		items = append(items, orderItem{ProductID: id, Quantity: qty})
	}
	return items, nil
}

func newOrderCmd(opts *rootOptions) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "order <product[:quantity]>...",
		Short: "Place an order and queue a recommendation update",
		Long: `Place an order and queue a recommendation update.

Examples:
  shoprecctl order --user 42 24852 13176:2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID <= 0 {
				return fmt.Errorf("--user must be a positive user id")
			}
			items, err := parseOrderItems(args)
			if err != nil {
				return err
			}

			env, err := opts.client().post(cmd.Context(), "/api/v1/orders", map[string]any{
				"user_id": userID,
				"items":   items,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), env.Data)
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "user placing the order")
	return cmd
}

// --- enqueue ---

func newEnqueueCmd(opts *rootOptions) *cobra.Command {
	var (
		taskID   string
		taskType string
		userID   int64
		orderID  int64
		products []int64
	)

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Publish a recommendation task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID <= 0 {
				return fmt.Errorf("--user must be a positive user id")
			}

			body := map[string]any{
				"task_type": taskType,
				"user_id":   userID,
				"order_id":  orderID,
			}
			if taskID != "" {
				body["task_id"] = taskID
			}
			if len(products) > 0 {
				body["ordered_products"] = products
			}

			env, err := opts.client().post(cmd.Context(), "/api/v1/tasks", body)
			if err != nil {
				return err
			}

			var resp struct {
				TaskID string `json:"task_id"`
				Topic  string `json:"topic"`
			}
			if err := json.Unmarshal(env.Data, &resp); err != nil {
				return fmt.Errorf("decode enqueue response: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "queued task %s on %s\n", resp.TaskID, resp.Topic)
			return err
		},
	}

	cmd.Flags().StringVar(&taskID, "task-id", "", "task id (generated when empty)")
	cmd.Flags().StringVar(&taskType, "type", "update_recommendations", "task type")
	cmd.Flags().Int64Var(&userID, "user", 0, "user the task is for")
	cmd.Flags().Int64Var(&orderID, "order", 0, "order that triggered the task")
	cmd.Flags().Int64SliceVar(&products, "products", nil, "ordered product ids")
	return cmd
}

// --- health ---

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, body, err := opts.client().raw(cmd.Context(), "/health")
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), body); err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("server unhealthy (%d)", status)
			}
			return nil
		},
	}
}
