// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

/*
Package services adapts shoprec components to suture.Service.

Each wrapper turns a component lifecycle (ListenAndServe, Start/Shutdown,
Run, a ticker loop) into Serve(ctx) error and names itself through
fmt.Stringer for suture's event log:

  - HTTPServerService: *http.Server with graceful Shutdown
  - NATSComponentsService: embedded server, connections and task stream
  - WorkerService: the recommendation task worker
  - RetrainService: training on startup and on a fixed interval

Returning ctx.Err() after cancellation tells suture the stop was requested.
Any other error triggers a restart under the supervisor's backoff policy.
*/
package services
