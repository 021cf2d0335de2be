// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

/*
Package supervisor runs the long-lived parts of the shoprec server under a
suture v4 supervisor tree.

# Tree Layout

	shoprec (root)
	├── model-layer
	│   └── retrain-scheduler
	├── queue-layer
	│   ├── nats-components
	│   └── recommendation-worker
	└── api-layer
	    └── http-server

Each layer is its own supervisor. A service that returns an error is
restarted with suture's backoff policy without touching the other layers,
so a worker stuck on a broken broker connection does not take the HTTP
API down.

# Usage

	tree, err := supervisor.NewTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.Add(supervisor.LayerModel, services.NewRetrainService(svc, retrainCfg, logger))
	tree.Add(supervisor.LayerQueue, services.NewWorkerService(w))
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, 10*time.Second, logger))

	err = <-tree.ServeBackground(ctx)

Suture events (restarts, backoff, timeouts) are logged through sutureslog
on the slog logger given to NewTree.

Service wrappers live in the services subpackage.
*/
package supervisor
