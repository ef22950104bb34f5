// Package health provides liveness and readiness HTTP handlers.
//
// The sandbox server mounts them at /healthz and /readyz:
//
//	r.Get("/healthz", health.LivenessHandler())
//	r.Get("/readyz", health.ReadinessHandler(health.Checks{
//	    "store": storeCheck,
//	}, health.WithTimeout(time.Second)))
//
// Responses are plain text ("OK" / "Service Unavailable") unless the client
// asks for JSON with Accept: application/json or ?format=json:
//
//	{"status":"unhealthy","checks":{"store":{"status":"unhealthy","error":"..."}}}
package health
