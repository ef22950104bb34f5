// Package sandbox is an in-memory imitation of the AlianzMail send endpoint.
//
// It accepts the same JSON document the alianz transport posts, checks the
// bearer token and the document shape, and records every accepted message so
// tests and local tooling can inspect what would have been sent.
//
// Routes:
//
//	POST   /v1/mail/send     bearer auth; 200 {"id","messengers","recipients"}
//	GET    /admin/messages   recorded messages, newest last
//	DELETE /admin/messages   clears the store
//	GET    /healthz          liveness
//	GET    /readyz           readiness
//
// Typical use in tests:
//
//	sb := sandbox.New(sandbox.WithTokens("secret"))
//	srv := httptest.NewServer(sb)
//	defer srv.Close()
//
//	client, _ := alianz.New(alianz.Config{Endpoint: srv.URL + sandbox.SendPath})
//	res, err := req.SetCredentials("secret").Dispatch(ctx, client)
//	msgs := sb.Store().List()
package sandbox
