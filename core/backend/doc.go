// Package backend describes the hosted database/auth backend as seen by the probes.
//
// It owns three things: the credentials used to reach the backend, the Client
// interface the probes talk to, and the error taxonomy every backend failure is
// folded into.
//
// # Client Interface
//
// The Client interface is the narrow capability set the probes need:
//
//   - GetSession / GetUser: auth introspection.
//   - Select: bounded reads (columns, limit, order).
//   - Insert / Update / Delete: the write path used by the round-trip probe.
//
// RESTClient implements it over the PostgREST (/rest/v1) and GoTrue (/auth/v1)
// HTTP APIs. The database package provides a direct SQL implementation.
//
// # Error Taxonomy
//
// Classify maps any error returned by a Client (PostgREST JSON errors, Postgres
// SQLSTATE codes, MySQL error numbers, sqlite messages, S3 error codes, network
// failures) to one of a closed set of kinds. The mapping table lives in
// errors.go and nowhere else.
//
// # Usage
//
//	creds := cfg.Supabase.Credentials()
//	if err := backend.CheckCredentials(creds); err != nil {
//	    return err
//	}
//	client, err := backend.NewRESTClient(creds)
package backend
