// Package aiographql is a GraphQL client library.
//
// # About this library
//
// A client talks to a single GraphQL endpoint. Queries and mutations are sent over HTTP
// as POST or GET requests, subscriptions run over a WebSocket using the
// subscriptions-transport-ws protocol (graphql-ws sub-protocol).
//
// Requests are validated against the schema of the endpoint before they are sent. The
// schema is introspected on first use and cached for the lifetime of the client.
// Validation can be disabled per request.
//
// Packages:
// - client: entry point, queries, mutations, subscriptions and schema access
// - request: immutable operation descriptor and its merge rules
// - response: response envelope and GraphQL error records
// - subscription: subscription protocol and state machine
// - introspection: introspection query, result types and conversion to SDL
// - validation: parsing and validation of queries against a schema
//
// The command graphql-client in cmd/graphql-client exposes the client on the command line.
package aiographql
