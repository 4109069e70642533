// Package digest implements the engagement digest pipeline: aggregating
// per-recipe like counts for each user, composing the digest body, and
// dispatching one email per user through the mail transport.
//
// The service layer owns all digest business logic. It depends only on
// the repository and transport interfaces defined in this package and
// should never import from repository/ or mailing/ implementations.
//
// Repository implementations live in repository/postgres/; the transport
// implementation lives in mailing/.
package digest
