// Package idgen wraps the UUID generator used for run ids and journal
// entries so tests can stub it. Callers treat identifiers as opaque strings.
package idgen
