// Package transport implements the HTTP client the flow controller talks
// through: it initializes a flow conversation and submits payloads to the
// submission target each response names, verbatim.
//
// The controller depends only on the Initializer/Submitter contract, so any
// other transport (a test double, a non-HTTP channel) can stand in.
package transport
