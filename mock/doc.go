// Package mock provides an in-memory flow service that facilitates unit
// testing of the embedded authentication flow client.
//
// The mock serves a scripted sequence of flow frames over HTTP, records every
// submission it receives, and signs terminal assertions with a throwaway RSA
// key, so tests exercise the full client stack without a real identity
// provider.
package mock
