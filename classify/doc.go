// Package classify provides pure, stateless predicates over authenticator
// descriptors: redirect detection, platform-passkey detection, deny-list
// filtering and the direct-input vs selectable partition used when a step
// offers multiple options.
package classify
