// package server hosts the local HTTP callback used by the OAuth2
// authorization-code login flow.
package server
