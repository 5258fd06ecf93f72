// Package session contains the domain model for an authenticated
// My Verisure session: the account credentials, the short-lived auth
// token pair and the selected installation.
package session
