// Package auth drives the login and OTP challenge protocol against the
// remote provider and mints validated sessions.
//
// Login and VerifyOTP are two explicit calls rather than one blocking flow
// so the package stays free of interactive I/O: the CLI and any host
// runtime solicit the code their own way and hand it back here.
package auth
