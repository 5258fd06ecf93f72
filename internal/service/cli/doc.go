// Package cli implements the interactive flows behind the my-verisure
// subcommands: login with its OTP dialogue, panel status and commands,
// installation selection and logout.
//
// Each Run function bootstraps the full client stack from configuration,
// runs one flow and tears the stack down again. The flows themselves live
// on App so tests can drive them with scripted input and fake services.
package cli
