// Package provider implements the client for the My Verisure GraphQL API.
//
// The Client interface is what the auth, session and alarm services depend
// on; GraphQLClient is the real HTTP implementation. The API signals OTP
// challenges through the GraphQL errors array, which the client surfaces as
// a typed *OTPRequiredError.
package provider
