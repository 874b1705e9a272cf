// Package apiconnect holds the Connect handler and client constructors for
// the budgetwiser.v1 services.
package apiconnect

// PublicProcedures can be called without a bearer token.
var PublicProcedures = []string{
	AuthServiceRegisterProcedure,
	AuthServiceLoginProcedure,
	AuthServiceResetPasswordProcedure,
}
