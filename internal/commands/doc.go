// Package commands exposes the health store to a host application as named
// commands that take JSON arguments and return a Response envelope.
//
// Every command result has the shape
//
//	{"success": true, "data": ..., "message": null}
//
// Store failures set success to false and carry the error text in message.
// A lookup that finds nothing is a success with null data.
//
// Handler offers one typed method per command. Dispatch looks a command up by
// its host name (user_create, food_entry_get_by_user, ...) and decodes the
// arguments with the host's camelCase keys (userId, startDate, pageSize).
package commands
