// Package userdata resolves user-specific locations and values: the home
// directory that "~/" target paths expand to, the .env file consulted for
// ${NAME} placeholder expansion, and redaction of secret-looking values before
// they reach logs.
package userdata
