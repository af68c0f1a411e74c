// Package secret expands environment variables and secret references in
// configuration values.
//
// ExpandEnvStrict replaces $VAR and ${VAR} and fails when VAR is unset. A
// Resolver additionally replaces references of the form
//
//	secretref:<provider>:<ref>
//
// either as the whole value or inline, e.g. "Bearer secretref:env:API_TOKEN".
// Two providers are built in: "env" reads an environment variable and
// "file" reads a file, as mounted by container secret stores.
package secret
