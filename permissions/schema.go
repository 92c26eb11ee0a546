// Package permissions ships the authorization model pushed to the
// permission engine. Role relations (owner, admin, member) drive the
// operation permissions; grant__ and deny__ relations carry the
// per-permission overrides written by GrantPermission and
// DenyPermission.
package permissions

import _ "embed"

//go:embed tenantcore.perm
var Schema string
