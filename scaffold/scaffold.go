// Package scaffold provides the embedded starter project written by
// "blogkit new".
package scaffold

import "embed"

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS
