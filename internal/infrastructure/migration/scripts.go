package migration

import "embed"

//go:embed scripts/mysql/*.sql scripts/goose/*.sql
var scriptsFS embed.FS

const (
	mysqlScriptsDir = "scripts/mysql"
	gooseScriptsDir = "scripts/goose"
)
