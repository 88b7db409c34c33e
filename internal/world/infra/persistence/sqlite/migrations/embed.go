package migrations

import "embed"

// FS 分数库的建表脚本。
//
//go:embed *.sql
var FS embed.FS
