package todo

import (
	"strings"

	"todo_api/internal/database"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(term string) string {
	// 转义 LIKE 通配符，按字面子串匹配
	return "%" + likeEscaper.Replace(term) + "%"
}

// likeOperator 选择忽略大小写的匹配运算符：SQLite 的 LIKE 本身对 ASCII 不区分大小写，
// Postgres 需要 ILIKE。不在 Go 里转小写，否则 SQLite 上非 ASCII 标题永远匹配不上
func likeOperator(driver string) string {
	if driver == database.DriverPostgres {
		return "ILIKE"
	}
	return "LIKE"
}
