package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// TranslateError开启时GORM已统一转换
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// isForeignKeyError 判断是否为外键约束错误(引用的行已不存在)
// - MySQL 1452: Cannot add or update a child row: a foreign key constraint fails
// - PostgreSQL 23503: violates foreign key constraint
// - SQLite: FOREIGN KEY constraint failed
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1452 {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// duplicateColumn 从冲突错误信息中猜测冲突的列(用于区分邮箱/用户名重复)
func duplicateColumn(err error, columns ...string) string {
	msg := strings.ToLower(err.Error())
	for _, col := range columns {
		if strings.Contains(msg, col) {
			return col
		}
	}
	return ""
}

// likeEscaper LIKE模式转义,'!'作为转义符(MySQL默认转义符是反斜杠,显式ESCAPE保证各方言一致)
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern 构造包含匹配模式,大小写由containsCondition在SQL两侧统一处理
func containsPattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// sqliteLowerFunc SQLite内置LOWER只转换ASCII字母,搜索改用该函数
const sqliteLowerFunc = "unicode_lower"

func init() {
	gosqlite.MustRegisterDeterministicScalarFunction(sqliteLowerFunc, 1,
		func(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return v, nil
			}
		})
}

// containsCondition 按方言生成不区分大小写的包含匹配条件,每列占用一个占位符
// 学习要点：
// 1. PostgreSQL使用ILIKE
// 2. MySQL的LOWER支持Unicode,列和参数两侧都转小写
// 3. SQLite使用注册的unicode_lower,避免Go和SQL两侧大小写规则不一致
func containsCondition(dialect string, columns ...string) string {
	conds := make([]string, len(columns))
	for i, col := range columns {
		switch dialect {
		case "postgres":
			conds[i] = fmt.Sprintf("%s ILIKE ? ESCAPE '!'", col)
		case "sqlite":
			conds[i] = fmt.Sprintf("%[1]s(%[2]s) LIKE %[1]s(?) ESCAPE '!'", sqliteLowerFunc, col)
		default:
			conds[i] = fmt.Sprintf("LOWER(%s) LIKE LOWER(?) ESCAPE '!'", col)
		}
	}
	return strings.Join(conds, " OR ")
}
