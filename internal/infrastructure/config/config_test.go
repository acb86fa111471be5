package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOOKSHELF_SERVER_PORT", "9090")
	t.Setenv("BOOKSHELF_DATABASE_DRIVER", "sqlite")
	t.Setenv("BOOKSHELF_DATABASE_PATH", "test.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "test.db", cfg.Database.DSN())
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpire)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "config"), 0o755))

	yaml := `
server:
  port: 8181
  mode: test
database:
  driver: postgres
  host: db
  port: 5432
  user: app
  password: secret
  dbname: shelf
admin:
  username: root
  email: root@example.com
  password: Passw0rd
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=shelf sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "root@example.com", cfg.Admin.Email)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BOOKSHELF_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("BOOKSHELF_LOG_LEVEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080, Mode: "debug"},
			Database:  DatabaseConfig{Driver: DriverMySQL},
			JWT:       JWTConfig{Secret: defaultJWTSecret},
			RateLimit: RateLimitConfig{Enabled: true, RPS: 10, Burst: 20},
		}
	}

	t.Run("合法配置", func(t *testing.T) {
		assert.NoError(t, validate(base()))
	})

	t.Run("端口非法", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 70000
		assert.Error(t, validate(cfg))
	})

	t.Run("未知驱动", func(t *testing.T) {
		cfg := base()
		cfg.Database.Driver = "oracle"
		assert.Error(t, validate(cfg))
	})

	t.Run("生产环境默认密钥", func(t *testing.T) {
		cfg := base()
		cfg.Server.Mode = "release"
		assert.Error(t, validate(cfg))
	})

	t.Run("限流参数非法", func(t *testing.T) {
		cfg := base()
		cfg.RateLimit.RPS = 0
		assert.Error(t, validate(cfg))
	})
}

func TestDatabaseConfig_MySQLDSN(t *testing.T) {
	d := DatabaseConfig{
		Driver: DriverMySQL, User: "root", Password: "pw", Host: "127.0.0.1", Port: 3306,
		DBName: "bookshelf", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t,
		"root:pw@tcp(127.0.0.1:3306)/bookshelf?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		d.DSN())
}
