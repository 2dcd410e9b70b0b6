package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMySQLAdapter(t *testing.T) {
	assert.Equal(t,
		"SELECT id FROM user WHERE username=? OR email=?",
		mysqlAdapter("SELECT id\n\tFROM user\n\tWHERE username=$1 OR email=$2"))
	assert.Equal(t,
		"UPDATE `user` SET login_retry=? WHERE id = ?;",
		mysqlAdapter(`UPDATE "user" SET login_retry=$1 WHERE id = $2;`))
}

func TestGetDSN(t *testing.T) {
	cfg := &DBConfig{
		User:     "app",
		Password: "secret",
		Protocol: "tcp",
		Host:     "127.0.0.1",
		Port:     3306,
		Schema:   "goalstake",
		Query:    "parseTime=true",
	}
	assert.Equal(t, "app:secret@tcp(127.0.0.1:3306)/goalstake?parseTime=true", getDSN(cfg))

	cfg.Protocol = ""
	cfg.Query = ""
	assert.Equal(t, "app:secret@127.0.0.1:3306/goalstake", getDSN(cfg))
}

func TestGetDBConnection_UnknownDriver(t *testing.T) {
	_, err := GetDBConnection(&DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestLogQueryArgs_TruncatesLongValues(t *testing.T) {
	long := make([]byte, 100)
	args := logQueryArgs([]interface{}{"short", long})
	assert.Equal(t, "short", args[0])
	assert.Contains(t, args[1].(string), "truncated 36 bytes")
}
