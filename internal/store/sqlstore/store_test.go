package sqlstore

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pliu/unsent/internal/crypto"
)

var testStore *SQLStore

func SetupTestDB(t *testing.T) {
	var err error
	testStore, err = New("sqlite3", ":memory:", crypto.New("test-secret"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
}

func TeardownTestDB() {
	testStore.db.Close()
}
