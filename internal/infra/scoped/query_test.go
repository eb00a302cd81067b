package scoped

import (
	"context"
	"testing"
)

func TestScopedDBUnavailable(t *testing.T) {
	var d *DB
	scope := tenantScope(t, "org_tenantA")

	if err := d.Find(context.Background(), scope, nil, ""); err == nil {
		t.Fatal("nil DB must report unavailable")
	}
	if err := d.First(context.Background(), scope, nil, ""); err == nil {
		t.Fatal("nil DB must report unavailable")
	}
	if err := d.Save(context.Background(), scope, nil); err == nil {
		t.Fatal("nil DB must report unavailable")
	}
	if err := d.Rows(context.Background(), scope, nil, "SELECT 1"); err == nil {
		t.Fatal("nil DB must report unavailable")
	}

	empty := NewDB(nil)
	if err := empty.Find(context.Background(), scope, nil, ""); err == nil {
		t.Fatal("DB without a connection must report unavailable")
	}
}
