package cache

import (
	"context"
	"testing"
)

func TestConnectWithoutAddressRunsUncached(t *testing.T) {
	rdb, err := Connect(context.Background(), "", "", 0)
	if err != nil || rdb != nil {
		t.Fatalf("expected nil client and nil error, got %v, %v", rdb, err)
	}
}

func TestGroupKey(t *testing.T) {
	if got := groupKey("stock-value:abc"); got != "cache:group:stock-value:abc" {
		t.Fatalf("unexpected group key %q", got)
	}
}
