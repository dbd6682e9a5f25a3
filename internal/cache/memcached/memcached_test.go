package memcached

import (
	"testing"

	"go.uber.org/zap"

	"github.com/tablerank/tablerank/internal/cache"
	"github.com/tablerank/tablerank/internal/store"
)

// An unreachable backend must degrade to a no-op cache: every Get is a
// miss and Set/Delete return without error surfacing to the caller.
func TestUnreachableBackend(t *testing.T) {
	c := New("127.0.0.1:1", zap.NewNop())
	key := cache.Key("Luigi's")

	c.Set(key, store.Record{UniqueName: "Luigi's", Rating: 4, RatingCount: 2})

	rec, ok := c.Get(key)
	if ok {
		t.Error("Get() ok = true, want false")
	}
	if rec != (store.Record{}) {
		t.Errorf("Get() = %+v, want zero record", rec)
	}

	c.Delete(key)
}

func TestNew_NilLogger(t *testing.T) {
	c := New("127.0.0.1:1", nil)
	if c.logger == nil {
		t.Fatal("New(nil logger) left logger unset")
	}
}
