package memorydirectoryfx

import (
	"testing"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tablerank/tablerank"
	"github.com/tablerank/tablerank/internal/store/memstore"
)

func TestModule_GraphIsValid(t *testing.T) {
	err := fx.ValidateApp(
		fx.Provide(zap.NewNop),
		Module,
		fx.Invoke(func(svc *tablerank.Service, st *memstore.Store) {}),
	)
	if err != nil {
		t.Fatalf("ValidateApp() error = %v", err)
	}
}
