package memory

import (
	"testing"

	store "github.com/dropDatabas3/hellojohn-social/internal/store/v2"
	"github.com/dropDatabas3/hellojohn-social/internal/store/v2/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}
