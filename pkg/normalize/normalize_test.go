package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/andromeda-crm/pkg/normalize"
)

func TestEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", normalize.Email("  Ana@Example.COM "))
	assert.Equal(t, "", normalize.Email("   "))
}

func TestKey(t *testing.T) {
	assert.Equal(t, normalize.Key("Acme   Corp"), normalize.Key(" acme corp "))
	assert.NotEqual(t, normalize.Key("Acme"), normalize.Key("Acme Corp"))
}
