package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Password string `json:"password" validate:"strong_password"`
	Bio      string `json:"bio" validate:"no_xss"`
	Owner    string `json:"owner" validate:"omitempty,object_id"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := InitValidator()

	assert.NoError(t, v.Struct(sample{Password: "Passw0rd", Bio: "Hello", Owner: "65a1b2c3d4e5f6a7b8c9d0e1"}))
	assert.Error(t, v.Struct(sample{Password: "short"}))
	assert.Error(t, v.Struct(sample{Password: "Passw0rd", Bio: "<script>alert(1)</script>"}))
	assert.Error(t, v.Struct(sample{Password: "Passw0rd", Owner: "nope"}))
}

func TestCollectionNames_All(t *testing.T) {
	names := MongoDB_ColNames.All()
	assert.Len(t, names, 11)
	assert.Contains(t, names, "ideas")
	assert.Contains(t, names, "campaign_metrics")
}
