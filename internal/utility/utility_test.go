package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToMap_HonoursBsonTags(t *testing.T) {
	type doc struct {
		ID     primitive.ObjectID `bson:"_id,omitempty"`
		Name   string             `bson:"name"`
		Secret string             `bson:"-"`
		Note   string             `bson:"note,omitempty"`
	}
	m, err := ToMap(doc{Name: "a", Secret: "s"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "a"}, m)
}

func TestObjectIDsFromHex(t *testing.T) {
	id := primitive.NewObjectID()
	ids, err := ObjectIDsFromHex([]string{id.Hex(), id.Hex()})
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{id}, ids)

	_, err = ObjectIDsFromHex([]string{"bad"})
	assert.Error(t, err)
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, Unique([]string{"b", "a", "b"}))
	assert.True(t, Contains([]int{1, 2}, 2))
}
