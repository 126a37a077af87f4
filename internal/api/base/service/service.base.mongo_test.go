package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToUpdateData_WrapsPlainMapInSet(t *testing.T) {
	u, err := ToUpdateData(bson.M{"title": "New"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"title": "New"}, u.Set)
	assert.Nil(t, u.Inc)
}

func TestToUpdateData_KeepsOperators(t *testing.T) {
	u, err := ToUpdateData(bson.M{
		"$addToSet": bson.M{"votes": "u1"},
		"$inc":      bson.M{"voteCount": 1},
	})
	require.NoError(t, err)
	assert.Nil(t, u.Set)
	assert.Equal(t, "u1", u.AddToSet["votes"])
	assert.EqualValues(t, 1, u.Inc["voteCount"])
}

func TestToUpdateData_StructPointerPassThrough(t *testing.T) {
	in := &UpdateData{Inc: map[string]interface{}{"n": 1}}
	u, err := ToUpdateData(in)
	require.NoError(t, err)
	assert.Same(t, in, u)

	u.touch(42)
	assert.Equal(t, int64(42), u.Set["updatedAt"])
}

func TestToUpdateData_StructUsesBsonTags(t *testing.T) {
	type patch struct {
		Title string `bson:"title,omitempty"`
		Body  string `bson:"body,omitempty"`
	}
	u, err := ToUpdateData(patch{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"title": "x"}, u.Set)
}
