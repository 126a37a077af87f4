package authsvc

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database/testhelper"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

func TestIncentiveService_AwardImplementationOnce(t *testing.T) {
	store := testhelper.SetupTestStore(t)
	ctx := context.Background()
	coll := store.Collection(global.MongoDB_ColNames.Incentives)
	require.NoError(t, database.CreateIndexes(ctx, coll, models.Incentive{}))

	users := NewUserService(store, nil)
	incentives := NewIncentiveService(store, nil, users)
	author, err := users.Create(ctx, models.User{Name: "Ann", Email: "ann@example.com", Password: "x", Department: "Eng"})
	require.NoError(t, err)
	ideaID := primitive.NewObjectID()

	var wg sync.WaitGroup
	awarded := make([]bool, 6)
	errs := make([]error, len(awarded))
	for i := range awarded {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			awarded[i], errs[i] = incentives.AwardImplementation(ctx, author.ID, ideaID, "Solar roof")
		}(i)
	}
	wg.Wait()

	wins := 0
	for i := range awarded {
		require.NoError(t, errs[i])
		if awarded[i] {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	n, err := incentives.CountDocuments(ctx, bson.M{"idea": ideaID, "type": IncentiveTypeImplementation})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	stored, err := users.FindByID(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.Statistics.IdeasImplemented)
	assert.EqualValues(t, ImplementationPoints, stored.Statistics.PointsEarned)

	// incentive không gắn idea không bị index unique chặn
	for i := 0; i < 2; i++ {
		_, err = incentives.InsertOne(ctx, models.Incentive{User: author.ID, Type: "manual", Points: 5, Status: models.IncentiveApproved})
		require.NoError(t, err)
	}
}
