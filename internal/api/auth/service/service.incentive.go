package authsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/auth/models"
	basesvc "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/service"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/database"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

const (
	// ImplementationPoints điểm thưởng khi idea được triển khai
	ImplementationPoints = 100
	// IncentiveTypeImplementation loại incentive khi idea được triển khai
	IncentiveTypeImplementation = "idea_implemented"
)

// IncentiveService quản lý điểm thưởng
type IncentiveService struct {
	*basesvc.BaseServiceMongoImpl[models.Incentive]
	users *UserService
}

// NewIncentiveService tạo IncentiveService
func NewIncentiveService(store *database.Store, bus *events.Bus, users *UserService) *IncentiveService {
	coll := store.Collection(global.MongoDB_ColNames.Incentives)
	return &IncentiveService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Incentive](coll, bus),
		users:                users,
	}
}

// awardKey khoá duy nhất cho một lần thưởng; index unique sparse trên awardKey chặn thưởng trùng
func awardKey(kind string, ideaID primitive.ObjectID) string {
	return kind + ":" + ideaID.Hex()
}

// AwardImplementation trao incentive cho người gửi idea khi idea chuyển sang implemented.
// Mỗi idea chỉ được thưởng một lần; awarded=false nếu đã thưởng trước đó.
func (s *IncentiveService) AwardImplementation(ctx context.Context, userID, ideaID primitive.ObjectID, title string) (awarded bool, err error) {
	idea := ideaID
	_, err = s.InsertOne(ctx, models.Incentive{
		User:     userID,
		Type:     IncentiveTypeImplementation,
		Points:   ImplementationPoints,
		Reason:   "Idea implemented: " + title,
		Idea:     &idea,
		Status:   models.IncentiveApproved,
		AwardKey: awardKey(IncentiveTypeImplementation, ideaID),
	})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = s.users.IncStatistics(ctx, userID, map[string]int64{
		"ideasImplemented": 1,
		"pointsEarned":     ImplementationPoints,
	})
	return err == nil, err
}

// ListByUser trả về incentive của user, mới nhất trước
func (s *IncentiveService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Incentive, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.Find(ctx, bson.M{"user": userID}, opts)
}
