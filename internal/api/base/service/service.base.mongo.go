// Package basesvc cung cấp service generic cho việc tương tác với MongoDB.
// Các service domain nhúng BaseServiceMongoImpl[Model] và chỉ viết thêm nghiệp vụ riêng.
package basesvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "github.com/mostafa12599/GreenFuture-Innovation/internal/api/base/models"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/utility"
)

// UpdateData định nghĩa kiểu dữ liệu cho partial update
type UpdateData struct {
	Set      map[string]interface{} `bson:"$set,omitempty"`      // Các trường cần update
	Unset    map[string]interface{} `bson:"$unset,omitempty"`    // Các trường cần xóa
	Inc      map[string]interface{} `bson:"$inc,omitempty"`      // Các bộ đếm cần tăng
	Push     map[string]interface{} `bson:"$push,omitempty"`     // Các trường cần thêm vào array
	AddToSet map[string]interface{} `bson:"$addToSet,omitempty"` // Các trường cần thêm vào set
}

// ToUpdateData chuyển đổi interface{} thành UpdateData.
// Map đã chứa toán tử ($set, $inc...) được giữ nguyên, còn struct/map thường được bọc trong $set.
func ToUpdateData(data interface{}) (*UpdateData, error) {
	switch v := data.(type) {
	case *UpdateData:
		return v, nil
	case UpdateData:
		return &v, nil
	}

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}

	if !hasOperator(dataMap) {
		return &UpdateData{Set: dataMap}, nil
	}
	update := &UpdateData{}
	update.Set = asMap(dataMap["$set"])
	update.Unset = asMap(dataMap["$unset"])
	update.Inc = asMap(dataMap["$inc"])
	update.Push = asMap(dataMap["$push"])
	update.AddToSet = asMap(dataMap["$addToSet"])
	return update, nil
}

func hasOperator(m map[string]interface{}) bool {
	for k := range m {
		if len(k) > 0 && k[0] == '$' {
			return true
		}
	}
	return false
}

func asMap(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case bson.M:
		return m
	case bson.D:
		out := make(map[string]interface{}, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out
	}
	return nil
}

// touch gắn updatedAt vào $set
func (u *UpdateData) touch(now int64) {
	if u.Set == nil {
		u.Set = make(map[string]interface{})
	}
	u.Set["updatedAt"] = now
}

// BaseServiceMongo định nghĩa các thao tác cơ bản với một collection.
// Type Parameters:
//   - Model: Kiểu dữ liệu của model
type BaseServiceMongo[Model any] interface {
	InsertOne(ctx context.Context, data Model) (Model, error)
	InsertMany(ctx context.Context, data []Model) ([]Model, error)

	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (Model, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (Model, error)
	FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[Model], error)

	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (Model, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, update interface{}) (Model, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts *options.FindOneAndUpdateOptions) (Model, error)

	DeleteOne(ctx context.Context, filter interface{}) error
	DeleteById(ctx context.Context, id primitive.ObjectID) error

	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	DocumentExists(ctx context.Context, filter interface{}) (bool, error)
	Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error
}

// BaseServiceMongoImpl triển khai BaseServiceMongo cho một collection
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
	bus        *events.Bus
	now        func() time.Time
}

// NewBaseServiceMongo tạo base service. bus có thể nil nếu không cần phát sự kiện.
func NewBaseServiceMongo[T any](collection *mongo.Collection, bus *events.Bus) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{
		collection: collection,
		bus:        bus,
		now:        time.Now,
	}
}

// Collection trả về collection gốc
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// Now trả về thời điểm hiện tại dạng Unix milli, cùng nguồn với createdAt/updatedAt
func (s *BaseServiceMongoImpl[T]) Now() int64 {
	return s.now().UnixMilli()
}

func (s *BaseServiceMongoImpl[T]) emit(ctx context.Context, op string, doc interface{}) {
	s.bus.EmitDataChanged(ctx, events.DataChangeEvent{
		CollectionName: s.collection.Name(),
		Operation:      op,
		Document:       doc,
	})
}

// prepareInsert chuyển model thành map và gắn createdAt/updatedAt (giữ createdAt nếu đã có)
func (s *BaseServiceMongoImpl[T]) prepareInsert(data T, now int64) (map[string]interface{}, error) {
	doc, err := utility.ToMap(data)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	if v, ok := doc["createdAt"].(int64); !ok || v == 0 {
		doc["createdAt"] = now
	}
	doc["updatedAt"] = now
	return doc, nil
}

// InsertOne tạo mới một bản ghi và trả về bản ghi đã lưu
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T
	doc, err := s.prepareInsert(data, s.Now())
	if err != nil {
		return zero, err
	}

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	if err := s.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		return zero, common.ConvertMongoError(err)
	}

	s.emit(ctx, events.OpInsert, created)
	return created, nil
}

// InsertMany tạo nhiều bản ghi trong database
func (s *BaseServiceMongoImpl[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	if len(data) == 0 {
		return []T{}, nil
	}
	now := s.Now()
	documents := make([]interface{}, 0, len(data))
	for _, item := range data {
		doc, err := s.prepareInsert(item, now)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	result, err := s.collection.InsertMany(ctx, documents)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	created, err := s.Find(ctx, bson.M{"_id": bson.M{"$in": result.InsertedIDs}}, nil)
	if err != nil {
		return nil, err
	}
	for i := range created {
		s.emit(ctx, events.OpInsert, created[i])
	}
	return created, nil
}

// FindOne tìm một document theo điều kiện lọc. Không có kết quả trả về common.ErrNotFound.
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var result T
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	err := s.collection.FindOne(ctx, filter, opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return result, common.ErrNotFound
		}
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find tìm tất cả document khớp filter
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// FindOneById tìm document theo ObjectId
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// FindWithPagination tìm bản ghi với phân trang. page < 1 được đưa về 1, limit <= 0 về 10.
func (s *BaseServiceMongoImpl[T]) FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	opts.SetSkip((page - 1) * limit)
	opts.SetLimit(limit)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return basemodels.NewPaginateResult(items, page, limit, total), nil
}

// UpdateOne cập nhật document đầu tiên khớp filter và trả về bản sau khi cập nhật
func (s *BaseServiceMongoImpl[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (T, error) {
	return s.FindOneAndUpdate(ctx, filter, update, nil)
}

// UpdateById cập nhật theo ObjectId
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, update interface{}) (T, error) {
	return s.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, nil)
}

// UpdateMany cập nhật nhiều document, trả về số bản ghi đã sửa
func (s *BaseServiceMongoImpl[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	updateData, err := ToUpdateData(update)
	if err != nil {
		return 0, err
	}
	updateData.touch(s.Now())

	result, err := s.collection.UpdateMany(ctx, filter, updateData)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	if result.ModifiedCount > 0 {
		s.emit(ctx, events.OpUpdate, nil)
	}
	return result.ModifiedCount, nil
}

// FindOneAndUpdate cập nhật nguyên tử một document và trả về bản sau khi cập nhật.
// filter có thể chứa điều kiện bảo vệ (ví dụ votes: {$ne: uid}); không khớp thì trả về common.ErrNotFound.
func (s *BaseServiceMongoImpl[T]) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts *options.FindOneAndUpdateOptions) (T, error) {
	var result T
	updateData, err := ToUpdateData(update)
	if err != nil {
		return result, err
	}
	updateData.touch(s.Now())

	if opts == nil {
		opts = options.FindOneAndUpdate()
	}
	opts.SetReturnDocument(options.After)

	err = s.collection.FindOneAndUpdate(ctx, filter, updateData, opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return result, common.ErrNotFound
		}
		return result, common.ConvertMongoError(err)
	}

	s.emit(ctx, events.OpUpdate, result)
	return result, nil
}

// DeleteOne xoá document đầu tiên khớp filter
func (s *BaseServiceMongoImpl[T]) DeleteOne(ctx context.Context, filter interface{}) error {
	result, err := s.collection.DeleteOne(ctx, filter)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	s.emit(ctx, events.OpDelete, nil)
	return nil
}

// DeleteById xoá theo ObjectId
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	return s.DeleteOne(ctx, bson.M{"_id": id})
}

// CountDocuments đếm số document khớp filter
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	n, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return n, nil
}

// DocumentExists kiểm tra có ít nhất một document khớp filter
func (s *BaseServiceMongoImpl[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	n, err := s.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return n > 0, nil
}

// Aggregate chạy pipeline và decode toàn bộ kết quả vào out (con trỏ tới slice)
func (s *BaseServiceMongoImpl[T]) Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error {
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}
