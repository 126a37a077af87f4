package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
)

// EnsureCollections tạo các collection còn thiếu trong database
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	for _, name := range names {
		if have[name] {
			continue
		}
		logger.WithCollection(name).Info("Collection does not exist, creating")
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	logger.GetAppLogger().Infof("Collections ensured in database %s", db.Name())
	return nil
}

// indexSpec mô tả một index đọc từ tag `index:"..."` của model.
//
// Cú pháp tag: các cấu hình cách nhau bởi ";", mỗi cấu hình gồm các cờ cách nhau bởi ",":
//
//	single[,order:-1]    index đơn
//	unique[,sparse]      index unique
//	ttl:<giây>           index TTL
//	compound:<tên>[,order:-1][,sparse]  gom nhiều field vào một index, tên chứa "_unique" thì unique
//	text                 text index
type indexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
	TTL    *int32
}

func (s indexSpec) options() *options.IndexOptions {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	if s.TTL != nil {
		opts.SetExpireAfterSeconds(*s.TTL)
	}
	return opts
}

func parseIndexPart(part string) map[string]string {
	entry := map[string]string{}
	for _, flag := range strings.Split(part, ",") {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}
		key, value, _ := strings.Cut(flag, ":")
		entry[key] = value
	}
	return entry
}

func orderOf(entry map[string]string) int {
	if entry["order"] == "-1" {
		return -1
	}
	return 1
}

// parseIndexSpecs đọc tất cả index khai báo trên model (struct hoặc con trỏ tới struct)
func parseIndexSpecs(model interface{}) ([]indexSpec, error) {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("index model must be a struct, got %s", t.Kind())
	}

	var specs []indexSpec
	compounds := map[string]*indexSpec{}
	var compoundOrder []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := strings.SplitN(field.Tag.Get("bson"), ",", 2)[0]
		if bsonField == "" || bsonField == "-" {
			continue
		}

		for _, part := range strings.Split(tag, ";") {
			entry := parseIndexPart(part)
			_, sparse := entry["sparse"]

			if _, ok := entry["text"]; ok {
				specs = append(specs, indexSpec{Name: bsonField + "_text", Keys: bson.D{{Key: bsonField, Value: "text"}}})
			}
			if _, ok := entry["single"]; ok {
				specs = append(specs, indexSpec{Name: bsonField + "_single", Keys: bson.D{{Key: bsonField, Value: orderOf(entry)}}})
			}
			if _, ok := entry["unique"]; ok {
				specs = append(specs, indexSpec{Name: bsonField + "_unique", Keys: bson.D{{Key: bsonField, Value: 1}}, Unique: true, Sparse: sparse})
			}
			if raw, ok := entry["ttl"]; ok {
				ttl, err := strconv.Atoi(raw)
				if err != nil {
					return nil, fmt.Errorf("invalid ttl %q on field %s: %w", raw, bsonField, err)
				}
				seconds := int32(ttl)
				specs = append(specs, indexSpec{Name: bsonField + "_ttl", Keys: bson.D{{Key: bsonField, Value: 1}}, TTL: &seconds})
			}
			if group, ok := entry["compound"]; ok && group != "" {
				spec, exists := compounds[group]
				if !exists {
					spec = &indexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
					compounds[group] = spec
					compoundOrder = append(compoundOrder, group)
				}
				spec.Keys = append(spec.Keys, bson.E{Key: bsonField, Value: orderOf(entry)})
				spec.Sparse = spec.Sparse || sparse
			}
		}
	}

	for _, group := range compoundOrder {
		specs = append(specs, *compounds[group])
	}
	return specs, nil
}

// sameIndex so sánh index hiện có với spec: keys, unique, ttl
func sameIndex(existing bson.M, spec indexSpec) bool {
	keys, ok := existing["key"].(bson.M)
	if !ok || len(keys) != len(spec.Keys) {
		return false
	}
	for _, k := range spec.Keys {
		v, ok := keys[k.Key]
		if !ok {
			return false
		}
		if want, isInt := k.Value.(int); isInt {
			var got int
			switch n := v.(type) {
			case int32:
				got = int(n)
			case int64:
				got = int(n)
			case float64:
				got = int(n)
			default:
				return false
			}
			if got != want {
				return false
			}
		} else if v != k.Value {
			return false
		}
	}

	unique, _ := existing["unique"].(bool)
	if unique != spec.Unique {
		return false
	}
	if spec.TTL != nil {
		ttl, ok := existing["expireAfterSeconds"].(int32)
		if !ok || ttl != *spec.TTL {
			return false
		}
	}
	return true
}

// CreateIndexes tạo (hoặc thay thế nếu sai cấu hình) các index khai báo trên model
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	specs, err := parseIndexSpecs(model)
	if err != nil {
		return err
	}
	log := logger.WithCollection(collection.Name())

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}
	var listed []bson.M
	if err := cursor.All(ctx, &listed); err != nil {
		return fmt.Errorf("failed to decode indexes: %w", err)
	}
	existing := make(map[string]bson.M, len(listed))
	for _, idx := range listed {
		if name, ok := idx["name"].(string); ok {
			existing[name] = idx
		}
	}

	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	for _, spec := range specs {
		if current, ok := existing[spec.Name]; ok {
			if sameIndex(current, spec) {
				continue
			}
			if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", spec.Name, err)
			}
			log.WithField("index", spec.Name).Info("Dropped outdated index")
		}
		if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.Keys, Options: spec.options()}); err != nil {
			return fmt.Errorf("failed to create index %s: %w", spec.Name, err)
		}
		log.WithField("index", spec.Name).Info("Created index")
	}
	return nil
}
