// Package reportsvc là module tổng hợp số liệu (analytics) cho ideas, trainings, campaigns, support tickets và activities.
//
// Module không giữ trạng thái: mọi lời gọi tính lại từ đầu. Mỗi phép tổng hợp có hai dạng cùng ngữ nghĩa:
//   - hàm thuần chạy trên []Record trong bộ nhớ (dashboard, insight, unit test);
//   - builder sinh mongo.Pipeline, được ReportService thực thi và decode về cùng kiểu kết quả.
//
// Quy tắc chung: nhóm sắp theo key tăng dần; TopN sắp theo count giảm dần, hoà thì key tăng dần;
// Rate trả 0 khi mẫu bằng 0; trung bình không có giá trị nào là nil. Bucket thời gian tính theo UTC.
package reportsvc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
)

// Record là một document dạng map, key hỗ trợ đường dẫn có dấu chấm ("metadata.entityType")
type Record map[string]interface{}

// TimeRange lọc theo một trường thời gian, hai đầu đều inclusive; nil nghĩa là không giới hạn phía đó
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

// IsZero true khi không có cận nào
func (r TimeRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Granularity đơn vị bucket thời gian
type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// layout trả về layout Go và format $dateToString tương ứng
func (g Granularity) layout() (goLayout, mongoFormat string, err error) {
	switch g {
	case GranularityHour:
		return "2006-01-02-15", "%Y-%m-%d-%H", nil
	case GranularityDay:
		return "2006-01-02", "%Y-%m-%d", nil
	case GranularityMonth:
		return "2006-01", "%Y-%m", nil
	}
	return "", "", common.BadRequest(fmt.Sprintf("Unknown granularity %q", g), nil)
}

// GroupKey mô tả cách nhóm: theo giá trị một trường, hoặc theo bucket thời gian của một trường
type GroupKey struct {
	Field       string
	Granularity Granularity
}

// ByField nhóm theo giá trị trường
func ByField(field string) GroupKey { return GroupKey{Field: field} }

// ByTime nhóm theo bucket thời gian của trường
func ByTime(field string, g Granularity) GroupKey { return GroupKey{Field: field, Granularity: g} }

func (k GroupKey) validate() error {
	if strings.TrimSpace(k.Field) == "" {
		return common.BadRequest("Group key is required", nil)
	}
	if k.Granularity != "" {
		if _, _, err := k.Granularity.layout(); err != nil {
			return err
		}
	}
	return nil
}

// keyOf tính key nhóm của một record. Record thiếu trường rơi vào nhóm "".
func (k GroupKey) keyOf(rec Record) (string, bool) {
	v, _ := lookup(rec, k.Field)
	if k.Granularity == "" {
		return KeyString(v), true
	}
	t, ok := toTime(v)
	if !ok {
		return "", false
	}
	layout, _, _ := k.Granularity.layout()
	return t.UTC().Format(layout), true
}

// GroupCount là số document của một nhóm
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// GroupPercentage bổ sung tỉ lệ phần trăm trên tổng
type GroupPercentage struct {
	Key        string  `json:"key"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// JoinSpec làm giàu kết quả TopN bằng document ở collection khác (khớp _id)
type JoinSpec struct {
	From   string
	Fields []string
}

// TopEntry là một phần tử TopN. Fields nil từng trường nếu không join được.
type TopEntry struct {
	Key    string                 `json:"key"`
	Count  int64                  `json:"count"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// Bucket là một khoảng thời gian. Year/Month chỉ có với GranularityMonth.
type Bucket struct {
	Key   string `json:"key"`
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
	Count int64  `json:"count"`
}

func newBucket(key string, g Granularity, count int64) Bucket {
	b := Bucket{Key: key, Count: count}
	if g == GranularityMonth {
		if t, err := time.Parse("2006-01", key); err == nil {
			b.Year, b.Month = t.Year(), int(t.Month())
		}
	}
	return b
}

// GroupAverage là trung bình từng trường trong nhóm; nil nếu nhóm không có giá trị số nào cho trường đó
type GroupAverage struct {
	Key      string              `json:"key"`
	Count    int64               `json:"count"`
	Averages map[string]*float64 `json:"averages"`
}

// Predicate là điều kiện bằng: Field == Value
type Predicate struct {
	Field string
	Value interface{}
}

// ConditionalCount là tổng số document và số document thoả predicate trong nhóm
type ConditionalCount struct {
	Key     string `json:"key"`
	Total   int64  `json:"total"`
	Matched int64  `json:"matched"`
}

// GroupSum là tổng các trường số trong nhóm
type GroupSum struct {
	Key   string             `json:"key"`
	Count int64              `json:"count"`
	Sums  map[string]float64 `json:"sums"`
}

// Insight là tóm tắt nhanh trên tập ideas
type Insight struct {
	TopDepartment      string   `json:"topDepartment"`
	ImplementationRate float64  `json:"implementationRate"`
	TotalIdeas         int64    `json:"totalIdeas"`
	Lines              []string `json:"lines"`
}

// KeyString chuẩn hoá giá trị nhóm về chuỗi: nil thành "", ObjectID thành hex
func KeyString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Null, primitive.Undefined:
		return ""
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// lookup đọc giá trị theo đường dẫn có dấu chấm
func lookup(rec Record, path string) (interface{}, bool) {
	var cur interface{} = map[string]interface{}(rec)
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case map[string]interface{}:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case Record:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case bson.M:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case bson.D:
			found := false
			for _, e := range m {
				if e.Key == part {
					cur, found = e.Value, true
					break
				}
			}
			if !found {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return cur, true
}

// toFloat chỉ nhận kiểu số; chuỗi, bool, nil không được tính là có giá trị
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// toTime nhận Unix milli (int64/int/float64), time.Time hoặc primitive.DateTime
func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), !t.IsZero()
	case primitive.DateTime:
		return t.Time().UTC(), true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	case string:
		if ms, err := strconv.ParseInt(t, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
		return time.Time{}, false
	}
	if f, ok := toFloat(v); ok {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Time{}, false
}

// equalValue so sánh giá trị predicate, số được so theo float64
func equalValue(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if oa, ok := a.(primitive.ObjectID); ok {
		return KeyString(b) == oa.Hex()
	}
	return a == b
}
