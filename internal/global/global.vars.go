// Package global chứa các giá trị dùng chung không có trạng thái kết nối:
// tên collection và validator. Kết nối DB được tạo và truyền vào qua database.Store.
package global

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// CollectionNames tên các collection MongoDB
type CollectionNames struct {
	Users              string
	Ideas              string
	Trainings          string
	Campaigns          string
	CampaignMetrics    string
	SupportTickets     string
	Notifications      string
	Activities         string
	SystemStatuses     string
	PerformanceMetrics string
	Incentives         string
}

// MongoDB_ColNames tên collection dùng trong toàn bộ ứng dụng
var MongoDB_ColNames = CollectionNames{
	Users:              "users",
	Ideas:              "ideas",
	Trainings:          "trainings",
	Campaigns:          "campaigns",
	CampaignMetrics:    "campaign_metrics",
	SupportTickets:     "support_tickets",
	Notifications:      "notifications",
	Activities:         "activities",
	SystemStatuses:     "system_statuses",
	PerformanceMetrics: "performance_metrics",
	Incentives:         "incentives",
}

// All trả về tất cả tên collection theo thứ tự khai báo
func (c CollectionNames) All() []string {
	v := reflect.ValueOf(c)
	names := make([]string, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		names = append(names, v.Field(i).String())
	}
	return names
}

// Validate validator dùng chung, khởi tạo bởi InitValidator
var Validate *validator.Validate
