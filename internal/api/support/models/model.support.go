// Package models - model SupportTicket, SystemStatus và PerformanceMetric.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Trạng thái ticket
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Mức ưu tiên
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Trạng thái hệ thống
const (
	SystemOperational   = "operational"
	SystemDegraded      = "degraded"
	SystemPartialOutage = "partial_outage"
	SystemMajorOutage   = "major_outage"
)

// Response phản hồi của IT support, hiển thị cho người báo
type Response struct {
	User      primitive.ObjectID `json:"user" bson:"user"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
}

// InternalNote ghi chú nội bộ, chỉ IT support xem được
type InternalNote struct {
	User      primitive.ObjectID `json:"user" bson:"user"`
	Note      string             `json:"note" bson:"note"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
}

// HistoryEntry một lần đổi trạng thái
type HistoryEntry struct {
	Status    string             `json:"status" bson:"status"`
	ChangedBy primitive.ObjectID `json:"changedBy" bson:"changedBy"`
	Timestamp int64              `json:"timestamp" bson:"timestamp"`
}

// Resolution cách xử lý ticket
type Resolution struct {
	ResolvedBy primitive.ObjectID `json:"resolvedBy" bson:"resolvedBy"`
	Solution   string             `json:"solution" bson:"solution"`
	Timestamp  int64              `json:"timestamp" bson:"timestamp"`
}

// SupportTicket - responses, internalNotes và history chỉ được thêm vào
type SupportTicket struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string              `json:"title" bson:"title"`
	Description   string              `json:"description" bson:"description"`
	ReportedBy    primitive.ObjectID  `json:"reportedBy" bson:"reportedBy" index:"compound:reporter_created"`
	AssignedTo    *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	Status        string              `json:"status" bson:"status" index:"single"`
	Priority      string              `json:"priority" bson:"priority" index:"single"`
	Category      string              `json:"category" bson:"category"`
	Department    string              `json:"department,omitempty" bson:"department,omitempty"`
	Responses     []Response          `json:"responses" bson:"responses"`
	InternalNotes []InternalNote      `json:"internalNotes,omitempty" bson:"internalNotes"`
	History       []HistoryEntry      `json:"history" bson:"history"`
	Resolution    *Resolution         `json:"resolution,omitempty" bson:"resolution,omitempty"`
	CreatedAt     int64               `json:"createdAt" bson:"createdAt" index:"compound:reporter_created,order:-1;single,order:-1"`
	UpdatedAt     int64               `json:"updatedAt" bson:"updatedAt"`
}

// ComponentStatus trạng thái một thành phần hệ thống
type ComponentStatus struct {
	Status  string `json:"status,omitempty" bson:"status,omitempty"`
	Message string `json:"message,omitempty" bson:"message,omitempty"`
}

// Components các thành phần được theo dõi
type Components struct {
	Database    ComponentStatus `json:"database" bson:"database"`
	API         ComponentStatus `json:"api" bson:"api"`
	FileStorage ComponentStatus `json:"fileStorage" bson:"fileStorage"`
}

// SystemStatus một lần cập nhật trạng thái hệ thống
type SystemStatus struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Status     string             `json:"status" bson:"status"`
	Components Components         `json:"components" bson:"components"`
	Message    string             `json:"message" bson:"message"`
	UpdatedBy  primitive.ObjectID `json:"updatedBy" bson:"updatedBy"`
	Timestamp  int64              `json:"timestamp" bson:"timestamp" index:"single,order:-1"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}

// PerformanceMetric một mẫu hiệu năng
type PerformanceMetric struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Timestamp    int64              `json:"timestamp" bson:"timestamp" index:"single,order:-1"`
	ResponseTime float64            `json:"responseTime" bson:"responseTime"`
	ErrorRate    float64            `json:"errorRate" bson:"errorRate"`
	Uptime       float64            `json:"uptime" bson:"uptime"`
	ActiveUsers  int64              `json:"activeUsers" bson:"activeUsers"`
	CPU          float64            `json:"cpu" bson:"cpu"`
	Memory       float64            `json:"memory" bson:"memory"`
	APICalls     int64              `json:"apiCalls" bson:"apiCalls"`
	SlowQueries  int64              `json:"slowQueries" bson:"slowQueries"`
	CreatedAt    int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt    int64              `json:"updatedAt" bson:"updatedAt"`
}
