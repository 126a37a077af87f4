// Package models - model Training: khoá đào tạo nội bộ có giới hạn số chỗ.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái khoá học
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

// Trạng thái ghi danh
const (
	EnrollmentEnrolled  = "enrolled"
	EnrollmentCompleted = "completed"
)

// Enrollment là một người dùng trong enrolledUsers
type Enrollment struct {
	User           primitive.ObjectID `json:"user" bson:"user"`
	Status         string             `json:"status" bson:"status"`
	EnrollmentDate int64              `json:"enrollmentDate" bson:"enrollmentDate"`
	CompletionDate int64              `json:"completionDate,omitempty" bson:"completionDate,omitempty"`
}

// Training - len(enrolledUsers) <= capacity và mỗi user xuất hiện tối đa một lần
type Training struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Type          string             `json:"type" bson:"type"`
	Department    string             `json:"department" bson:"department" index:"compound:department_status"`
	Status        string             `json:"status" bson:"status" index:"compound:department_status"`
	StartDate     time.Time          `json:"startDate" bson:"startDate" index:"single"`
	EndDate       time.Time          `json:"endDate" bson:"endDate"`
	Capacity      int64              `json:"capacity" bson:"capacity"`
	EnrolledUsers []Enrollment       `json:"enrolledUsers" bson:"enrolledUsers"`
	CreatedBy     primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt     int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt     int64              `json:"updatedAt" bson:"updatedAt"`
}

// EnrollmentOf trả về bản ghi ghi danh của user, nil nếu chưa ghi danh
func (t *Training) EnrollmentOf(userID primitive.ObjectID) *Enrollment {
	for i := range t.EnrolledUsers {
		if t.EnrolledUsers[i].User == userID {
			return &t.EnrolledUsers[i]
		}
	}
	return nil
}

// IsFull true khi đã hết chỗ
func (t *Training) IsFull() bool {
	return int64(len(t.EnrolledUsers)) >= t.Capacity
}
