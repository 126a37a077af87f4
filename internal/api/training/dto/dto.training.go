// Package dto chứa các DTO cho training
package dto

import "time"

// CreateTrainingInput POST /training
type CreateTrainingInput struct {
	Title       string    `json:"title" validate:"required,min=3,max=200,no_xss"`
	Description string    `json:"description" validate:"required,max=5000,no_xss"`
	Type        string    `json:"type" validate:"required,max=50,no_xss"`
	Department  string    `json:"department" validate:"required,max=100,no_xss"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
	Capacity    int64     `json:"capacity" validate:"gte=0,lte=10000"`
	Status      string    `json:"status" validate:"omitempty,oneof=upcoming ongoing completed"`
}

// UpdateTrainingInput PUT /training/:id
type UpdateTrainingInput struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=200,no_xss"`
	Description *string    `json:"description" validate:"omitempty,max=5000,no_xss"`
	Type        *string    `json:"type" validate:"omitempty,max=50,no_xss"`
	Department  *string    `json:"department" validate:"omitempty,max=100,no_xss"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Capacity    *int64     `json:"capacity" validate:"omitempty,gte=0,lte=10000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=upcoming ongoing completed"`
}

// ToSet trả về các field cần $set
func (in UpdateTrainingInput) ToSet() map[string]interface{} {
	set := map[string]interface{}{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Type != nil {
		set["type"] = *in.Type
	}
	if in.Department != nil {
		set["department"] = *in.Department
	}
	if in.StartDate != nil {
		set["startDate"] = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		set["endDate"] = in.EndDate.UTC()
	}
	if in.Capacity != nil {
		set["capacity"] = *in.Capacity
	}
	if in.Status != nil {
		set["status"] = *in.Status
	}
	return set
}

// ListQuery bộ lọc GET /training
type ListQuery struct {
	Department string `query:"department" validate:"omitempty,max=100"`
	Status     string `query:"status" validate:"omitempty,oneof=upcoming ongoing completed"`
	Type       string `query:"type" validate:"omitempty,max=50"`
}

// EnrollmentStatus kết quả GET /training/:id/enrollment-status
type EnrollmentStatus struct {
	Enrolled       bool   `json:"enrolled"`
	Status         string `json:"status,omitempty"`
	EnrollmentDate int64  `json:"enrollmentDate,omitempty"`
	CompletionDate int64  `json:"completionDate,omitempty"`
	SeatsLeft      int64  `json:"seatsLeft"`
}

// Certificate kết quả GET /training/:id/certificate
type Certificate struct {
	CertificateURL string `json:"certificateUrl"`
	CompletionDate int64  `json:"completionDate"`
}
