// Package basehdl chứa các helper cho handler: parse request, validate, phân trang và response chuẩn.
package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/common"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// FieldError mô tả lỗi validate của một field, trả về trong "details"
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// validateInput chạy validator dùng chung và gom lỗi theo field
func validateInput(input interface{}) error {
	err := global.InitValidator().Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		return common.BadRequest(common.MsgValidationError, details)
	}
	return common.BadRequest(common.MsgValidationError, nil)
}

// ParseRequestBody decode JSON body (UseNumber) rồi validate theo tag `validate`
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return common.BadRequest("Request body is required", nil)
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}
	return validateInput(input)
}

// ParseRequestQuery bind query string vào struct (tag `query`) rồi validate
func (h *BaseHandler) ParseRequestQuery(c fiber.Ctx, input interface{}) error {
	if err := c.Bind().Query(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}
	return validateInput(input)
}

// ParsePagination đọc page/limit từ query; page mặc định 1, limit mặc định 10, tối đa 100
func (h *BaseHandler) ParsePagination(c fiber.Ctx) (page int64, limit int64) {
	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.ParseInt(c.Query("limit", strconv.Itoa(defaultPageLimit)), 10, 64)
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// ParseObjectIDParam đọc ObjectID từ route param
func (h *BaseHandler) ParseObjectIDParam(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "Invalid "+name, common.StatusBadRequest, nil)
	}
	return id, nil
}

// ParseDate nhận YYYY-MM-DD hoặc RFC3339, luôn trả về UTC. Chuỗi rỗng trả về nil.
// Với endOfDay=true, ngày dạng YYYY-MM-DD được mở rộng tới 23:59:59.999 để bao gồm cả ngày đó.
func ParseDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, "Invalid date "+raw+", expected YYYY-MM-DD or RFC3339", common.StatusBadRequest, nil)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return &t, nil
}

// ParseDateRange đọc startDate/endDate từ query
func (h *BaseHandler) ParseDateRange(c fiber.Ctx) (start, end *time.Time, err error) {
	if start, err = ParseDate(c.Query("startDate"), false); err != nil {
		return nil, nil, err
	}
	if end, err = ParseDate(c.Query("endDate"), true); err != nil {
		return nil, nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, common.BadRequest("endDate must not be before startDate", nil)
	}
	return start, end, nil
}
