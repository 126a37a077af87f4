package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK        = 200 // Thành công
	StatusCreated   = 201 // Tạo mới thành công
	StatusNoContent = 204 // Thành công nhưng không có nội dung trả về

	// Client Error Codes (4xx)
	StatusBadRequest      = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized    = 401 // Chưa xác thực
	StatusForbidden       = 403 // Không có quyền truy cập
	StatusNotFound        = 404 // Không tìm thấy tài nguyên
	StatusConflict        = 409 // Xung đột dữ liệu
	StatusTooLarge        = 413 // Payload quá lớn
	StatusTooManyRequests = 429 // Quá nhiều yêu cầu

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Lỗi server
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Response Messages
const (
	MsgSuccess = "Operation completed successfully"
	MsgCreated = "Created successfully"

	MsgBadRequest      = "Invalid request"
	MsgUnauthorized    = "Please log in"
	MsgForbidden       = "Access denied"
	MsgNotFound        = "Resource not found"
	MsgConflict        = "Resource conflict"
	MsgTooManyRequests = "Too many requests, please try again later"
	MsgInternalError   = "Internal server error"

	MsgTokenMissing = "Authentication token is missing"
	MsgTokenInvalid = "Authentication token is invalid"
	MsgTokenExpired = "Authentication token has expired"

	MsgValidationError = "Validation failed"
	MsgDatabaseError   = "Database query failed"
	MsgInvalidFormat   = "Invalid data format"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: AUTH_001)
	Category    string // Phân loại lỗi (ví dụ: Authentication)
	SubCategory string // Phân loại con (ví dụ: Token)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{Code: "SYS_001", Category: "System", SubCategory: "Internal", Description: "Lỗi hệ thống nội bộ"}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken       = ErrorCode{Code: "AUTH_001", Category: "Authentication", SubCategory: "Token", Description: "Lỗi liên quan đến token"}
	ErrCodeAuthCredentials = ErrorCode{Code: "AUTH_002", Category: "Authentication", SubCategory: "Credentials", Description: "Lỗi thông tin đăng nhập"}
	ErrCodeAuthRole        = ErrorCode{Code: "AUTH_003", Category: "Authentication", SubCategory: "Role", Description: "Vai trò không được phép thực hiện thao tác"}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput  = ErrorCode{Code: "VAL_001", Category: "Validation", SubCategory: "Input", Description: "Lỗi dữ liệu đầu vào"}
	ErrCodeValidationFormat = ErrorCode{Code: "VAL_002", Category: "Validation", SubCategory: "Format", Description: "Lỗi định dạng dữ liệu"}

	// Database Errors (DB_xxx)
	ErrCodeDatabase           = ErrorCode{Code: "DB", Category: "Database", SubCategory: "General", Description: "Lỗi cơ sở dữ liệu chung"}
	ErrCodeDatabaseConnection = ErrorCode{Code: "DB_001", Category: "Database", SubCategory: "Connection", Description: "Lỗi kết nối cơ sở dữ liệu"}
	ErrCodeDatabaseQuery      = ErrorCode{Code: "DB_002", Category: "Database", SubCategory: "Query", Description: "Lỗi truy vấn dữ liệu"}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessState     = ErrorCode{Code: "BIZ_001", Category: "Business", SubCategory: "State", Description: "Lỗi trạng thái nghiệp vụ"}
	ErrCodeBusinessOperation = ErrorCode{Code: "BIZ_002", Category: "Business", SubCategory: "Operation", Description: "Lỗi thao tác nghiệp vụ"}

	// Resource Errors
	ErrCodeNotFound = ErrorCode{Code: "NOT_FOUND", Category: "Resource", SubCategory: "Lookup", Description: "Không tìm thấy tài nguyên"}
	ErrCodeConflict = ErrorCode{Code: "CONFLICT", Category: "Resource", SubCategory: "Conflict", Description: "Tài nguyên đã tồn tại hoặc thao tác đã được thực hiện"}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
	cause      error
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Unwrap trả về lỗi gốc (nếu có) để errors.Is/As đi xuyên qua
func (e *Error) Unwrap() error {
	return e.cause
}

// Is so sánh theo mã lỗi. Target không có message thì chỉ cần trùng mã.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Code.Code != t.Code.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// WrapError giống NewError nhưng giữ lại lỗi gốc
func WrapError(code ErrorCode, message string, statusCode int, cause error) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		cause:      cause,
	}
}

// NotFound tạo lỗi 404 với message riêng cho từng loại tài nguyên
func NotFound(message string) error {
	return NewError(ErrCodeNotFound, message, StatusNotFound, nil)
}

// Conflict tạo lỗi 409
func Conflict(message string) error {
	return NewError(ErrCodeConflict, message, StatusConflict, nil)
}

// BadRequest tạo lỗi 400 với chi tiết tuỳ chọn
func BadRequest(message string, details any) error {
	return NewError(ErrCodeValidationInput, message, StatusBadRequest, details)
}

// Forbidden tạo lỗi 403
func Forbidden(message string) error {
	return NewError(ErrCodeAuthRole, message, StatusForbidden, nil)
}

// Custom errors
var (
	// Authentication Errors
	ErrInvalidCredentials = NewError(ErrCodeAuthCredentials, "Invalid email or password", StatusUnauthorized, nil)
	ErrTokenExpired       = NewError(ErrCodeAuthToken, MsgTokenExpired, StatusUnauthorized, nil)
	ErrTokenInvalid       = NewError(ErrCodeAuthToken, MsgTokenInvalid, StatusUnauthorized, nil)
	ErrTokenMissing       = NewError(ErrCodeAuthToken, MsgTokenMissing, StatusUnauthorized, nil)
	ErrForbidden          = NewError(ErrCodeAuthRole, MsgForbidden, StatusForbidden, nil)
	ErrUserNotFound       = NewError(ErrCodeNotFound, "User not found", StatusNotFound, nil)

	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, MsgValidationError, StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, MsgInvalidFormat, StatusBadRequest, nil)

	// Resource / Database Errors
	ErrNotFound   = NewError(ErrCodeNotFound, "", StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeConflict, "", StatusConflict, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, "Database connection failed", StatusServiceUnavailable, nil)

	// Business Logic Errors
	ErrInvalidState     = NewError(ErrCodeBusinessState, "Invalid state", StatusConflict, nil)
	ErrInvalidOperation = NewError(ErrCodeBusinessOperation, "Invalid operation", StatusBadRequest, nil)
)

// IsNotFound kiểm tra lỗi có phải loại "không tìm thấy" không
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments)
}

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Lỗi đã được chuẩn hoá thì giữ nguyên
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return WrapError(ErrCodeNotFound, MsgNotFound, StatusNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return WrapError(ErrCodeConflict, "Duplicate value violates a unique constraint", StatusConflict, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return WrapError(ErrCodeDatabaseConnection, "Database is unavailable", StatusServiceUnavailable, err)
	}

	return WrapError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, err)
}
