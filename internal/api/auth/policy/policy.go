// Package policy là bảng phân quyền tĩnh theo vai trò.
// Can là hàm thuần, không truy cập DB, được AuthMiddleware gọi đúng một lần mỗi request.
package policy

// Các vai trò người dùng
const (
	RoleEmployee          = "employee"
	RoleInnovationManager = "innovation_manager"
	RoleHR                = "hr"
	RoleITSupport         = "it_support"
	RoleMarketing         = "marketing"
	RoleAdmin             = "admin"
)

// Các action cần phân quyền. Action rỗng nghĩa là chỉ cần đăng nhập.
const (
	ActIdeaReview      = "Idea.Review"
	ActIdeaAnalytics   = "Idea.Analytics"
	ActIdeaMarketing   = "Idea.Marketing"
	ActTrainingManage  = "Training.Manage"
	ActTrainingStats   = "Training.Statistics"
	ActCampaignManage  = "Campaign.Manage"
	ActCampaignReport  = "Campaign.Report"
	ActSupportManage   = "Support.Manage"
	ActSupportMetrics  = "Support.Metrics"
	ActActivityViewAny = "Activity.ViewAny"
	ActSystemUpdate    = "System.Update"
	ActUserManage      = "User.Manage"
)

// Roles trả về danh sách vai trò hợp lệ
func Roles() []string {
	return []string{RoleEmployee, RoleInnovationManager, RoleHR, RoleITSupport, RoleMarketing, RoleAdmin}
}

// IsValidRole kiểm tra role có nằm trong danh sách không
func IsValidRole(role string) bool {
	for _, r := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// table: action -> các role được phép (admin luôn được phép, không cần liệt kê)
var table = map[string][]string{
	ActIdeaReview:      {RoleInnovationManager},
	ActIdeaAnalytics:   {RoleInnovationManager},
	ActIdeaMarketing:   {RoleMarketing},
	ActTrainingManage:  {RoleHR},
	ActTrainingStats:   {RoleHR},
	ActCampaignManage:  {RoleMarketing},
	ActCampaignReport:  {RoleMarketing},
	ActSupportManage:   {RoleITSupport},
	ActSupportMetrics:  {RoleITSupport},
	ActActivityViewAny: {RoleHR},
	ActSystemUpdate:    {RoleITSupport},
	ActUserManage:      {},
}

// Actions trả về tất cả action đã khai báo
func Actions() []string {
	out := make([]string, 0, len(table))
	for a := range table {
		out = append(out, a)
	}
	return out
}

// Can trả về true nếu role được phép thực hiện action.
// Role hoặc action không xác định luôn bị từ chối.
func Can(role, action string) bool {
	if !IsValidRole(role) {
		return false
	}
	allowed, ok := table[action]
	if !ok {
		return false
	}
	if role == RoleAdmin {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CanActOn cho phép chủ sở hữu tài nguyên, hoặc role có quyền action
func CanActOn(role, actorID, ownerID, action string) bool {
	if actorID != "" && actorID == ownerID {
		return true
	}
	return Can(role, action)
}
