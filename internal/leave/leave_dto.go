package leave

type CreateLeaveRequest struct {
	LeaveTypeID  string  `json:"leave_type_id" binding:"required,uuid"`
	StartTime    string  `json:"start_time" binding:"required"`
	EndTime      string  `json:"end_time" binding:"required"`
	Reason       string  `json:"reason"`
	AttachmentID *string `json:"attachment_id"`
}

type AmendLeaveRequest struct {
	LeaveTypeID  string  `json:"leave_type_id" binding:"required,uuid"`
	StartTime    string  `json:"start_time" binding:"required"`
	EndTime      string  `json:"end_time" binding:"required"`
	Reason       string  `json:"reason"`
	AttachmentID *string `json:"attachment_id"`
}

type ReviewRequest struct {
	Reason string `json:"reason"`
}

type ListLeavesQuery struct {
	Scope       string `form:"scope"`
	LeaveTypeID string `form:"leave_type_id"`
	EmployeeID  string `form:"employee_id"`
	From        string `form:"from"`
	To          string `form:"to"`
	Status      *int   `form:"status"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	LeaveTypeID  string  `json:"leave_type_id"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	LeaveHours   string  `json:"leave_hours"`
	Reason       string  `json:"reason"`
	Status       int     `json:"status"`
	StatusLabel  string  `json:"status_label"`
	RejectReason *string `json:"reject_reason,omitempty"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	AttachmentID *string `json:"attachment_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
