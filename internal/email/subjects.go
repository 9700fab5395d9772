package email

const (
	subjectNotification = "Notification"
	subjectFollowup     = "Just checking in"
	subjectWeeklyReport = "Your Weekly CRM Report"
)
