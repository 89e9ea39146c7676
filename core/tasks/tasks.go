package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names routed through the asynq queue.
const (
	TypeAttendanceReport = "email:attendance_report"
)

// PresentStudent is one row of the attendance report sent to the teacher.
type PresentStudent struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	Email      string `json:"email"`
}

// AttendanceReportPayload carries everything needed to render and send the
// attendance email after an organizer finalizes attendance.
type AttendanceReportPayload struct {
	TeacherName     string           `json:"teacher_name"`
	TeacherEmail    string           `json:"teacher_email"`
	EventName       string           `json:"event_name"`
	EventDate       string           `json:"event_date"`
	EventTime       string           `json:"event_time"`
	OrganizerName   string           `json:"organizer_name"`
	PresentStudents []PresentStudent `json:"present_students"`
}

func NewAttendanceReportTask(payload AttendanceReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal attendance report payload: %w", err)
	}
	return asynq.NewTask(TypeAttendanceReport, data, asynq.MaxRetry(3)), nil
}
